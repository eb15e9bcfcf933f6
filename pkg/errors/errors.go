// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package errors provides typed error handling with rich context for Foundry.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies Foundry errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeToolFailure indicates a capability invocation failed.
	CodeToolFailure ErrorCode = "TOOL_FAILURE"

	// CodePlannerError indicates the planner call failed.
	CodePlannerError ErrorCode = "PLANNER_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeMemoryError indicates a session memory error.
	CodeMemoryError ErrorCode = "MEMORY_ERROR"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"
)

// FoundryError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type FoundryError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
	StatusCode  int // HTTP status for transport responses
}

// Error implements the error interface.
func (e *FoundryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *FoundryError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *FoundryError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Message     string                 `json:"message"`
		Code        string                 `json:"code"`
		Err         string                 `json:"error,omitempty"`
		Recoverable bool                   `json:"recoverable"`
		Context     map[string]interface{} `json:"context,omitempty"`
	}{
		Message:     e.Message,
		Code:        string(e.Code),
		Err:         causeString(e.Err),
		Recoverable: e.Recoverable,
		Context:     e.Context,
	})
}

func causeString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// New creates a new FoundryError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *FoundryError {
	return &FoundryError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *FoundryError) WithContext(key string, value interface{}) *FoundryError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *FoundryError) WithRecoverable(recoverable bool) *FoundryError {
	e.Recoverable = recoverable
	return e
}

// AsFoundryError attempts to convert an error to a FoundryError.
// Returns the error as FoundryError if it is one, or wraps it otherwise.
func AsFoundryError(err error) *FoundryError {
	if err == nil {
		return nil
	}
	if fe, ok := err.(*FoundryError); ok {
		return fe
	}
	return New(CodeInternal, "wrapped error", err)
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return 404
	case CodeInvalidInput:
		return 400
	case CodeTimeout:
		return 408
	default:
		return 500
	}
}
