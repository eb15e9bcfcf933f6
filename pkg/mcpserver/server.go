// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcpserver exposes the capability invokers as MCP tools, so
// MCP-speaking clients can call prediction, importance analysis, and
// knowledge search directly without going through the planner loop.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/castwise/foundry/pkg/llm"
	"github.com/castwise/foundry/pkg/tools"
)

// Server wraps the mcp-go server over a tools.Registry.
type Server struct {
	mcpServer *server.MCPServer
}

// New builds an MCP server registering every catalog entry against the
// registry. Tool descriptions and input schemas are the same ones the planner
// sees, so tools/list advertises the real parameter contract.
func New(name, version string, registry *tools.Registry, catalog []llm.ToolSpec) (*Server, error) {
	s := &Server{
		mcpServer: server.NewMCPServer(name, version),
	}
	for _, spec := range catalog {
		tool, err := catalogTool(spec)
		if err != nil {
			return nil, err
		}
		s.mcpServer.AddTool(tool, toolHandler(registry, spec.Name))
	}
	return s, nil
}

// catalogTool converts a planner tool spec into an MCP tool declaration,
// carrying the JSON input schema through verbatim.
func catalogTool(spec llm.ToolSpec) (mcp.Tool, error) {
	raw, err := json.Marshal(spec.InputSchema)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("marshal input schema for %s: %w", spec.Name, err)
	}
	return mcp.Tool{
		Name:           spec.Name,
		Description:    spec.Description,
		RawInputSchema: raw,
	}, nil
}

// toolHandler adapts one registry entry to the MCP call contract. Results are
// returned as JSON text; error-shaped results become MCP tool errors.
func toolHandler(registry *tools.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		result := registry.Execute(ctx, name, args, nil)

		data, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		if msg, failed := result["error"].(string); failed {
			return mcp.NewToolResultError(msg), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// ServeStdio starts the server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
