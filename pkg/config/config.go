// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads Foundry service configuration from defaults,
// an optional YAML file, and FOUNDRY_-prefixed environment variables.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultMaxRounds bounds planner rounds per agent run.
	DefaultMaxRounds = 5

	// DefaultMaxHistory is the retained conversation window in
	// user/assistant pairs.
	DefaultMaxHistory = 10
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Planner   PlannerConfig   `koanf:"planner"`
	Backends  BackendsConfig  `koanf:"backends"`
	Agent     AgentConfig     `koanf:"agent"`
	Memory    MemoryConfig    `koanf:"memory"`
	Audit     AuditConfig     `koanf:"audit"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

type PlannerConfig struct {
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// BackendsConfig holds one endpoint per remote capability plus the
// knowledge-base ingest backend.
type BackendsConfig struct {
	Mock       bool          `koanf:"mock"`
	Timeout    time.Duration `koanf:"timeout"`
	SigningKey string        `koanf:"signing_key"`
	PredictURL string        `koanf:"predict_url"`
	AnalyzeURL string        `koanf:"analyze_url"`
	SearchURL  string        `koanf:"search_url"`
	IngestURL  string        `koanf:"ingest_url"`
}

type AgentConfig struct {
	MaxRounds   int    `koanf:"max_rounds"`
	MaxHistory  int    `koanf:"max_history"`
	CatalogPath string `koanf:"catalog_path"` // optional YAML tool-description overrides
}

type MemoryConfig struct {
	Provider string `koanf:"provider"` // inmemory, sqlite
	Path     string `koanf:"path"`     // sqlite database path
}

type AuditConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Load reads configuration in order: defaults, YAML file (if path is
// non-empty), then FOUNDRY_ environment variables
// (FOUNDRY_AGENT_MAX_ROUNDS -> agent.max_rounds).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("server.addr", ":8000")
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("telemetry.exporter", "stdout")

	k.Set("planner.base_url", "http://localhost:9090")
	k.Set("planner.model", "claude-sonnet-4-5")
	k.Set("planner.timeout", "120s")

	k.Set("backends.mock", false)
	k.Set("backends.timeout", "30s")
	k.Set("backends.predict_url", "http://localhost:9101")
	k.Set("backends.analyze_url", "http://localhost:9102")
	k.Set("backends.search_url", "http://localhost:9103")
	k.Set("backends.ingest_url", "http://localhost:9100")

	k.Set("agent.max_rounds", DefaultMaxRounds)
	k.Set("agent.max_history", DefaultMaxHistory)

	k.Set("memory.provider", "inmemory")
	k.Set("memory.path", "foundry-sessions.db")

	k.Set("audit.enabled", false)
	k.Set("audit.path", "foundry-audit.db")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (FOUNDRY_PLANNER_BASE_URL -> planner.base_url)
	if err := k.Load(env.Provider("FOUNDRY_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "FOUNDRY_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
