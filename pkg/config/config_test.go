// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
	if cfg.Agent.MaxRounds != 5 {
		t.Errorf("agent.max_rounds = %d, want 5", cfg.Agent.MaxRounds)
	}
	if cfg.Agent.MaxHistory != 10 {
		t.Errorf("agent.max_history = %d, want 10", cfg.Agent.MaxHistory)
	}
	if cfg.Backends.Timeout != 30*time.Second {
		t.Errorf("backends.timeout = %v, want 30s", cfg.Backends.Timeout)
	}
	if cfg.Memory.Provider != "inmemory" {
		t.Errorf("memory.provider = %q", cfg.Memory.Provider)
	}
	if cfg.Backends.Mock {
		t.Error("backends.mock should default to false")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foundry.yaml")
	content := []byte(`
server:
  addr: ":9000"
agent:
  max_rounds: 3
backends:
  mock: true
log:
  level: debug
  format: json
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
	if cfg.Agent.MaxRounds != 3 {
		t.Errorf("agent.max_rounds = %d, want 3", cfg.Agent.MaxRounds)
	}
	if !cfg.Backends.Mock {
		t.Error("backends.mock should be true")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log.format = %q", cfg.Log.Format)
	}
	// Untouched keys keep defaults.
	if cfg.Agent.MaxHistory != 10 {
		t.Errorf("agent.max_history = %d, want default 10", cfg.Agent.MaxHistory)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FOUNDRY_LOG_LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log.level = %q, want error", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/foundry.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
