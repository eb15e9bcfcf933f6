// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// foundryd is the Foundry inference-agent service: an HTTP front end over a
// planner/tool orchestration loop for die-casting quality prediction.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/castwise/foundry/pkg/agent"
	"github.com/castwise/foundry/pkg/audit"
	"github.com/castwise/foundry/pkg/config"
	"github.com/castwise/foundry/pkg/llm"
	"github.com/castwise/foundry/pkg/mcpserver"
	"github.com/castwise/foundry/pkg/memory"
	"github.com/castwise/foundry/pkg/server"
	"github.com/castwise/foundry/pkg/telemetry"
	"github.com/castwise/foundry/pkg/tools"
)

var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file")
		addr        = flag.String("addr", "", "listen address (overrides config)")
		mcpStdio    = flag.Bool("mcp", false, "serve the capability tools over MCP stdio instead of HTTP")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("foundryd", version)
		return
	}

	if err := run(*configPath, *addr, *mcpStdio); err != nil {
		slog.Error("foundryd exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath, addr string, mcpStdio bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	logger := telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	shutdown, err := telemetry.Init("foundryd", version, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	signer := tools.NewSigner(cfg.Backends.SigningKey)
	timeout := cfg.Backends.Timeout
	mock := cfg.Backends.Mock
	registry := tools.NewRegistry(
		tools.NewPredictInvoker(cfg.Backends.PredictURL, signer, timeout, mock),
		tools.NewAnalyzeInvoker(cfg.Backends.AnalyzeURL, signer, timeout, mock),
		tools.NewSearchInvoker(cfg.Backends.SearchURL, signer, timeout, mock),
	)

	catalog, err := tools.LoadCatalog(cfg.Agent.CatalogPath)
	if err != nil {
		return fmt.Errorf("load tool catalog: %w", err)
	}

	if mcpStdio {
		logger.Info("serving MCP over stdio", "tools", len(catalog))
		mcpSrv, merr := mcpserver.New("foundry", version, registry, catalog)
		if merr != nil {
			return fmt.Errorf("build mcp server: %w", merr)
		}
		return mcpSrv.ServeStdio()
	}

	var store memory.Store
	switch cfg.Memory.Provider {
	case "sqlite":
		sqliteStore, serr := memory.OpenSQLite(cfg.Memory.Path)
		if serr != nil {
			return fmt.Errorf("open session store: %w", serr)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	default:
		store = memory.NewInMemoryStore()
	}

	var auditStore audit.Store = audit.NopStore{}
	if cfg.Audit.Enabled {
		sqliteAudit, aerr := audit.OpenSQLite(cfg.Audit.Path)
		if aerr != nil {
			return fmt.Errorf("open audit store: %w", aerr)
		}
		defer sqliteAudit.Close()
		auditStore = sqliteAudit
	}

	provider := llm.NewConverseClient(cfg.Planner.BaseURL, cfg.Planner.Model, cfg.Planner.APIKey, cfg.Planner.Timeout)
	a := agent.New(provider, registry, store, auditStore, catalog, cfg.Agent)

	var ingest *tools.IngestClient
	if cfg.Backends.IngestURL != "" || mock {
		ingest = tools.NewIngestClient(cfg.Backends.IngestURL, signer, timeout, mock)
	}

	httpServer := server.New(a, ingest).HTTPServer(cfg.Server.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("foundryd listening",
		"addr", cfg.Server.Addr,
		"model", cfg.Planner.Model,
		"mock_backends", mock,
		"memory", cfg.Memory.Provider,
		"audit", cfg.Audit.Enabled)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("foundryd stopped")
	return nil
}
