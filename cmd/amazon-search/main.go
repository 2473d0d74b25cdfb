package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/productfinder/api"
	"github.com/use-agent/productfinder/config"
	"github.com/use-agent/productfinder/logging"
	"github.com/use-agent/productfinder/mcptool"
	"github.com/use-agent/productfinder/scraper"
)

const version = "1.0.0"

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging (stdout is the MCP channel) ─
	logging.Init(cfg.Log, os.Stderr)
	slog.Info("amazon-search starting",
		"searchURL", cfg.Scraper.SearchURL,
		"timeout", cfg.Scraper.RequestTimeout,
		"httpEnabled", cfg.Server.HTTPEnabled,
	)

	// ── 3. Initialise searcher ──────────────────────────────────────
	searcher, err := scraper.NewFromConfig(cfg.Scraper)
	if err != nil {
		slog.Error("failed to initialise searcher", "error", err)
		os.Exit(1)
	}

	// ── 4. Optional HTTP API ────────────────────────────────────────
	var srv *http.Server
	if cfg.Server.HTTPEnabled {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv = &http.Server{
			Addr:    addr,
			Handler: api.NewRouter(searcher, cfg, time.Now()),
		}
		go func() {
			slog.Info("HTTP server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("HTTP server error", "error", err)
			}
		}()
	}

	// ── 5. Serve MCP over stdio until stdin closes or a signal arrives ─
	s := mcptool.NewServer(searcher, version)
	serveErr := server.ServeStdio(s)

	// ── 6. Graceful shutdown ────────────────────────────────────────
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("HTTP server forced shutdown", "error", err)
		} else {
			slog.Info("HTTP server drained gracefully")
		}
		cancel()
	}

	if serveErr != nil {
		slog.Error("MCP server error", "error", serveErr)
		os.Exit(1)
	}
	slog.Info("amazon-search stopped")
}
