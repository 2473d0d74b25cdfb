package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/use-agent/productfinder/config"
	"github.com/use-agent/productfinder/finder"
	"github.com/use-agent/productfinder/logging"
	"github.com/use-agent/productfinder/mcptool"
	"github.com/use-agent/productfinder/repl"
	"github.com/use-agent/productfinder/report"
	"github.com/use-agent/productfinder/scraper"
)

func main() {
	cfg := config.Load()

	var embedded bool
	pflag.StringVar(&cfg.Client.ServerCommand, "server", cfg.Client.ServerCommand, "MCP server executable to spawn")
	pflag.StringSliceVar(&cfg.Client.ServerArgs, "server-arg", cfg.Client.ServerArgs, "Argument passed to the server (repeatable)")
	pflag.IntVar(&cfg.Client.MaxConcurrent, "max-concurrent", cfg.Client.MaxConcurrent, "Maximum in-flight searches (0 = unlimited, 1 = one at a time)")
	pflag.BoolVar(&embedded, "embedded", false, "Run the search tool in-process instead of spawning the server")
	pflag.StringVar(&cfg.Client.Log.Level, "log-level", cfg.Client.Log.Level, "Log level: debug, info, warn, error")
	pflag.StringVar(&cfg.Client.Log.Format, "log-format", cfg.Client.Log.Format, "Log format: text, json")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\nOpens the Amazon page of every product you type.\n\nFlags:\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	logging.Init(cfg.Client.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx, cfg, embedded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not connect to the search server: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	loop := &repl.Loop{
		In:         os.Stdin,
		Out:        os.Stdout,
		Dispatcher: finder.NewDispatcher(sess, cfg.Client.MaxConcurrent),
		Reporter:   report.NewReporter(os.Stdout, report.SystemBrowser{}),
	}
	if err := loop.Run(ctx); err != nil {
		slog.Error("session ended with error", "error", err)
	}
}

func openSession(ctx context.Context, cfg *config.Config, embedded bool) (*finder.Session, error) {
	if !embedded {
		return finder.OpenStdio(ctx, cfg.Client.ServerCommand, cfg.Client.ServerArgs, nil)
	}

	searcher, err := scraper.NewFromConfig(cfg.Scraper)
	if err != nil {
		return nil, err
	}
	return finder.OpenInProcess(ctx, mcptool.NewServer(searcher, finder.Version))
}
