package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/semplan/internal/cli"
	"github.com/alexanderramin/semplan/internal/config"
	"github.com/alexanderramin/semplan/internal/db"
	"github.com/alexanderramin/semplan/internal/fetcher"
	"github.com/alexanderramin/semplan/internal/logging"
	"github.com/alexanderramin/semplan/internal/planner"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is normal outside development.
	_ = godotenv.Overload()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	src, err := fetcher.NewSource(cfg.CatalogURL, cfg.FetchTimeout, cfg.FetchRetries)
	if err != nil {
		return fmt.Errorf("catalog source: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []planner.Option{planner.WithLogger(logger)}
	if cfg.LogFetches {
		opts = append(opts, planner.WithFetchObserver(fetcher.NewLogObserver(logger)))
	}
	if cfg.LogLevel == "debug" {
		opts = append(opts, planner.WithProbe())
	}
	p, err := planner.New(ctx, database, src, opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	app := &cli.App{
		Planner: p,
		Config:  cfg,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
