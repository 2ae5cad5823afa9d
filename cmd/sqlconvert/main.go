// Command sqlconvert loads the game-log snapshot and writes its admitted rows
// into a SQLite archive served under /api/archive.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"nbadash/internal/config"
	"nbadash/internal/datasource"
	"nbadash/internal/gamelog"
	"nbadash/internal/infrastructure"
	"nbadash/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "sqlconvert:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("sqlconvert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataURL := fs.String("data", cfg.Data.BaseURL, "data directory or base URL")
	file := fs.String("file", cfg.Data.GameLogsFile, "game-log CSV resource name")
	out := fs.String("out", defaultArchivePath(cfg), "SQLite archive path")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := infrastructure.NewLogger(stderr, *logLevel)
	cfg.Data.BaseURL = *dataURL

	source, err := datasource.NewSource(cfg.Data)
	if err != nil {
		return err
	}

	start := time.Now()
	logger.InfoContext(ctx, "Starting archive conversion",
		slog.String("source", source.Location()),
		slog.String("file", *file),
		slog.String("out", *out))

	fetcher := datasource.NewFetcher(source, logger)
	table, err := gamelog.NewLoader(fetcher, *file, logger, nil).Load(ctx)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(*out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create archive directory: %w", err)
		}
	}

	archive, err := store.Open(ctx, *out, logger)
	if err != nil {
		return err
	}
	defer archive.Close()

	n, err := archive.ImportTable(ctx, table)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Archive conversion complete",
		slog.Int("rows", n),
		slog.Int("rejected", table.Rejected),
		slog.Int("players", table.Players.Len()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func defaultArchivePath(cfg *config.Config) string {
	if cfg.Data.ArchivePath != "" {
		return cfg.Data.ArchivePath
	}
	return filepath.Join("data", "nba_game_logs.db")
}
