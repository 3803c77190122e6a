package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agilesync/agilesync/internal/app/migrate"
	"github.com/agilesync/agilesync/internal/config"
	"github.com/agilesync/agilesync/internal/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "migration command: up, down, status")
		target  = flag.Int64("target", 0, "target version for down (0 rolls back one)")
	)
	flag.Parse()

	cfg := config.LoadAPIConfig()
	log := logger.New("agilesync-migrate", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *command, *target); err != nil {
		log.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.APIConfig, log *slog.Logger, command string, target int64) error {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		return err
	}
	if err := runner.Ping(ctx); err != nil {
		return err
	}

	switch command {
	case "down":
		return runner.Down(ctx, target)
	case "status":
		return runner.Status(ctx)
	default:
		return runner.Ensure(ctx)
	}
}
