package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agilesync/agilesync/internal/app/migrate"
	"github.com/agilesync/agilesync/internal/config"
	"github.com/agilesync/agilesync/internal/domain"
	httpx "github.com/agilesync/agilesync/internal/http"
	"github.com/agilesync/agilesync/internal/logger"
	"github.com/agilesync/agilesync/internal/repository/postgres"
	"github.com/agilesync/agilesync/internal/service/auth"
	"github.com/agilesync/agilesync/internal/service/identity"
	"github.com/agilesync/agilesync/internal/service/project"
	"github.com/agilesync/agilesync/internal/service/tenant"
	"github.com/agilesync/agilesync/internal/session"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.LoadAPIConfig()
	log := logger.New("agilesync-api", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("api terminated", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.APIConfig, log *slog.Logger) error {
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
	if err := runner.Ensure(ctx); err != nil {
		return err
	}

	users := postgres.NewCollection[domain.User](pool, "users")
	orgs := postgres.NewCollection[domain.Organization](pool, "organizations")
	projects := postgres.NewCollection[domain.Project](pool, "projects")
	boards := postgres.NewCollection[domain.Board](pool, "boards")
	sprints := postgres.NewCollection[domain.Sprint](pool, "sprints")
	items := postgres.NewCollection[domain.WorkItem](pool, "work_items")

	userSessions := session.NewRegistry(cfg.SessionTTL)
	adminSessions := session.NewRegistry(cfg.SessionTTL)

	authSvc := auth.New(users, userSessions, adminSessions, log, cfg)
	identitySvc := identity.New(users, log)
	tenantSvc := tenant.New(orgs, users, log)
	projectSvc := project.New(projects, boards, sprints, items, log)

	var limiter httpx.RateLimiter
	if cfg.RateLimitRedisAddr != "" {
		limiter, err = httpx.NewRedisRateLimiter(cfg.RateLimitRedisAddr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable, using in-memory fallback", "error", err)
			limiter = httpx.NewMemoryRateLimiter()
		}
	} else {
		limiter = httpx.NewMemoryRateLimiter()
	}

	router := httpx.NewRouter(log, authSvc, identitySvc, tenantSvc, projectSvc, limiter, pool.Ping)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpx.WithCORS(cfg.CORSOrigin, router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
