package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	pingTimeout = 5 * time.Second
	runTimeout  = time.Minute
)

// Runner drives goose SQL migrations for the document tables. goose speaks
// database/sql, so each operation opens a short-lived stdlib connection from
// the same DSN the API's pgx pool was built from; the pool itself is only
// used for health pings.
type Runner struct {
	pool *pgxpool.Pool
	dsn  string
	dir  string
	log  *slog.Logger
}

// New validates the migration setup up front so a bad DSN or a missing
// migrations directory fails at boot, not on first use.
func New(pool *pgxpool.Pool, dsn, dir string, log *slog.Logger) (*Runner, error) {
	if pool == nil {
		return nil, errors.New("migrate: nil pool")
	}
	if dsn == "" {
		return nil, errors.New("migrate: empty dsn")
	}
	if dir == "" {
		return nil, errors.New("migrate: empty migrations directory")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("migrate: stat migrations directory: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{pool: pool, dsn: dsn, dir: dir, log: log}, nil
}

// Ping verifies the pool can reach the database.
func (r *Runner) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("migrate: ping: %w", err)
	}
	return nil
}

// Ensure brings the schema up to the latest migration.
func (r *Runner) Ensure(ctx context.Context) error {
	return r.exec(func(db *sql.DB) error {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()

		r.log.Info("ensuring schema is current", "dir", r.dir)
		if err := goose.UpContext(runCtx, db, r.dir); err != nil {
			return fmt.Errorf("migrate: up: %w", err)
		}
		r.log.Info("schema is current")
		return nil
	})
}

// Status logs which migrations are applied and which are pending.
func (r *Runner) Status(_ context.Context) error {
	return r.exec(func(db *sql.DB) error {
		if err := goose.Status(db, r.dir); err != nil {
			return fmt.Errorf("migrate: status: %w", err)
		}
		return nil
	})
}

// Down rolls back to the target version, or one step when target is zero.
func (r *Runner) Down(ctx context.Context, target int64) error {
	return r.exec(func(db *sql.DB) error {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()

		if target > 0 {
			r.log.Info("rolling back schema", "target", target)
			if err := goose.DownToContext(runCtx, db, r.dir, target); err != nil {
				return fmt.Errorf("migrate: down to %d: %w", target, err)
			}
			return nil
		}
		r.log.Info("rolling back one migration")
		if err := goose.DownContext(runCtx, db, r.dir); err != nil {
			return fmt.Errorf("migrate: down: %w", err)
		}
		return nil
	})
}

// exec runs fn against a fresh database/sql handle with the goose dialect
// configured. The handle is closed when fn returns.
func (r *Runner) exec(fn func(*sql.DB) error) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: set dialect: %w", err)
	}
	db, err := sql.Open("pgx", r.dsn)
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("migrate: ping handle: %w", err)
	}
	return fn(db)
}
