package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agilesync/agilesync/internal/domain"
	"github.com/agilesync/agilesync/internal/repository"
)

// Collection implements repository.Store on a PostgreSQL table holding one
// JSONB document per row. The table carries id, tenant_id, and timestamp
// columns alongside the document so tenant scoping and audit ordering stay
// queryable without unpacking JSON.
type Collection[T any] struct {
	pool  *pgxpool.Pool
	table string
}

// NewCollection binds a document type to its backing table.
func NewCollection[T any](pool *pgxpool.Pool, table string) *Collection[T] {
	return &Collection[T]{pool: pool, table: table}
}

// ensure Collection satisfies the store contract for every document kind.
var (
	_ repository.Store[domain.User]         = (*Collection[domain.User])(nil)
	_ repository.Store[domain.Organization] = (*Collection[domain.Organization])(nil)
	_ repository.Store[domain.Project]      = (*Collection[domain.Project])(nil)
	_ repository.Store[domain.Board]        = (*Collection[domain.Board])(nil)
	_ repository.Store[domain.Sprint]       = (*Collection[domain.Sprint])(nil)
	_ repository.Store[domain.WorkItem]     = (*Collection[domain.WorkItem])(nil)
)

// GetByID fetches a single document by id.
func (c *Collection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table)
	row := c.pool.QueryRow(ctx, query, id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, storeErr("get by id", err)
	}
	return decode[T](raw)
}

// GetAll returns every document in the collection, oldest first.
func (c *Collection[T]) GetAll(ctx context.Context) ([]*T, error) {
	return c.Find(ctx, nil)
}

// Find scans the collection and applies the predicate in memory.
func (c *Collection[T]) Find(ctx context.Context, pred func(*T) bool) ([]*T, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s ORDER BY created_at`, c.table)
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, storeErr("find", err)
	}
	defer rows.Close()

	entities := make([]*T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, storeErr("find", err)
		}
		entity, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(entity) {
			entities = append(entities, entity)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("find", err)
	}
	return entities, nil
}

// Create stamps the entity and inserts it. Ids are pre-generated and
// effectively unique, so duplicate-id failures are not part of the contract.
func (c *Collection[T]) Create(ctx context.Context, entity *T) error {
	base := docBase(entity)
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	base.CreatedAt = now
	base.UpdatedAt = now

	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, tenant_id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`, c.table)
	if _, err := c.pool.Exec(ctx, query, base.ID, base.TenantID, raw, base.CreatedAt, base.UpdatedAt); err != nil {
		return storeErr("create", err)
	}
	return nil
}

// Update refreshes the update timestamp and replaces the stored document.
// A missing id is an error, not an upsert.
func (c *Collection[T]) Update(ctx context.Context, entity *T) error {
	base := docBase(entity)
	base.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	query := fmt.Sprintf(`UPDATE %s SET tenant_id = $2, doc = $3, updated_at = $4 WHERE id = $1`, c.table)
	tag, err := c.pool.Exec(ctx, query, base.ID, base.TenantID, raw, base.UpdatedAt)
	if err != nil {
		return storeErr("update", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the document, succeeding even when the id is unknown.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	if _, err := c.pool.Exec(ctx, query, id); err != nil {
		return storeErr("delete", err)
	}
	return nil
}

func decode[T any](raw []byte) (*T, error) {
	entity := new(T)
	if err := json.Unmarshal(raw, entity); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return entity, nil
}

// docBase extracts the embedded Entity. Document types embed domain.Entity;
// anything else is a programmer error caught at wiring time.
func docBase(entity any) *domain.Entity {
	return entity.(repository.Doc).Base()
}

// storeErr classifies failures: SQL-level errors pass through, everything else
// (dead connections, timeouts) surfaces as ErrUnavailable.
func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, repository.ErrUnavailable, err)
}
