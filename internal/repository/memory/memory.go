package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agilesync/agilesync/internal/domain"
	"github.com/agilesync/agilesync/internal/repository"
)

// Collection is an in-memory repository.Store used by tests and storeless
// runs. Documents are kept as encoded JSON so callers never share memory with
// the store, matching the isolation of the PostgreSQL implementation.
type Collection[T any] struct {
	mu   sync.RWMutex
	docs map[string]record
}

type record struct {
	raw       []byte
	createdAt time.Time
}

// NewCollection returns an empty collection.
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{docs: make(map[string]record)}
}

var _ repository.Store[domain.User] = (*Collection[domain.User])(nil)

// GetByID fetches a single document by id.
func (c *Collection[T]) GetByID(_ context.Context, id string) (*T, error) {
	c.mu.RLock()
	rec, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return decode[T](rec.raw)
}

// GetAll returns every document, oldest first.
func (c *Collection[T]) GetAll(ctx context.Context) ([]*T, error) {
	return c.Find(ctx, nil)
}

// Find applies the predicate over a snapshot of the collection.
func (c *Collection[T]) Find(_ context.Context, pred func(*T) bool) ([]*T, error) {
	c.mu.RLock()
	records := make([]record, 0, len(c.docs))
	for _, rec := range c.docs {
		records = append(records, rec)
	}
	c.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].createdAt.Before(records[j].createdAt)
	})

	entities := make([]*T, 0, len(records))
	for _, rec := range records {
		entity, err := decode[T](rec.raw)
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(entity) {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}

// Create stamps the entity and stores an encoded copy.
func (c *Collection[T]) Create(_ context.Context, entity *T) error {
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
	c.mu.Lock()
	c.docs[base.ID] = record{raw: raw, createdAt: base.CreatedAt}
	c.mu.Unlock()
	return nil
}

// Update replaces the stored document; a missing id is an error.
func (c *Collection[T]) Update(_ context.Context, entity *T) error {
	base := docBase(entity)
	base.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.docs[base.ID]
	if !ok {
		return repository.ErrNotFound
	}
	c.docs[base.ID] = record{raw: raw, createdAt: existing.createdAt}
	return nil
}

// Delete removes the document, succeeding even when the id is unknown.
func (c *Collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	delete(c.docs, id)
	c.mu.Unlock()
	return nil
}

func decode[T any](raw []byte) (*T, error) {
	entity := new(T)
	if err := json.Unmarshal(raw, entity); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return entity, nil
}

func docBase(entity any) *domain.Entity {
	return entity.(repository.Doc).Base()
}
