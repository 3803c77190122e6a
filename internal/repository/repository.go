package repository

import (
	"context"

	"github.com/agilesync/agilesync/internal/domain"
)

// Doc is satisfied by every document type that embeds domain.Entity.
type Doc interface {
	Base() *domain.Entity
}

// Store is the persistence contract shared by every document collection.
// Operations are individually atomic; there are no multi-document
// transactions. Find takes an opaque predicate and only promises correctness,
// not index usage, so implementations may evaluate it in memory.
type Store[T any] interface {
	// GetByID returns ErrNotFound when the id does not resolve.
	GetByID(ctx context.Context, id string) (*T, error)
	// GetAll returns every document in the collection. No pagination:
	// collections are tenant-scoped and small.
	GetAll(ctx context.Context) ([]*T, error)
	// Find returns the documents matching the predicate.
	Find(ctx context.Context, pred func(*T) bool) ([]*T, error)
	// Create stamps creation and update timestamps (overwriting any
	// caller-supplied values), generates an id when blank, and persists.
	Create(ctx context.Context, entity *T) error
	// Update refreshes the update timestamp and replaces the stored document
	// matching by id. Returns ErrNotFound when no such document exists.
	Update(ctx context.Context, entity *T) error
	// Delete removes the document. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
}
