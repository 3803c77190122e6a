package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity carries the fields shared by every persisted document: a pre-generated
// id, an optional tenant (organization) scope, and UTC audit timestamps. The
// store owns the timestamps; caller-supplied values are overwritten on create.
type Entity struct {
	ID        string    `json:"id"`
	TenantID  *string   `json:"tenantId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEntity returns an Entity with a freshly generated id.
func NewEntity() Entity {
	return Entity{ID: uuid.NewString()}
}

// Base exposes the embedded Entity so generic stores can stamp ids and
// timestamps without knowing the concrete document type.
func (e *Entity) Base() *Entity {
	return e
}
