package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// SuperAdmin is the synthetic principal id carried by sessions the superadmin
// issues against the user-facing surface ("view as app" tokens).
const SuperAdmin = "superadmin"

// DefaultTTL is the validity window applied when a registry is constructed
// with a zero ttl.
const DefaultTTL = 8 * time.Hour

type entry struct {
	principal string
	expiresAt time.Time
}

// Registry is a thread-safe mapping from opaque bearer token to principal.
// User sessions and superadmin sessions live in two independent instances
// because they authenticate against different credential sources. Expired
// entries are reaped lazily on Resolve; there is no background sweep, so
// tokens that are never looked up again accumulate until process restart.
type Registry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]entry
}

// NewRegistry constructs an empty registry. Sessions expire ttl after
// issuance; a zero ttl selects DefaultTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		ttl:      ttl,
		sessions: make(map[string]entry),
	}
}

// Issue generates a fresh unpredictable token bound to the principal and
// returns it. Tokens carry 256 bits of entropy, so concurrent issuance never
// produces collisions in practice and none are handled.
func (r *Registry) Issue(principal string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	r.sessions[token] = entry{
		principal: principal,
		expiresAt: time.Now().UTC().Add(r.ttl),
	}
	r.mu.Unlock()
	return token, nil
}

// Resolve returns the principal behind a token. An unknown token resolves to
// nothing; an expired token is removed and resolves to nothing, now and on
// every later call. A valid token resolves without mutating state.
func (r *Registry) Resolve(token string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[token]
	if !ok {
		return "", false
	}
	if time.Now().UTC().After(e.expiresAt) {
		delete(r.sessions, token)
		return "", false
	}
	return e.principal, true
}

// Revoke removes the token unconditionally. Revoking an unknown or
// already-revoked token is a no-op.
func (r *Registry) Revoke(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Len reports the number of live entries, expired or not. Exposed for
// observability; the count only shrinks through Revoke and lazy expiry.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
