package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type authContextKey string

const contextKeyPrincipal authContextKey = "agilesync-principal"

// requireUser ensures the request carries a valid user-registry bearer token
// before invoking the handler. The resolved principal id (a user id, or the
// superadmin sentinel for app-view tokens) is placed on the request context.
func (r *Router) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token, err := bearerToken(req.Header.Get("Authorization"))
		if err != nil {
			r.logger.Warn("authorization header invalid", "error", err, "path", req.URL.Path)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		principal, ok := r.auth.ResolveUser(token)
		if !ok {
			r.logger.Warn("token did not resolve", "path", req.URL.Path)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyPrincipal, principal)
		next(w, req.WithContext(ctx))
	}
}

// requireAdmin ensures the request carries a valid superadmin bearer token.
func (r *Router) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token, err := bearerToken(req.Header.Get("Authorization"))
		if err != nil {
			r.logger.Warn("authorization header invalid", "error", err, "path", req.URL.Path)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !r.auth.ResolveAdmin(token) {
			r.logger.Warn("admin token did not resolve", "path", req.URL.Path)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, req)
	}
}

// principalFromContext extracts the resolved principal id from context.
func principalFromContext(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(contextKeyPrincipal).(string)
	return principal, ok
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
