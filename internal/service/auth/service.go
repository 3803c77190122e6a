package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"log/slog"

	"github.com/agilesync/agilesync/internal/config"
	"github.com/agilesync/agilesync/internal/crypto"
	"github.com/agilesync/agilesync/internal/domain"
	"github.com/agilesync/agilesync/internal/repository"
	"github.com/agilesync/agilesync/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUnauthenticated    = errors.New("auth: authentication required")
	ErrMisconfigured      = errors.New("auth: superadmin credentials not configured")
)

// Service handles authentication for both principal classes. Ordinary users
// authenticate against stored bcrypt hashes and receive sessions in the user
// registry; the single superadmin authenticates against configured credentials
// and receives sessions in its own registry. Both registries are injected so
// tests construct isolated instances.
type Service struct {
	users         repository.Store[domain.User]
	userSessions  *session.Registry
	adminSessions *session.Registry
	logger        *slog.Logger
	cfg           config.APIConfig
}

// New constructs a Service.
func New(users repository.Store[domain.User], userSessions, adminSessions *session.Registry, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{
		users:         users,
		userSessions:  userSessions,
		adminSessions: adminSessions,
		logger:        logger,
		cfg:           cfg,
	}
}

// Login authenticates a user by email and password and issues a session
// token. A missing user, a deactivated account, and a wrong password are
// indistinguishable to the caller.
func (s Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if err := crypto.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.userSessions.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Logout revokes a user session. Unknown tokens are ignored.
func (s Service) Logout(token string) {
	s.userSessions.Revoke(token)
}

// ResolveUser maps a bearer token to the principal id it was issued for.
// The principal is a user id, or session.SuperAdmin for app-view tokens.
func (s Service) ResolveUser(token string) (string, bool) {
	return s.userSessions.Resolve(token)
}

// CurrentUser loads the user record behind a session token. Tokens bound to
// principals without a backing record (including app-view tokens) are treated
// as unauthenticated.
func (s Service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	principal, ok := s.userSessions.Resolve(token)
	if !ok {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, principal)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// AdminLogin authenticates the superadmin against configured credentials and
// issues a session in the admin registry. Absent configuration fails loudly
// rather than silently denying or granting access.
func (s Service) AdminLogin(username, password string) (string, error) {
	expectedUser := s.cfg.SuperAdminUsername
	expectedPass := s.cfg.SuperAdminPassword
	if expectedUser == "" || expectedPass == "" {
		s.logger.Error("superadmin credentials missing from configuration")
		return "", ErrMisconfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(expectedUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(expectedPass)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}
	token, err := s.adminSessions.Issue(session.SuperAdmin)
	if err != nil {
		return "", err
	}
	s.logger.Info("superadmin logged in")
	return token, nil
}

// AdminLogout revokes a superadmin session.
func (s Service) AdminLogout(token string) {
	s.adminSessions.Revoke(token)
}

// ResolveAdmin reports whether the token is a live superadmin session. The
// admin registry carries no differentiated principal: there is exactly one
// admin identity.
func (s Service) ResolveAdmin(token string) bool {
	_, ok := s.adminSessions.Resolve(token)
	return ok
}

// IssueAppToken creates a user-registry session bound to the superadmin
// sentinel, letting the admin exercise the ordinary user-facing surface. From
// the resource server's point of view the token is a normal user session.
func (s Service) IssueAppToken() (string, error) {
	token, err := s.userSessions.Issue(session.SuperAdmin)
	if err != nil {
		return "", err
	}
	s.logger.Info("superadmin app-view token issued")
	return token, nil
}

func (s Service) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized := domain.NormalizeEmail(email)
	matches, err := s.users.Find(ctx, func(u *domain.User) bool {
		return u.Email == normalized
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}
