package identity

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/agilesync/agilesync/internal/crypto"
	"github.com/agilesync/agilesync/internal/domain"
	"github.com/agilesync/agilesync/internal/repository"
)

var (
	ErrEmailTaken      = errors.New("identity: email already registered")
	ErrInvalidPlatform = errors.New("identity: unknown platform")
)

// Service handles user registration, profile access, and theme preferences.
type Service struct {
	users  repository.Store[domain.User]
	logger *slog.Logger
}

// New constructs a Service.
func New(users repository.Store[domain.User], logger *slog.Logger) Service {
	return Service{users: users, logger: logger}
}

// Register creates a user account with the default member role. The email is
// normalized before both the uniqueness check and storage.
func (s Service) Register(ctx context.Context, email, displayName, password string) (*domain.User, error) {
	normalized := domain.NormalizeEmail(email)
	existing, err := s.users.Find(ctx, func(u *domain.User) bool {
		return u.Email == normalized
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.NewUser(normalized, displayName, hash)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// GetUser fetches a user by id.
func (s Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns every user account.
func (s Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.GetAll(ctx)
}

// ThemePreferences returns the user's stored theme preferences.
func (s Service) ThemePreferences(ctx context.Context, userID string) (domain.ThemePreferences, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.ThemePreferences{}, err
	}
	return user.ThemePreferences, nil
}

// UpdateTheme stores a theme preference for one platform. Unknown platforms
// are rejected; unknown theme values silently coerce to dark.
func (s Service) UpdateTheme(ctx context.Context, userID, platform, theme string) (domain.ThemePreferences, error) {
	p, err := domain.ParsePlatform(platform)
	if err != nil {
		return domain.ThemePreferences{}, ErrInvalidPlatform
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.ThemePreferences{}, err
	}
	user.ThemePreferences.Set(p, theme)
	if err := s.users.Update(ctx, user); err != nil {
		return domain.ThemePreferences{}, err
	}
	s.logger.Info("theme updated", "user_id", userID, "platform", string(p))
	return user.ThemePreferences, nil
}
