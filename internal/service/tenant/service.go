package tenant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"log/slog"

	"github.com/agilesync/agilesync/internal/crypto"
	"github.com/agilesync/agilesync/internal/domain"
	"github.com/agilesync/agilesync/internal/repository"
)

var (
	ErrSlugTaken     = errors.New("tenant: an organization with this slug already exists")
	ErrAlreadyMember = errors.New("tenant: user is already a member of this organization")
	ErrNotMember     = errors.New("tenant: user is not a member of this organization")
)

// Service drives the organization lifecycle and tenant-admin membership
// transitions. The find-or-create step of AddAdmin runs under a service-wide
// mutex so concurrent retries of the same email cannot create duplicate
// accounts; the user create and membership write remain two separate,
// non-transactional store calls.
type Service struct {
	orgs   repository.Store[domain.Organization]
	users  repository.Store[domain.User]
	logger *slog.Logger

	adminMu sync.Mutex
}

// New constructs a Service.
func New(orgs repository.Store[domain.Organization], users repository.Store[domain.User], logger *slog.Logger) *Service {
	return &Service{orgs: orgs, users: users, logger: logger}
}

// CreateOrganization registers a new tenant. Slugs are compared in normalized
// form, so a retry with a differently-cased slug still conflicts. The new
// organization becomes its own tenant root.
func (s *Service) CreateOrganization(ctx context.Context, name, slug, description string) (*domain.Organization, error) {
	normalized := domain.NormalizeSlug(slug)
	existing, err := s.orgs.Find(ctx, func(o *domain.Organization) bool {
		return o.Slug == normalized
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrSlugTaken
	}

	org := domain.NewOrganization(name, normalized, description)
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	s.logger.Info("organization created", "org_id", org.ID, "slug", org.Slug)
	return org, nil
}

// UpdateOrganization overwrites name, description, and the active flag.
// The slug is immutable after creation and is never touched here.
func (s *Service) UpdateOrganization(ctx context.Context, id, name, description string, isActive bool) (*domain.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	org.Name = name
	org.Description = description
	org.IsActive = isActive
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// DeactivateOrganization soft-deletes a tenant: the record persists with the
// active flag cleared. Deactivating an already inactive organization succeeds.
func (s *Service) DeactivateOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	org.IsActive = false
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	s.logger.Info("organization deactivated", "org_id", org.ID)
	return org, nil
}

// GetOrganization fetches a tenant by id.
func (s *Service) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

// ListOrganizations returns every tenant, active or not.
func (s *Service) ListOrganizations(ctx context.Context) ([]*domain.Organization, error) {
	return s.orgs.GetAll(ctx)
}

// ListAdmins returns the users holding a membership in the organization.
func (s *Service) ListAdmins(ctx context.Context, orgID string) ([]*domain.User, error) {
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, err
	}
	return s.users.Find(ctx, func(u *domain.User) bool {
		_, ok := u.MembershipFor(orgID)
		return ok
	})
}

// AddAdmin attaches a user as organization admin by email. An unknown email
// creates a fresh account with the global admin role and its tenant set to
// the organization; a known email gains a membership, and its tenant id is
// backfilled only when previously unset so the first-joined organization
// stays the user's primary tenant. A duplicate membership conflicts.
func (s *Service) AddAdmin(ctx context.Context, orgID, email, displayName, password string) (*domain.User, error) {
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, err
	}

	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	normalized := domain.NormalizeEmail(email)
	matches, err := s.users.Find(ctx, func(u *domain.User) bool {
		return u.Email == normalized
	})
	if err != nil {
		return nil, err
	}

	if len(matches) > 0 {
		user := matches[0]
		if !user.AddMembership(orgID, domain.OrgRoleAdmin) {
			return nil, ErrAlreadyMember
		}
		if user.TenantID == nil {
			tenant := orgID
			user.TenantID = &tenant
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("tenant admin attached", "org_id", orgID, "user_id", user.ID)
		return user, nil
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.NewUser(normalized, displayName, hash)
	user.Role = domain.RoleAdmin
	tenant := orgID
	user.TenantID = &tenant
	user.AddMembership(orgID, domain.OrgRoleAdmin)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("tenant admin created", "org_id", orgID, "user_id", user.ID)
	return user, nil
}

// RemoveAdmin detaches exactly the membership for the organization, leaving
// the user record and any other memberships intact.
func (s *Service) RemoveAdmin(ctx context.Context, orgID, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.RemoveMembership(orgID) {
		return ErrNotMember
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("tenant admin removed", "org_id", orgID, "user_id", userID)
	return nil
}
