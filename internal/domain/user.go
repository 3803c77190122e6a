package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is a user's global role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// ParseRole converts a string into a Role, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember:
		return RoleMember, nil
	case RoleViewer:
		return RoleViewer, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// OrgRole is a user's role within a single organization.
type OrgRole string

const (
	OrgRoleOwner  OrgRole = "owner"
	OrgRoleAdmin  OrgRole = "admin"
	OrgRoleMember OrgRole = "member"
	OrgRoleViewer OrgRole = "viewer"
)

// ParseOrgRole converts a string into an OrgRole, case-insensitively.
func ParseOrgRole(s string) (OrgRole, error) {
	switch OrgRole(strings.ToLower(strings.TrimSpace(s))) {
	case OrgRoleOwner:
		return OrgRoleOwner, nil
	case OrgRoleAdmin:
		return OrgRoleAdmin, nil
	case OrgRoleMember:
		return OrgRoleMember, nil
	case OrgRoleViewer:
		return OrgRoleViewer, nil
	default:
		return "", fmt.Errorf("unknown org role %q", s)
	}
}

// Membership binds a user to an organization with a per-org role.
// A user holds at most one membership per organization.
type Membership struct {
	OrganizationID string    `json:"organizationId"`
	Role           OrgRole   `json:"role"`
	JoinedAt       time.Time `json:"joinedAt"`
}

// User is an account with credentials, a global role, and organization
// memberships. Email is stored lowercased and trimmed; construct users through
// NewUser and mutate the address through SetEmail to keep that invariant.
type User struct {
	Entity
	Email            string           `json:"email"`
	DisplayName      string           `json:"displayName"`
	PasswordHash     string           `json:"passwordHash"`
	Role             Role             `json:"role"`
	IsActive         bool             `json:"isActive"`
	Memberships      []Membership     `json:"memberships"`
	ThemePreferences ThemePreferences `json:"themePreferences"`
}

// NewUser constructs an active user with the default member role and dark
// theme preferences. The email is normalized on the way in.
func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		Entity:           NewEntity(),
		Email:            NormalizeEmail(email),
		DisplayName:      displayName,
		PasswordHash:     passwordHash,
		Role:             RoleMember,
		IsActive:         true,
		Memberships:      []Membership{},
		ThemePreferences: DefaultThemePreferences(),
	}
}

// SetEmail replaces the address, preserving the normalization invariant.
func (u *User) SetEmail(email string) {
	u.Email = NormalizeEmail(email)
}

// MembershipFor returns the membership for the given organization, if any.
func (u *User) MembershipFor(orgID string) (Membership, bool) {
	for _, m := range u.Memberships {
		if m.OrganizationID == orgID {
			return m, true
		}
	}
	return Membership{}, false
}

// AddMembership appends a membership stamped with the current time. It reports
// false without mutating when a membership for the organization already exists.
func (u *User) AddMembership(orgID string, role OrgRole) bool {
	if _, ok := u.MembershipFor(orgID); ok {
		return false
	}
	u.Memberships = append(u.Memberships, Membership{
		OrganizationID: orgID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	})
	return true
}

// RemoveMembership drops the membership for the given organization, reporting
// whether one was present.
func (u *User) RemoveMembership(orgID string) bool {
	for i, m := range u.Memberships {
		if m.OrganizationID == orgID {
			u.Memberships = append(u.Memberships[:i], u.Memberships[i+1:]...)
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an email address. Every code path that
// sets User.Email goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
