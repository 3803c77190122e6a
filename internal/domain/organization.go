package domain

import "strings"

// Organization is a tenant: the isolation boundary for memberships and
// tenant-scoped data. Deactivation is soft; records are never removed.
type Organization struct {
	Entity
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

// NewOrganization constructs an active organization. The slug is normalized
// and the organization becomes its own tenant root.
func NewOrganization(name, slug, description string) *Organization {
	org := &Organization{
		Entity:      NewEntity(),
		Name:        name,
		Slug:        NormalizeSlug(slug),
		Description: description,
		IsActive:    true,
	}
	org.TenantID = &org.ID
	return org
}

// NormalizeSlug lowercases and trims a slug. Uniqueness checks compare
// normalized forms, so slugs differing only in case or surrounding whitespace
// collide.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
