package domain

import (
	"fmt"
	"strings"
)

// ProjectStatus is a project's lifecycle state.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
	ProjectDeleted  ProjectStatus = "deleted"
)

// ParseProjectStatus converts a string into a ProjectStatus.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ProjectActive:
		return ProjectActive, nil
	case ProjectArchived:
		return ProjectArchived, nil
	case ProjectDeleted:
		return ProjectDeleted, nil
	default:
		return "", fmt.Errorf("unknown project status %q", s)
	}
}

// Project is an agile project with a short uppercase key used to prefix work
// item references.
type Project struct {
	Entity
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Key         string        `json:"key"`
	OwnerID     string        `json:"ownerId"`
	MemberIDs   []string      `json:"memberIds"`
	Status      ProjectStatus `json:"status"`
}

// AddMember appends a user to the member list, reporting false when the user
// is already present.
func (p *Project) AddMember(userID string) bool {
	for _, id := range p.MemberIDs {
		if id == userID {
			return false
		}
	}
	p.MemberIDs = append(p.MemberIDs, userID)
	return true
}

// RemoveMember drops a user from the member list, reporting whether the user
// was present.
func (p *Project) RemoveMember(userID string) bool {
	for i, id := range p.MemberIDs {
		if id == userID {
			p.MemberIDs = append(p.MemberIDs[:i], p.MemberIDs[i+1:]...)
			return true
		}
	}
	return false
}

// NewProject constructs an active project owned by ownerID.
func NewProject(name, description, key, ownerID string) *Project {
	return &Project{
		Entity:      NewEntity(),
		Name:        name,
		Description: description,
		Key:         strings.ToUpper(strings.TrimSpace(key)),
		OwnerID:     ownerID,
		MemberIDs:   []string{},
		Status:      ProjectActive,
	}
}
