package domain

import (
	"fmt"
	"strings"
	"time"
)

// SprintStatus is a sprint's lifecycle state.
type SprintStatus string

const (
	SprintPlanning  SprintStatus = "planning"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
	SprintCancelled SprintStatus = "cancelled"
)

// ParseSprintStatus converts a string into a SprintStatus.
func ParseSprintStatus(s string) (SprintStatus, error) {
	switch SprintStatus(strings.ToLower(strings.TrimSpace(s))) {
	case SprintPlanning:
		return SprintPlanning, nil
	case SprintActive:
		return SprintActive, nil
	case SprintCompleted:
		return SprintCompleted, nil
	case SprintCancelled:
		return SprintCancelled, nil
	default:
		return "", fmt.Errorf("unknown sprint status %q", s)
	}
}

// Sprint is a time-boxed iteration within a project.
type Sprint struct {
	Entity
	ProjectID string       `json:"projectId"`
	Name      string       `json:"name"`
	Goal      string       `json:"goal"`
	StartDate *time.Time   `json:"startDate,omitempty"`
	EndDate   *time.Time   `json:"endDate,omitempty"`
	Status    SprintStatus `json:"status"`
}

// NewSprint constructs a sprint in the planning state.
func NewSprint(projectID, name, goal string) *Sprint {
	return &Sprint{
		Entity:    NewEntity(),
		ProjectID: projectID,
		Name:      name,
		Goal:      goal,
		Status:    SprintPlanning,
	}
}
