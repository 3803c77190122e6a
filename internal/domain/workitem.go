package domain

import (
	"fmt"
	"strings"
)

// WorkItemType categorizes a work item in the agile workflow.
type WorkItemType string

const (
	WorkItemEpic  WorkItemType = "epic"
	WorkItemStory WorkItemType = "story"
	WorkItemTask  WorkItemType = "task"
	WorkItemBug   WorkItemType = "bug"
)

// ParseWorkItemType converts a string into a WorkItemType.
func ParseWorkItemType(s string) (WorkItemType, error) {
	switch WorkItemType(strings.ToLower(strings.TrimSpace(s))) {
	case WorkItemEpic:
		return WorkItemEpic, nil
	case WorkItemStory:
		return WorkItemStory, nil
	case WorkItemTask:
		return WorkItemTask, nil
	case WorkItemBug:
		return WorkItemBug, nil
	default:
		return "", fmt.Errorf("unknown work item type %q", s)
	}
}

// Priority ranks work items from most to least urgent.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// ParsePriority converts a string into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityCritical:
		return PriorityCritical, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// WorkItem is a task, story, bug, or epic on a board. Status is a free-form
// column name matching the owning board's columns.
type WorkItem struct {
	Entity
	ProjectID   string       `json:"projectId"`
	BoardID     string       `json:"boardId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        WorkItemType `json:"type"`
	Status      string       `json:"status"`
	Priority    Priority     `json:"priority"`
	AssigneeID  *string      `json:"assigneeId,omitempty"`
	SprintID    *string      `json:"sprintId,omitempty"`
	StoryPoints *int         `json:"storyPoints,omitempty"`
	Tags        []string     `json:"tags"`
}

// NewWorkItem constructs a work item in the default "To Do" column.
func NewWorkItem(projectID, boardID, title string) *WorkItem {
	return &WorkItem{
		Entity:    NewEntity(),
		ProjectID: projectID,
		BoardID:   boardID,
		Title:     title,
		Type:      WorkItemTask,
		Status:    "To Do",
		Priority:  PriorityMedium,
		Tags:      []string{},
	}
}
