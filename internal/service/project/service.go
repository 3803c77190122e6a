package project

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/agilesync/agilesync/internal/domain"
	"github.com/agilesync/agilesync/internal/repository"
)

var (
	errProjectNameRequired = errors.New("project name is required")
	errProjectKeyRequired  = errors.New("project key is required")
	errTitleRequired       = errors.New("work item title is required")
)

// Service handles project, board, sprint, and work item workflows.
type Service struct {
	projects repository.Store[domain.Project]
	boards   repository.Store[domain.Board]
	sprints  repository.Store[domain.Sprint]
	items    repository.Store[domain.WorkItem]
	logger   *slog.Logger
}

// New constructs a Service.
func New(projects repository.Store[domain.Project], boards repository.Store[domain.Board], sprints repository.Store[domain.Sprint], items repository.Store[domain.WorkItem], logger *slog.Logger) Service {
	return Service{projects: projects, boards: boards, sprints: sprints, items: items, logger: logger}
}

// CreateProject registers an active project owned by ownerID.
func (s Service) CreateProject(ctx context.Context, name, description, key, ownerID string) (*domain.Project, error) {
	if name == "" {
		return nil, errProjectNameRequired
	}
	if key == "" {
		return nil, errProjectKeyRequired
	}
	proj := domain.NewProject(name, description, key, ownerID)
	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, err
	}
	s.logger.Info("project created", "project_id", proj.ID, "key", proj.Key)
	return proj, nil
}

// GetProject fetches a project by id.
func (s Service) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// ListProjects returns all projects.
func (s Service) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.GetAll(ctx)
}

// UpdateProject overwrites name and description in place.
func (s Service) UpdateProject(ctx context.Context, id, name, description string) (*domain.Project, error) {
	proj, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	proj.Name = name
	proj.Description = description
	if err := s.projects.Update(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// AddMember attaches a user to the project's member list. Adding a user who
// is already a member is a no-op.
func (s Service) AddMember(ctx context.Context, projectID, userID string) (*domain.Project, error) {
	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !proj.AddMember(userID) {
		return proj, nil
	}
	if err := s.projects.Update(ctx, proj); err != nil {
		return nil, err
	}
	s.logger.Info("project member added", "project_id", projectID, "user_id", userID)
	return proj, nil
}

// RemoveMember detaches a user from the project's member list. Removing a
// non-member is a no-op.
func (s Service) RemoveMember(ctx context.Context, projectID, userID string) (*domain.Project, error) {
	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !proj.RemoveMember(userID) {
		return proj, nil
	}
	if err := s.projects.Update(ctx, proj); err != nil {
		return nil, err
	}
	s.logger.Info("project member removed", "project_id", projectID, "user_id", userID)
	return proj, nil
}

// DeleteProject removes a project. Deleting an unknown id is a no-op.
func (s Service) DeleteProject(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}

// CreateBoard adds a board with the default column layout to a project.
func (s Service) CreateBoard(ctx context.Context, projectID, name string) (*domain.Board, error) {
	board := domain.NewBoard(projectID, name)
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, err
	}
	s.logger.Info("board created", "board_id", board.ID, "project_id", projectID)
	return board, nil
}

// ListBoards returns the boards of a project.
func (s Service) ListBoards(ctx context.Context, projectID string) ([]*domain.Board, error) {
	return s.boards.Find(ctx, func(b *domain.Board) bool {
		return b.ProjectID == projectID
	})
}

// DeleteBoard removes a board.
func (s Service) DeleteBoard(ctx context.Context, id string) error {
	return s.boards.Delete(ctx, id)
}

// CreateSprint adds a sprint in the planning state.
func (s Service) CreateSprint(ctx context.Context, projectID, name, goal string, start, end *time.Time) (*domain.Sprint, error) {
	sprint := domain.NewSprint(projectID, name, goal)
	sprint.StartDate = start
	sprint.EndDate = end
	if err := s.sprints.Create(ctx, sprint); err != nil {
		return nil, err
	}
	s.logger.Info("sprint created", "sprint_id", sprint.ID, "project_id", projectID)
	return sprint, nil
}

// ListSprints returns the sprints of a project.
func (s Service) ListSprints(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	return s.sprints.Find(ctx, func(sp *domain.Sprint) bool {
		return sp.ProjectID == projectID
	})
}

// DeleteSprint removes a sprint.
func (s Service) DeleteSprint(ctx context.Context, id string) error {
	return s.sprints.Delete(ctx, id)
}

// WorkItemInput carries the caller-supplied fields of a work item.
type WorkItemInput struct {
	ProjectID   string   `json:"projectId"`
	BoardID     string   `json:"boardId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	AssigneeID  *string  `json:"assigneeId"`
	SprintID    *string  `json:"sprintId"`
	StoryPoints *int     `json:"storyPoints"`
	Tags        []string `json:"tags"`
}

// CreateWorkItem adds a work item to a board. Type and priority strings are
// parsed into their closed variants; unknown values are rejected.
func (s Service) CreateWorkItem(ctx context.Context, input WorkItemInput) (*domain.WorkItem, error) {
	if input.Title == "" {
		return nil, errTitleRequired
	}
	item := domain.NewWorkItem(input.ProjectID, input.BoardID, input.Title)
	item.Description = input.Description
	if input.Type != "" {
		kind, err := domain.ParseWorkItemType(input.Type)
		if err != nil {
			return nil, err
		}
		item.Type = kind
	}
	if input.Priority != "" {
		priority, err := domain.ParsePriority(input.Priority)
		if err != nil {
			return nil, err
		}
		item.Priority = priority
	}
	item.AssigneeID = input.AssigneeID
	item.SprintID = input.SprintID
	item.StoryPoints = input.StoryPoints
	if input.Tags != nil {
		item.Tags = input.Tags
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("work item created", "item_id", item.ID, "board_id", item.BoardID)
	return item, nil
}

// GetWorkItem fetches a work item by id.
func (s Service) GetWorkItem(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.items.GetByID(ctx, id)
}

// ListWorkItems returns the work items on a board.
func (s Service) ListWorkItems(ctx context.Context, boardID string) ([]*domain.WorkItem, error) {
	return s.items.Find(ctx, func(w *domain.WorkItem) bool {
		return w.BoardID == boardID
	})
}

// UpdateWorkItem overwrites the mutable fields of a work item.
func (s Service) UpdateWorkItem(ctx context.Context, id string, input WorkItemInput) (*domain.WorkItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		item.Title = input.Title
	}
	item.Description = input.Description
	if input.Status != "" {
		item.Status = input.Status
	}
	if input.Priority != "" {
		priority, err := domain.ParsePriority(input.Priority)
		if err != nil {
			return nil, err
		}
		item.Priority = priority
	}
	item.AssigneeID = input.AssigneeID
	item.SprintID = input.SprintID
	item.StoryPoints = input.StoryPoints
	if input.Tags != nil {
		item.Tags = input.Tags
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteWorkItem removes a work item.
func (s Service) DeleteWorkItem(ctx context.Context, id string) error {
	return s.items.Delete(ctx, id)
}
