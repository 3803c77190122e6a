package project

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/agilesync/agilesync/internal/domain"
	"github.com/agilesync/agilesync/internal/repository"
	"github.com/agilesync/agilesync/internal/repository/memory"
)

func newTestService() Service {
	return New(
		memory.NewCollection[domain.Project](),
		memory.NewCollection[domain.Board](),
		memory.NewCollection[domain.Sprint](),
		memory.NewCollection[domain.WorkItem](),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func mustCreateProject(t *testing.T, svc Service) *domain.Project {
	t.Helper()
	proj, err := svc.CreateProject(context.Background(), "Apollo", "launch tracker", "apl", "owner-1")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return proj
}

func TestCreateProjectUppercasesKey(t *testing.T) {
	svc := newTestService()
	proj := mustCreateProject(t, svc)

	if proj.Key != "APL" {
		t.Fatalf("got key %q, want APL", proj.Key)
	}
	if proj.Status != domain.ProjectActive {
		t.Fatalf("got status %q, want active", proj.Status)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CreateProject(context.Background(), "", "", "KEY", ""); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := svc.CreateProject(context.Background(), "Name", "", "", ""); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestUpdateProjectUnknown(t *testing.T) {
	svc := newTestService()
	if _, err := svc.UpdateProject(context.Background(), "missing", "X", ""); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemberListMutation(t *testing.T) {
	svc := newTestService()
	proj := mustCreateProject(t, svc)

	updated, err := svc.AddMember(context.Background(), proj.ID, "user-1")
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if len(updated.MemberIDs) != 1 || updated.MemberIDs[0] != "user-1" {
		t.Fatalf("got members %v", updated.MemberIDs)
	}

	// duplicate add is a no-op
	updated, err = svc.AddMember(context.Background(), proj.ID, "user-1")
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if len(updated.MemberIDs) != 1 {
		t.Fatalf("duplicate add grew member list to %v", updated.MemberIDs)
	}

	updated, err = svc.RemoveMember(context.Background(), proj.ID, "user-1")
	if err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if len(updated.MemberIDs) != 0 {
		t.Fatalf("got members %v after removal", updated.MemberIDs)
	}
	if _, err := svc.RemoveMember(context.Background(), proj.ID, "user-1"); err != nil {
		t.Fatalf("removing a non-member should be a no-op, got %v", err)
	}
}

func TestAddMemberUnknownProject(t *testing.T) {
	svc := newTestService()
	if _, err := svc.AddMember(context.Background(), "missing", "user-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProjectUnknownIsNoop(t *testing.T) {
	svc := newTestService()
	if err := svc.DeleteProject(context.Background(), "missing"); err != nil {
		t.Fatalf("delete should be a no-op, got %v", err)
	}
}

func TestCreateBoardHasDefaultColumns(t *testing.T) {
	svc := newTestService()
	proj := mustCreateProject(t, svc)

	board, err := svc.CreateBoard(context.Background(), proj.ID, "Main Board")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	want := []string{"To Do", "In Progress", "Done"}
	if len(board.Columns) != len(want) {
		t.Fatalf("got %d columns, want %d", len(board.Columns), len(want))
	}
	for i, name := range want {
		if board.Columns[i].Name != name || board.Columns[i].Order != i {
			t.Fatalf("column %d is %+v, want %q at order %d", i, board.Columns[i], name, i)
		}
	}
}

func TestListBoardsScopedToProject(t *testing.T) {
	svc := newTestService()
	proj := mustCreateProject(t, svc)
	other, err := svc.CreateProject(context.Background(), "Zeus", "", "ZS", "owner-1")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if _, err := svc.CreateBoard(context.Background(), proj.ID, "Apollo Board"); err != nil {
		t.Fatalf("create board: %v", err)
	}
	if _, err := svc.CreateBoard(context.Background(), other.ID, "Zeus Board"); err != nil {
		t.Fatalf("create board: %v", err)
	}

	boards, err := svc.ListBoards(context.Background(), proj.ID)
	if err != nil {
		t.Fatalf("list boards: %v", err)
	}
	if len(boards) != 1 || boards[0].Name != "Apollo Board" {
		t.Fatalf("got boards %+v", boards)
	}
}

func TestCreateSprintStartsInPlanning(t *testing.T) {
	svc := newTestService()
	proj := mustCreateProject(t, svc)

	sprint, err := svc.CreateSprint(context.Background(), proj.ID, "Sprint 1", "ship it", nil, nil)
	if err != nil {
		t.Fatalf("create sprint: %v", err)
	}
	if sprint.Status != domain.SprintPlanning {
		t.Fatalf("got status %q, want planning", sprint.Status)
	}
	if sprint.StartDate != nil || sprint.EndDate != nil {
		t.Fatal("dates should stay unset when not provided")
	}
}

func TestCreateWorkItemDefaults(t *testing.T) {
	svc := newTestService()
	proj := mustCreateProject(t, svc)

	item, err := svc.CreateWorkItem(context.Background(), WorkItemInput{
		ProjectID: proj.ID,
		BoardID:   "board-1",
		Title:     "Fix login",
	})
	if err != nil {
		t.Fatalf("create work item: %v", err)
	}
	if item.Type != domain.WorkItemTask {
		t.Fatalf("got type %q, want task", item.Type)
	}
	if item.Priority != domain.PriorityMedium {
		t.Fatalf("got priority %q, want medium", item.Priority)
	}
	if item.Status != "To Do" {
		t.Fatalf("got status %q, want To Do", item.Status)
	}
}

func TestCreateWorkItemRejectsUnknownEnums(t *testing.T) {
	svc := newTestService()

	if _, err := svc.CreateWorkItem(context.Background(), WorkItemInput{Title: "x", Type: "epic-ish"}); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if _, err := svc.CreateWorkItem(context.Background(), WorkItemInput{Title: "x", Priority: "urgent-ish"}); err == nil {
		t.Fatal("expected error for unknown priority")
	}
	if _, err := svc.CreateWorkItem(context.Background(), WorkItemInput{}); !errors.Is(err, errTitleRequired) {
		t.Fatalf("expected title error, got %v", err)
	}
}

func TestUpdateWorkItemMovesColumns(t *testing.T) {
	svc := newTestService()
	item, err := svc.CreateWorkItem(context.Background(), WorkItemInput{
		ProjectID: "p1",
		BoardID:   "b1",
		Title:     "Fix login",
	})
	if err != nil {
		t.Fatalf("create work item: %v", err)
	}

	points := 5
	updated, err := svc.UpdateWorkItem(context.Background(), item.ID, WorkItemInput{
		Title:       "Fix login flow",
		Status:      "In Progress",
		Priority:    "high",
		StoryPoints: &points,
	})
	if err != nil {
		t.Fatalf("update work item: %v", err)
	}
	if updated.Status != "In Progress" {
		t.Fatalf("got status %q", updated.Status)
	}
	if updated.Priority != domain.PriorityHigh {
		t.Fatalf("got priority %q", updated.Priority)
	}
	if updated.StoryPoints == nil || *updated.StoryPoints != 5 {
		t.Fatalf("got story points %v", updated.StoryPoints)
	}
}

func TestListWorkItemsScopedToBoard(t *testing.T) {
	svc := newTestService()
	for _, board := range []string{"b1", "b1", "b2"} {
		if _, err := svc.CreateWorkItem(context.Background(), WorkItemInput{BoardID: board, Title: "item"}); err != nil {
			t.Fatalf("create work item: %v", err)
		}
	}

	items, err := svc.ListWorkItems(context.Background(), "b1")
	if err != nil {
		t.Fatalf("list work items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}
