package tenant

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"log/slog"

	"github.com/agilesync/agilesync/internal/domain"
	"github.com/agilesync/agilesync/internal/repository"
	"github.com/agilesync/agilesync/internal/repository/memory"
)

func newTestService() (*Service, *memory.Collection[domain.Organization], *memory.Collection[domain.User]) {
	orgs := memory.NewCollection[domain.Organization]()
	users := memory.NewCollection[domain.User]()
	return New(orgs, users, slog.New(slog.NewTextHandler(io.Discard, nil))), orgs, users
}

func mustCreateOrg(t *testing.T, svc *Service, name, slug string) *domain.Organization {
	t.Helper()
	org, err := svc.CreateOrganization(context.Background(), name, slug, "")
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	return org
}

func TestCreateOrganizationIsOwnTenantRoot(t *testing.T) {
	svc, _, _ := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")

	if org.TenantID == nil || *org.TenantID != org.ID {
		t.Fatalf("organization tenant id is %v, want own id", org.TenantID)
	}
	if !org.IsActive {
		t.Fatal("new organization should be active")
	}
}

func TestCreateOrganizationSlugConflictIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService()
	mustCreateOrg(t, svc, "Acme Corp", "acme")

	if _, err := svc.CreateOrganization(context.Background(), "Other", " ACME ", ""); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestUpdateOrganizationLeavesSlugIntact(t *testing.T) {
	svc, _, _ := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")

	updated, err := svc.UpdateOrganization(context.Background(), org.ID, "Acme Inc", "renamed", true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Inc" || updated.Description != "renamed" {
		t.Fatalf("update did not apply: %+v", updated)
	}
	if updated.Slug != "acme" {
		t.Fatalf("slug changed to %q", updated.Slug)
	}
}

func TestUpdateOrganizationUnknown(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.UpdateOrganization(context.Background(), "missing", "X", "", true); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeactivateOrganizationIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")

	first, err := svc.DeactivateOrganization(context.Background(), org.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if first.IsActive {
		t.Fatal("organization still active")
	}
	if _, err := svc.DeactivateOrganization(context.Background(), org.ID); err != nil {
		t.Fatalf("second deactivate should succeed, got %v", err)
	}

	// soft delete: the record remains fetchable
	got, err := svc.GetOrganization(context.Background(), org.ID)
	if err != nil {
		t.Fatalf("get after deactivate: %v", err)
	}
	if got.IsActive {
		t.Fatal("deactivation not persisted")
	}
}

func TestAddAdminCreatesAccountForUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")

	user, err := svc.AddAdmin(context.Background(), org.ID, "Admin@Acme.com", "Acme Admin", "hunter22")
	if err != nil {
		t.Fatalf("add admin: %v", err)
	}
	if user.Email != "admin@acme.com" {
		t.Fatalf("got email %q", user.Email)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("got role %q, want admin", user.Role)
	}
	if user.TenantID == nil || *user.TenantID != org.ID {
		t.Fatalf("tenant id is %v, want %q", user.TenantID, org.ID)
	}
	m, ok := user.MembershipFor(org.ID)
	if !ok || m.Role != domain.OrgRoleAdmin {
		t.Fatalf("membership is (%+v, %v)", m, ok)
	}
}

func TestAddAdminAttachesExistingUser(t *testing.T) {
	svc, _, users := newTestService()
	first := mustCreateOrg(t, svc, "Acme Corp", "acme")
	second := mustCreateOrg(t, svc, "Globex", "globex")

	created, err := svc.AddAdmin(context.Background(), first.ID, "admin@acme.com", "Acme Admin", "hunter22")
	if err != nil {
		t.Fatalf("add admin: %v", err)
	}

	attached, err := svc.AddAdmin(context.Background(), second.ID, "admin@acme.com", "ignored", "ignored")
	if err != nil {
		t.Fatalf("attach admin: %v", err)
	}
	if attached.ID != created.ID {
		t.Fatalf("attach created a new account %q, want %q", attached.ID, created.ID)
	}
	if len(attached.Memberships) != 2 {
		t.Fatalf("expected 2 memberships, got %d", len(attached.Memberships))
	}
	// tenant id stays bound to the first organization
	if attached.TenantID == nil || *attached.TenantID != first.ID {
		t.Fatalf("tenant id is %v, want %q", attached.TenantID, first.ID)
	}

	stored, err := users.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get stored user: %v", err)
	}
	if len(stored.Memberships) != 2 {
		t.Fatalf("memberships not persisted, got %d", len(stored.Memberships))
	}
}

func TestAddAdminBackfillsEmptyTenantID(t *testing.T) {
	svc, _, users := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")

	user := domain.NewUser("member@test.com", "Plain Member", "x")
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if user.TenantID != nil {
		t.Fatalf("precondition: tenant id should be unset, got %v", user.TenantID)
	}

	attached, err := svc.AddAdmin(context.Background(), org.ID, "member@test.com", "", "")
	if err != nil {
		t.Fatalf("add admin: %v", err)
	}
	if attached.TenantID == nil || *attached.TenantID != org.ID {
		t.Fatalf("tenant id not backfilled: %v", attached.TenantID)
	}
	// the global role of an existing account is left alone
	if attached.Role != domain.RoleMember {
		t.Fatalf("global role changed to %q", attached.Role)
	}
}

func TestAddAdminDuplicateMembershipConflicts(t *testing.T) {
	svc, _, _ := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")

	if _, err := svc.AddAdmin(context.Background(), org.ID, "admin@acme.com", "Acme Admin", "hunter22"); err != nil {
		t.Fatalf("add admin: %v", err)
	}
	if _, err := svc.AddAdmin(context.Background(), org.ID, "ADMIN@acme.com", "", ""); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestAddAdminUnknownOrganization(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.AddAdmin(context.Background(), "missing", "x@test.com", "", ""); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentAddAdminCreatesSingleAccount(t *testing.T) {
	svc, _, users := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddAdmin(context.Background(), org.ID, "admin@acme.com", "Acme Admin", "hunter22")
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyMember):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d attempts succeeded, want exactly 1", succeeded)
	}

	accounts, err := users.Find(context.Background(), func(u *domain.User) bool {
		return u.Email == "admin@acme.com"
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("%d accounts created, want 1", len(accounts))
	}
}

func TestListAdminsReturnsOnlyMembers(t *testing.T) {
	svc, _, users := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")

	if _, err := svc.AddAdmin(context.Background(), org.ID, "admin@acme.com", "Acme Admin", "hunter22"); err != nil {
		t.Fatalf("add admin: %v", err)
	}
	outsider := domain.NewUser("outsider@test.com", "Outsider", "x")
	if err := users.Create(context.Background(), outsider); err != nil {
		t.Fatalf("seed outsider: %v", err)
	}

	admins, err := svc.ListAdmins(context.Background(), org.ID)
	if err != nil {
		t.Fatalf("list admins: %v", err)
	}
	if len(admins) != 1 || admins[0].Email != "admin@acme.com" {
		t.Fatalf("got admins %+v", admins)
	}
}

func TestListAdminsUnknownOrganization(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.ListAdmins(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveAdminDetachesMembershipOnly(t *testing.T) {
	svc, _, users := newTestService()
	first := mustCreateOrg(t, svc, "Acme Corp", "acme")
	second := mustCreateOrg(t, svc, "Globex", "globex")

	admin, err := svc.AddAdmin(context.Background(), first.ID, "admin@acme.com", "Acme Admin", "hunter22")
	if err != nil {
		t.Fatalf("add admin: %v", err)
	}
	if _, err := svc.AddAdmin(context.Background(), second.ID, "admin@acme.com", "", ""); err != nil {
		t.Fatalf("attach to second org: %v", err)
	}

	if err := svc.RemoveAdmin(context.Background(), first.ID, admin.ID); err != nil {
		t.Fatalf("remove admin: %v", err)
	}
	stored, err := users.GetByID(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("user record should survive removal: %v", err)
	}
	if _, ok := stored.MembershipFor(first.ID); ok {
		t.Fatal("membership for first org still present")
	}
	if _, ok := stored.MembershipFor(second.ID); !ok {
		t.Fatal("membership for second org was lost")
	}
}

func TestRemoveAdminTwice(t *testing.T) {
	svc, _, _ := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")
	admin, err := svc.AddAdmin(context.Background(), org.ID, "admin@acme.com", "Acme Admin", "hunter22")
	if err != nil {
		t.Fatalf("add admin: %v", err)
	}

	if err := svc.RemoveAdmin(context.Background(), org.ID, admin.ID); err != nil {
		t.Fatalf("first removal: %v", err)
	}
	if err := svc.RemoveAdmin(context.Background(), org.ID, admin.ID); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestRemoveAdminUnknownUser(t *testing.T) {
	svc, _, _ := newTestService()
	org := mustCreateOrg(t, svc, "Acme Corp", "acme")
	if err := svc.RemoveAdmin(context.Background(), org.ID, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
