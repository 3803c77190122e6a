package domain

import "testing"

func TestNewUserNormalizesEmail(t *testing.T) {
	user := NewUser("  User@Example.COM ", "Test User", "hash")
	if user.Email != "user@example.com" {
		t.Fatalf("got %q", user.Email)
	}
	if user.Role != RoleMember || !user.IsActive {
		t.Fatalf("unexpected defaults: role=%q active=%v", user.Role, user.IsActive)
	}
	if user.ThemePreferences.Web != ThemeDark || user.ThemePreferences.Pwa != ThemeDark {
		t.Fatalf("theme defaults: %+v", user.ThemePreferences)
	}
}

func TestSetEmailKeepsNormalization(t *testing.T) {
	user := NewUser("a@b.com", "", "")
	user.SetEmail("  NEW@Addr.com ")
	if user.Email != "new@addr.com" {
		t.Fatalf("got %q", user.Email)
	}
}

func TestAddMembershipRejectsDuplicates(t *testing.T) {
	user := NewUser("a@b.com", "", "")
	if !user.AddMembership("org-1", OrgRoleAdmin) {
		t.Fatal("first add should succeed")
	}
	if user.AddMembership("org-1", OrgRoleViewer) {
		t.Fatal("duplicate add should fail")
	}
	m, ok := user.MembershipFor("org-1")
	if !ok {
		t.Fatal("membership missing")
	}
	if m.Role != OrgRoleAdmin {
		t.Fatalf("role overwritten to %q", m.Role)
	}
	if m.JoinedAt.IsZero() {
		t.Fatal("joinedAt not stamped")
	}
}

func TestRemoveMembership(t *testing.T) {
	user := NewUser("a@b.com", "", "")
	user.AddMembership("org-1", OrgRoleAdmin)
	user.AddMembership("org-2", OrgRoleMember)

	if !user.RemoveMembership("org-1") {
		t.Fatal("expected removal to report true")
	}
	if user.RemoveMembership("org-1") {
		t.Fatal("second removal should report false")
	}
	if _, ok := user.MembershipFor("org-2"); !ok {
		t.Fatal("unrelated membership was removed")
	}
}

func TestParseRoleCaseInsensitive(t *testing.T) {
	role, err := ParseRole(" Admin ")
	if err != nil || role != RoleAdmin {
		t.Fatalf("got (%q, %v)", role, err)
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
