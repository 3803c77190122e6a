package config

import "testing"

func TestGetString(t *testing.T) {
	t.Setenv("CFG_TEST_STR", "value")
	if got := GetString("CFG_TEST_STR", "fb"); got != "value" {
		t.Fatalf("got %q", got)
	}
	if got := GetString("CFG_TEST_STR_UNSET", "fb"); got != "fb" {
		t.Fatalf("got %q, want fallback", got)
	}
}

func TestGetIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "12")
	if got := GetInt("CFG_TEST_INT", 5); got != 12 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("CFG_TEST_INT", "not-a-number")
	if got := GetInt("CFG_TEST_INT", 5); got != 5 {
		t.Fatalf("got %d, want fallback", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("CFG_TEST_BOOL", "true")
	if !GetBool("CFG_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("CFG_TEST_BOOL", "banana")
	if GetBool("CFG_TEST_BOOL", false) {
		t.Fatal("expected fallback false for garbage value")
	}
}

func TestLoadAPIConfigDefaults(t *testing.T) {
	cfg := LoadAPIConfig()
	if cfg.Addr == "" || cfg.MigrationsDir == "" {
		t.Fatalf("missing defaults: %+v", cfg)
	}
	if cfg.SessionTTL.Hours() != 8 {
		t.Fatalf("default session ttl is %v, want 8h", cfg.SessionTTL)
	}
}
