package domain

import "testing"

func TestCoerceTheme(t *testing.T) {
	cases := map[string]Theme{
		"dark":  ThemeDark,
		"light": ThemeLight,
		// only the exact lowercase literals are valid
		"Light":  ThemeDark,
		"DARK":   ThemeDark,
		" light": ThemeDark,
		"blue":   ThemeDark,
		"":       ThemeDark,
	}
	for in, want := range cases {
		if got := CoerceTheme(in); got != want {
			t.Errorf("CoerceTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	if p, err := ParsePlatform(" WEB "); err != nil || p != PlatformWeb {
		t.Fatalf("got (%q, %v)", p, err)
	}
	if p, err := ParsePlatform("pwa"); err != nil || p != PlatformPWA {
		t.Fatalf("got (%q, %v)", p, err)
	}
	if _, err := ParsePlatform("desktop"); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}

func TestThemePreferencesSetCoerces(t *testing.T) {
	prefs := DefaultThemePreferences()
	prefs.Set(PlatformWeb, "light")
	prefs.Set(PlatformPWA, "solarized")

	if prefs.Web != ThemeLight {
		t.Fatalf("web is %q", prefs.Web)
	}
	if prefs.Pwa != ThemeDark {
		t.Fatalf("pwa is %q, unknown values coerce to dark", prefs.Pwa)
	}
	if prefs.Get(PlatformWeb) != ThemeLight || prefs.Get(PlatformPWA) != ThemeDark {
		t.Fatalf("get mismatch: %+v", prefs)
	}
}
