package domain

import (
	"fmt"
	"strings"
)

// Theme is a UI color scheme. Only dark and light exist; anything else
// coerces to dark rather than erroring, so a stored preference is always
// renderable.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// CoerceTheme maps an arbitrary value onto a valid Theme, defaulting to dark.
// Matching is exact: only the lowercase literals count, so "Light" coerces to
// dark.
func CoerceTheme(value string) Theme {
	switch Theme(value) {
	case ThemeDark, ThemeLight:
		return Theme(value)
	default:
		return ThemeDark
	}
}

// Platform identifies a client surface carrying its own theme preference.
type Platform string

const (
	PlatformWeb Platform = "web"
	PlatformPWA Platform = "pwa"
)

// ParsePlatform converts a string into a Platform, case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformWeb:
		return PlatformWeb, nil
	case PlatformPWA:
		return PlatformPWA, nil
	default:
		return "", fmt.Errorf("unknown platform %q", s)
	}
}

// ThemePreferences holds one theme per platform.
type ThemePreferences struct {
	Web Theme `json:"web"`
	Pwa Theme `json:"pwa"`
}

// DefaultThemePreferences returns dark on every platform.
func DefaultThemePreferences() ThemePreferences {
	return ThemePreferences{Web: ThemeDark, Pwa: ThemeDark}
}

// Set stores a coerced theme for the platform.
func (p *ThemePreferences) Set(platform Platform, value string) {
	theme := CoerceTheme(value)
	switch platform {
	case PlatformWeb:
		p.Web = theme
	case PlatformPWA:
		p.Pwa = theme
	}
}

// Get returns the theme for the platform, coercing unknown stored values.
func (p ThemePreferences) Get(platform Platform) Theme {
	switch platform {
	case PlatformPWA:
		return CoerceTheme(string(p.Pwa))
	default:
		return CoerceTheme(string(p.Web))
	}
}
