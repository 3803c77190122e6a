package config

import (
	"os"
	"strconv"
)

// Env lookup helpers. An unset or unparsable variable yields the fallback;
// a malformed value must never keep the process from booting.

// GetString returns the variable's value, or fallback when unset or empty.
func GetString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetInt parses the variable as a base-10 integer.
func GetInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// GetBool parses the variable with strconv.ParseBool semantics.
func GetBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
