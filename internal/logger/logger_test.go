package logger

import (
	"context"
	"testing"

	"log/slog"
)

func TestDevelopmentLogsDebug(t *testing.T) {
	log := New("svc", "development")
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("development logger should enable debug")
	}
}

func TestProductionSuppressesDebug(t *testing.T) {
	log := New("svc", "production")
	if log.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("non-development logger should not enable debug")
	}
	if !log.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info must stay enabled")
	}
}
