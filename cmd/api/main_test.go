package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"no credentials", "redis://localhost:6379/0", "redis://localhost:6379/0"},
		{"user and password", "postgres://cars:s3cret@db:5432/cars", "postgres://cars@db:5432/cars"},
		{"password only", "redis://:s3cret@cache:6379", "redis://redacted@cache:6379"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := redactURL(tt.raw); got != tt.want {
				t.Errorf("redactURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	dsn := "postgres://cars:s3cret@db:5432/cars"
	err := errors.New("failed to connect to " + dsn + " (password=s3cret)")

	got := sanitizeError(err, dsn)
	if strings.Contains(got, "s3cret") {
		t.Errorf("sanitizeError leaked the password: %s", got)
	}
	if !strings.Contains(got, "postgres://cars@db:5432/cars") {
		t.Errorf("sanitizeError dropped the redacted URL: %s", got)
	}

	if sanitizeError(nil, dsn) != "" {
		t.Error("sanitizeError(nil) should be empty")
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// Startup failures come back as errors so run's deferred Close calls execute.
func TestRun_ReturnsStartupErrors(t *testing.T) {
	tests := []struct {
		name        string
		databaseURL string
	}{
		{"missing database url", ""},
		{"malformed database url", "postgres://cars:pw@%zz/cars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", tt.databaseURL)
			t.Setenv("LOG_LEVEL", "error")

			if err := run(context.Background()); err == nil {
				t.Fatal("run() = nil, want startup error")
			}
		})
	}
}
