package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/studyflow/studyflow-api/internal/config"
)

func TestSetup(t *testing.T) {
	log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: "debug"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if log == nil {
		t.Fatal("Expected a logger, got nil")
	}
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug level to be enabled")
	}

	// An invalid level degrades to info rather than failing startup.
	log, err = Setup(config.ServerConfig{Port: 8080, LogLevel: "verbose"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if log.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug level to be disabled at the info default")
	}
	if !log.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info level to be enabled")
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tc := range cases {
		got, err := parseLevel(tc.input)
		if tc.ok && err != nil {
			t.Errorf("parseLevel(%q): unexpected error %v", tc.input, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("parseLevel(%q): expected an error", tc.input)
		}
		if got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestLoggerContext(t *testing.T) {
	base := slog.Default().With("component", "test")

	ctx := WithLogger(context.Background(), base)
	if got := FromContext(ctx); got != base {
		t.Error("Expected the logger stored in the context")
	}

	// Without a logger attached, FromContext falls back to the default.
	if got := FromContext(context.Background()); got == nil {
		t.Error("Expected the default logger, got nil")
	}

	def := slog.Default().With("component", "fallback")
	if got := FromContextOrDefault(context.Background(), def); got != def {
		t.Error("Expected the provided default logger")
	}
	if got := FromContextOrDefault(ctx, def); got != base {
		t.Error("Expected the context logger to win over the provided default")
	}
}
