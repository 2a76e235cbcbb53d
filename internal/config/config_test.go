package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"rootcalc/internal/rootfind"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  slog.Level
		ok    bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug, ok: true},
		{name: "info", input: "info", want: slog.LevelInfo, ok: true},
		{name: "warning", input: "warning", want: slog.LevelWarn, ok: true},
		{name: "uppercase", input: "ERROR", want: slog.LevelError, ok: true},
		{name: "invalid", input: "trace", ok: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			level, err := parseLogLevel(tc.input)
			if tc.ok {
				if err != nil {
					t.Fatalf("parseLogLevel(%q) error: %v", tc.input, err)
				}
				if level != tc.want {
					t.Fatalf("parseLogLevel(%q) mismatch: got=%s want=%s", tc.input, level, tc.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("parseLogLevel(%q) expected error", tc.input)
			}
		})
	}
}

func TestParseLogFormat(t *testing.T) {
	t.Parallel()

	if got, err := parseLogFormat("JSON"); err != nil || got != LogFormatJSON {
		t.Fatalf("parseLogFormat(JSON): got=%q err=%v", got, err)
	}
	if _, err := parseLogFormat("yaml"); err == nil {
		t.Fatalf("parseLogFormat(yaml) expected error")
	}
}

func TestDefaultMatchesCalculatorStartup(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Interval != (rootfind.Interval{Left: 0.2, Right: 1.5}) {
		t.Fatalf("default interval mismatch: %+v", cfg.Interval)
	}
	want := rootfind.RunConfig{Method: rootfind.FalsePosition, Mode: rootfind.FixedIterations, Iterations: 3, Tolerance: 0.001}
	if cfg.Run != want {
		t.Fatalf("default run mismatch: got=%+v want=%+v", cfg.Run, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ROOTCALC_HTTP_ADDR", ":9090")
	t.Setenv("ROOTCALC_SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("ROOTCALC_LOG_LEVEL", "debug")
	t.Setenv("ROOTCALC_LOG_FORMAT", "json")
	t.Setenv("ROOTCALC_LEFT", "0,5")
	t.Setenv("ROOTCALC_RIGHT", "3")
	t.Setenv("ROOTCALC_METHOD", "bisection")
	t.Setenv("ROOTCALC_MODE", "truncation")
	t.Setenv("ROOTCALC_TOLERANCE", "1e-4")
	t.Setenv("ROOTCALC_ITERATIONS", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.ShutdownTimeout != 2*time.Second {
		t.Fatalf("server settings mismatch: %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != LogFormatJSON {
		t.Fatalf("log settings mismatch: %+v", cfg)
	}
	if cfg.Interval != (rootfind.Interval{Left: 0.5, Right: 3}) {
		t.Fatalf("interval mismatch: %+v", cfg.Interval)
	}
	want := rootfind.RunConfig{Method: rootfind.Bisection, Mode: rootfind.TruncationError, Iterations: 12, Tolerance: 1e-4}
	if cfg.Run != want {
		t.Fatalf("run mismatch: got=%+v want=%+v", cfg.Run, want)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
		want  error
	}{
		{name: "timeout", key: "ROOTCALC_SHUTDOWN_TIMEOUT", value: "-1s"},
		{name: "level", key: "ROOTCALC_LOG_LEVEL", value: "loud"},
		{name: "method", key: "ROOTCALC_METHOD", value: "newton", want: rootfind.ErrUnknownMethod},
		{name: "mode", key: "ROOTCALC_MODE", value: "forever", want: rootfind.ErrUnknownMode},
		{name: "left", key: "ROOTCALC_LEFT", value: "abc"},
		{name: "same sign", key: "ROOTCALC_LEFT", value: "1.2", want: rootfind.ErrNoSignChange},
		{name: "order", key: "ROOTCALC_RIGHT", value: "0.1", want: rootfind.ErrInvalidOrder},
		{name: "iterations", key: "ROOTCALC_ITERATIONS", value: "0", want: rootfind.ErrInvalidIterations},
		{name: "target", key: "ROOTCALC_TARGET", value: "tan", want: rootfind.ErrUnknownTarget},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load expected error for %s=%q", tc.key, tc.value)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("Load mismatch: got=%v want=%v", err, tc.want)
			}
		})
	}
}
