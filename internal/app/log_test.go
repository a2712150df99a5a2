package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLineHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "clipboard captured",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tclipboard captured\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   slog.LevelDebug,
			message: "cron: wake",
			want:    "2024-06-15T14:30:45Z\tDEBUG\top-456\tcron: wake\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelWarn,
			message: "reading clipboard failed",
			attrs:   []slog.Attr{slog.String("id", "r1"), slog.Int("bytes", 42)},
			want:    "2024-06-15T14:30:45Z\tWARN\top-789\treading clipboard failed\tid=r1\tbytes=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &lineHandler{w: &buf, opID: tt.opID, min: slog.LevelDebug}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestLineHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	h := &lineHandler{w: &buf, opID: "op-1"}

	h2 := h.WithAttrs([]slog.Attr{slog.String("command", "Watch")}).WithGroup("poll")

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "tick", 0)
	r.AddAttrs(slog.Bool("captured", true))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "\tcommand=Watch") {
		t.Errorf("expected pre-set attr command=Watch, got: %q", got)
	}
	if !strings.Contains(got, "\tpoll.captured=true") {
		t.Errorf("expected grouped attr poll.captured=true, got: %q", got)
	}
}

func TestLineHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &lineHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*lineHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestLineHandler_Enabled(t *testing.T) {
	h := &lineHandler{min: slog.LevelWarn}
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantConsole bool
	}{
		{name: "info stays in the file", verbose: false, wantConsole: false},
		{name: "verbose echoes info to stderr", verbose: true, wantConsole: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			var stderr bytes.Buffer

			logger, f, err := newLogger(dir, "test-op", &stderr, tt.verbose)
			if err != nil {
				t.Fatalf("newLogger() error = %v", err)
			}
			logger.Info("hello", "k", "v")
			logger.Warn("careful")
			f.Close()

			data, err := os.ReadFile(filepath.Join(dir, LogFileName))
			if err != nil {
				t.Fatalf("reading log file: %v", err)
			}
			if !strings.Contains(string(data), "\ttest-op\thello\tk=v") || !strings.Contains(string(data), "careful") {
				t.Errorf("log file = %q, want both records", data)
			}

			console := stderr.String()
			if got := strings.Contains(console, "hello"); got != tt.wantConsole {
				t.Errorf("stderr has info record = %v, want %v (stderr %q)", got, tt.wantConsole, console)
			}
			if !strings.Contains(console, "careful") {
				t.Errorf("stderr = %q, want the warning", console)
			}
		})
	}
}

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(&lineHandler{w: &buf, opID: "op-1", min: slog.LevelDebug})
	cl := cronLogger{l: l}

	cl.Info("schedule", "entry", 1)
	cl.Error(errors.New("panic"), "job failed")

	got := buf.String()
	if !strings.Contains(got, "\tDEBUG\top-1\tcron: schedule\tentry=1") {
		t.Errorf("Info output = %q", got)
	}
	if !strings.Contains(got, "\tERROR\top-1\tcron: job failed\terror=panic") {
		t.Errorf("Error output = %q", got)
	}
}
