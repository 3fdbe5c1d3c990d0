package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(level)
	l.SetOutput(&buf)
	l.sink.now = func() time.Time {
		return time.Date(2024, 1, 1, 12, 30, 45, 123e6, time.UTC)
	}
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"nonsense", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_Format(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)
	l.Info("refreshed %d bodies", 9)

	want := "12:30:45.123 [INFO] refreshed 9 bodies\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("got %d lines, want 2:\n%s", n, buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Error("filtered message was written")
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)
	bl := l.With("body", "Earth").With("command", 399)
	bl.Warn("no position data")
	l.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[0], "[WARN] no position data body=Earth command=399") {
		t.Errorf("fields missing: %q", lines[0])
	}
	if strings.Contains(lines[1], "body=") {
		t.Errorf("parent logger picked up child fields: %q", lines[1])
	}
}

func TestLogger_WithQuotesSpaces(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)
	l.With("err", "dial tcp: refused").Error("fetch failed")

	if !strings.Contains(buf.String(), `err="dial tcp: refused"`) {
		t.Errorf("value not quoted: %q", buf.String())
	}
}

func TestLogger_SetOutputShared(t *testing.T) {
	l, _ := newTestLogger(LevelInfo)
	child := l.With("body", "Mars")

	var other bytes.Buffer
	l.SetOutput(&other)
	child.Info("moved")

	if !strings.Contains(other.String(), "moved body=Mars") {
		t.Errorf("child did not follow SetOutput: %q", other.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing %s", "here")
	l.With("k", "v").Error("nothing")
}
