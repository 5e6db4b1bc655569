package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	l.Info("should not appear")
	l.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("got %q, want Info suppressed below Warn level", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("got %q, want the Warn line present", out)
	}
}

func TestLoggerWithAddsFieldsWithoutMutatingParent(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: LevelDebug, Output: &buf, Prefix: "test"})
	child := base.With("session", "abc")

	base.Debug("from base")
	child.Debug("from child")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if strings.Contains(lines[0], "session=abc") {
		t.Fatalf("got %q, want base logger unaffected by child's field", lines[0])
	}
	if !strings.Contains(lines[1], "session=abc") {
		t.Fatalf("got %q, want child logger to carry session=abc", lines[1])
	}
}

func TestLoggerDisableSilencesDerivedCopies(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: LevelDebug, Output: &buf, Prefix: "test"})
	child := base.Component("dap")

	base.Disable()
	child.Error("should be silent")

	if buf.Len() != 0 {
		t.Fatalf("got output %q, want nothing after Disable on the shared state", buf.String())
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := ParseLevel("nonsense"); got != LevelInfo {
		t.Fatalf("got %v, want LevelInfo for an unrecognized name", got)
	}
	if got := ParseLevel("WARNING"); got != LevelWarn {
		t.Fatalf("got %v, want LevelWarn", got)
	}
}
