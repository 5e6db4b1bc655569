package diag

import (
	"strings"
	"testing"

	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/signal"
)

func TestDumpGraphIncludesSessionThreadStackAndFrame(t *testing.T) {
	g := entity.New()
	var sessionID string
	signal.Run(func(tx *signal.Transaction) {
		s := g.CreateSession(tx, "launch", "")
		sessionID = string(s.ID)
		thread := g.AddThread(tx, s, 1, "main")
		stack := g.CreateStack(tx, thread, 1)
		g.AddFrame(tx, stack, 1, 0, "main.main")
	})

	out := DumpGraph(g)

	for _, want := range []string{
		"debugger",
		sessionID,
		`thread`,
		`"main"`,
		"stack seq=1",
		"frame[0] main.main",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump %q missing expected substring %q", out, want)
		}
	}
}

func TestDumpGraphEmptyDebuggerRendersRootOnly(t *testing.T) {
	g := entity.New()
	out := DumpGraph(g)
	if !strings.Contains(out, "debugger") {
		t.Fatalf("got %q, want the root debugger node present", out)
	}
	if strings.Contains(out, "session") {
		t.Fatalf("got %q, want no session node for an empty graph", out)
	}
}
