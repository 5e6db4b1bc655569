package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dshills/dapcore/internal/dap"
	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/log"
)

func TestHandshakeLaunchSequence(t *testing.T) {
	mt := newMockTransport()
	autoRespond(mt, "initialize", dap.Capabilities{SupportsConfigurationDoneRequest: true}, true, "")
	autoRespond(mt, "launch", nil, true, "")

	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())
	defer closeWithTimeout(m)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := m.Handshake(ctx, "dapcore", json.RawMessage(`{}`), nil); err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	if m.Entity().StartMethod.Get() != "launch" {
		t.Fatalf("got StartMethod %q, want launch", m.Entity().StartMethod.Get())
	}
	if !m.Capabilities().SupportsConfigurationDoneRequest {
		t.Fatal("expected capabilities to round-trip from initialize")
	}
}

func TestHandshakeRejectsNeitherLaunchNorAttach(t *testing.T) {
	mt := newMockTransport()
	autoRespond(mt, "initialize", dap.Capabilities{}, true, "")

	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())
	defer closeWithTimeout(m)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := m.Handshake(ctx, "dapcore", nil, nil); err == nil {
		t.Fatal("expected an error when neither launch nor attach arguments are given")
	}
}

func TestConfigurationDoneTransitionsToRunning(t *testing.T) {
	mt := newMockTransport()
	autoRespond(mt, "configurationDone", nil, true, "")

	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())
	defer closeWithTimeout(m)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := m.ConfigurationDone(ctx); err != nil {
		t.Fatalf("ConfigurationDone: %v", err)
	}
	if m.Entity().State.Get() != entity.SessionRunning {
		t.Fatalf("got state %q, want running", m.Entity().State.Get())
	}
}

func TestOnStoppedInvalidatesThreadStackButRetainsPrevious(t *testing.T) {
	mt := newMockTransport()
	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())
	defer closeWithTimeout(m)

	mt.queue(eventMessage("stopped", dap.StoppedEventBody{Reason: "breakpoint", ThreadID: 1}))
	waitForState(t, m, entity.SessionStopped)

	threadID := m.threadEntityID(1)
	thread, ok := g.Thread(threadID)
	if !ok {
		t.Fatal("expected a thread entity to be created for the stopped event's threadId")
	}
	first, ok := thread.Stacks.At(0)
	if !ok {
		t.Fatal("expected a stack to be created on first stop")
	}

	mt.queue(eventMessage("stopped", dap.StoppedEventBody{Reason: "step", ThreadID: 1}))
	waitUntil(t, func() bool {
		id, ok := thread.Stacks.At(0)
		return ok && id != first
	})

	if thread.Stacks.Count() != 2 {
		t.Fatalf("got %d stacks after two stops, want 2 (previous retained)", thread.Stacks.Count())
	}
}

func TestOnStoppedFetchesStackTraceAndPopulatesFrames(t *testing.T) {
	mt := newMockTransport()
	autoRespond(mt, "stackTrace", dap.StackTraceResponseBody{
		StackFrames: []dap.StackFrame{
			{ID: 1, Name: "main", Line: 10, Column: 2, Source: &dap.Source{Path: "/main.go", Name: "main.go"}},
			{ID: 2, Name: "caller", Line: 20, Column: 1},
		},
	}, true, "")

	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())
	defer closeWithTimeout(m)

	mt.queue(eventMessage("stopped", dap.StoppedEventBody{Reason: "breakpoint", ThreadID: 1}))
	waitForState(t, m, entity.SessionStopped)

	thread, ok := g.Thread(m.threadEntityID(1))
	if !ok {
		t.Fatal("expected a thread entity for the stopped event's threadId")
	}

	var stack *entity.Stack
	waitUntil(t, func() bool {
		id, ok := thread.Stacks.At(0)
		if !ok {
			return false
		}
		stack, ok = g.Stack(id)
		return ok && stack.Frames.Count() > 0
	})

	if stack.Frames.Count() != 2 {
		t.Fatalf("got %d frames, want 2", stack.Frames.Count())
	}
	fid, _ := stack.Frames.At(0)
	frame, ok := g.Frame(fid)
	if !ok {
		t.Fatal("expected frame 0 to resolve")
	}
	if frame.Line.Get() != 10 || frame.Column.Get() != 2 {
		t.Fatalf("got frame (line=%d,column=%d), want (10,2)", frame.Line.Get(), frame.Column.Get())
	}
	if frame.SourceID.Get() == "" {
		t.Fatal("expected the frame with a Source to have a SourceID set")
	}
	source, ok := g.Source(frame.SourceID.Get())
	if !ok || source.Path.Get() != "/main.go" {
		t.Fatalf("got source %+v, want path /main.go", source)
	}
}

func TestOnContinuedInvalidatesHeadStack(t *testing.T) {
	mt := newMockTransport()
	autoRespond(mt, "stackTrace", dap.StackTraceResponseBody{}, true, "")

	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())
	defer closeWithTimeout(m)

	mt.queue(eventMessage("stopped", dap.StoppedEventBody{Reason: "breakpoint", ThreadID: 1}))
	waitForState(t, m, entity.SessionStopped)

	thread, ok := g.Thread(m.threadEntityID(1))
	if !ok {
		t.Fatal("expected a thread entity for the stopped event's threadId")
	}
	stackID, ok := thread.Stacks.At(0)
	if !ok {
		t.Fatal("expected a stack to be created on stop")
	}
	stack, ok := g.Stack(stackID)
	if !ok {
		t.Fatal("expected the stack to resolve")
	}

	mt.queue(eventMessage("continued", dap.ContinuedEventBody{ThreadID: 1}))
	waitForState(t, m, entity.SessionRunning)
	waitUntil(t, func() bool { return !stack.Valid.Get() })

	if thread.State.Get() != entity.ThreadRunning {
		t.Fatalf("got thread state %q, want running", thread.State.Get())
	}
	if thread.StopReason.Get() != "" {
		t.Fatalf("got stop reason %q, want cleared", thread.StopReason.Get())
	}
}

func TestOnLoadedSourceUpsertsSourceAndBinding(t *testing.T) {
	mt := newMockTransport()
	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())
	defer closeWithTimeout(m)

	mt.queue(eventMessage("loadedSource", dap.LoadedSourceEventBody{
		Reason: "new",
		Source: dap.Source{SourceReference: 7, Name: "eval.go"},
	}))

	var source *entity.Source
	waitUntil(t, func() bool {
		var ok bool
		source, ok = m.referenceSource(7)
		return ok
	})
	if source.Path.Get() != "" {
		t.Fatalf("got path %q, want empty for a reference-only source", source.Path.Get())
	}

	mt.queue(eventMessage("loadedSource", dap.LoadedSourceEventBody{
		Reason: "changed",
		Source: dap.Source{SourceReference: 7, Name: "eval.go", Path: "/tmp/eval.go"},
	}))
	waitUntil(t, func() bool {
		s, ok := g.FindSourceByPath("/tmp/eval.go")
		return ok && s.ID == source.ID
	})

	if m.Entity().SourceBindings.Count() != 2 {
		t.Fatalf("got %d source bindings, want 2 (one per loadedSource event)", m.Entity().SourceBindings.Count())
	}
}

func TestOnTerminatedDisposesSession(t *testing.T) {
	mt := newMockTransport()
	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())

	mt.queue(eventMessage("terminated", struct{}{}))
	waitUntil(t, func() bool {
		_, ok := g.Session(m.Entity().ID)
		return !ok
	})
}

func TestOnThreadStartedAndExited(t *testing.T) {
	mt := newMockTransport()
	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())
	defer closeWithTimeout(m)

	mt.queue(eventMessage("thread", dap.ThreadEventBody{Reason: "started", ThreadID: 3}))
	waitUntil(t, func() bool {
		_, ok := g.Thread(m.threadEntityID(3))
		return ok
	})

	mt.queue(eventMessage("thread", dap.ThreadEventBody{Reason: "exited", ThreadID: 3}))
	waitUntil(t, func() bool {
		_, ok := g.Thread(m.threadEntityID(3))
		return !ok
	})
}

func TestOnProcessSetsProcessID(t *testing.T) {
	mt := newMockTransport()
	g := entity.New()
	m := New(g, mt, "launch", "", log.Default())
	defer closeWithTimeout(m)

	mt.queue(eventMessage("process", dap.ProcessEventBody{Name: "debuggee", SystemProcessID: 4242}))
	waitUntil(t, func() bool { return m.Entity().ProcessID.Get() == 4242 })
}

func waitForState(t *testing.T, m *Manager, want entity.SessionState) {
	t.Helper()
	waitUntil(t, func() bool { return m.Entity().State.Get() == want })
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}
