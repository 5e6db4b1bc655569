package uri

import (
	"context"
	"testing"
	"time"

	"github.com/dshills/dapcore/internal/async"
	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/signal"
)

func newTestGraph(t *testing.T) (*entity.Graph, *entity.Session) {
	t.Helper()
	g := entity.New()
	var sess *entity.Session
	signal.Run(func(tx *signal.Transaction) {
		sess = g.CreateSession(tx, "launch", "")
	})
	return g, sess
}

func TestResolveBareEdgeFromRoot(t *testing.T) {
	g, sess := newTestGraph(t)
	r := NewResolver(g)

	refs := r.Resolve(nil, "/sessions")
	if len(refs) != 1 || refs[0].ID != sess.ID {
		t.Fatalf("got %v, want [session %s]", refs, sess.ID)
	}
}

func TestResolveFilterByState(t *testing.T) {
	g, sess := newTestGraph(t)
	r := NewResolver(g)

	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(sess.State, tx, entity.SessionStopped)
	})

	refs := r.Resolve(nil, "sessions(state=stopped)")
	if len(refs) != 1 || refs[0].ID != sess.ID {
		t.Fatalf("got %v, want [session %s]", refs, sess.ID)
	}

	if refs := r.Resolve(nil, "sessions(state=running)"); len(refs) != 0 {
		t.Fatalf("got %v, want empty", refs)
	}
}

func TestResolveIndexOnSortedStackEdge(t *testing.T) {
	g, sess := newTestGraph(t)
	r := NewResolver(g)

	var thread *entity.Thread
	var newest *entity.Stack
	signal.Run(func(tx *signal.Transaction) {
		thread = g.AddThread(tx, sess, 1, "main")
		g.CreateStack(tx, thread, 1)
		newest = g.CreateStack(tx, thread, 2)
	})

	path := "sessions/threads/stacks[0]"
	refs := r.Resolve(nil, path)
	if len(refs) != 1 || refs[0].ID != newest.ID {
		t.Fatalf("got %v, want newest stack %s", refs, newest.ID)
	}
}

func TestResolveFilterByThreadState(t *testing.T) {
	g, sess := newTestGraph(t)
	r := NewResolver(g)

	var thread *entity.Thread
	signal.Run(func(tx *signal.Transaction) {
		thread = g.AddThread(tx, sess, 1, "main")
		signal.SetComparable(thread.State, tx, entity.ThreadStopped)
	})

	refs := r.Resolve(nil, "sessions/threads(state=stopped)")
	if len(refs) != 1 || refs[0].ID != thread.ID {
		t.Fatalf("got %v, want [thread %s]", refs, thread.ID)
	}

	if refs := r.Resolve(nil, "sessions/threads(state=running)"); len(refs) != 0 {
		t.Fatalf("got %v, want empty", refs)
	}
}

func TestResolveInvalidStackHeadReturnsNil(t *testing.T) {
	g, sess := newTestGraph(t)
	r := NewResolver(g)

	var thread *entity.Thread
	signal.Run(func(tx *signal.Transaction) {
		thread = g.AddThread(tx, sess, 1, "main")
		st := g.CreateStack(tx, thread, 1)
		signal.SetComparable(st.Valid, tx, false)
	})

	if refs := r.Resolve(nil, "sessions/threads/stacks[0]"); len(refs) != 0 {
		t.Fatalf("got %v, want empty for an invalidated head stack", refs)
	}
}

func TestResolveFilterOnBreakpoints(t *testing.T) {
	g, _ := newTestGraph(t)
	r := NewResolver(g)

	var enabled, disabled *entity.Breakpoint
	signal.Run(func(tx *signal.Transaction) {
		source := g.CreateSource(tx, "/main.go", "/main.go")
		enabled = g.CreateBreakpoint(tx, entity.BreakpointSource, source.ID, 5)
		disabled = g.CreateBreakpoint(tx, entity.BreakpointSource, source.ID, 10)
		signal.SetComparable(disabled.Enabled, tx, false)
		signal.SetComparable(enabled.Condition, tx, "i>10")
	})

	refs := r.Resolve(nil, "breakpoints(enabled=true)")
	if len(refs) != 1 || refs[0].ID != enabled.ID {
		t.Fatalf("got %v, want [breakpoint %s]", refs, enabled.ID)
	}

	refs = r.Resolve(nil, "breakpoints(condition=i>10)")
	if len(refs) != 1 || refs[0].ID != enabled.ID {
		t.Fatalf("got %v, want [breakpoint %s] for condition filter", refs, enabled.ID)
	}

	refs = r.Resolve(nil, "breakpoints(enabled=true,line=5)")
	if len(refs) != 1 || refs[0].ID != enabled.ID {
		t.Fatalf("got %v, want [breakpoint %s] for combined filter", refs, enabled.ID)
	}
}

func TestResolveOutOfBoundsIndexReturnsEmpty(t *testing.T) {
	g, _ := newTestGraph(t)
	r := NewResolver(g)

	if refs := r.Resolve(nil, "sessions[5]"); len(refs) != 0 {
		t.Fatalf("got %v, want empty", refs)
	}
}

func TestResolveMalformedURIReturnsEmptyNotError(t *testing.T) {
	g, _ := newTestGraph(t)
	r := NewResolver(g)

	if refs := r.Resolve(nil, "sessions((("); len(refs) != 0 {
		t.Fatalf("got %v, want empty for malformed uri", refs)
	}
}

func TestFocusSessionNavigatesContextually(t *testing.T) {
	g, sess := newTestGraph(t)
	r := NewResolver(g)

	focus := &Focus{}
	if !focus.Set(r, "sessions[0]") {
		t.Fatal("expected focus to resolve")
	}

	refs := r.Resolve(focus, "@session/threads")
	if len(refs) != 0 {
		t.Fatalf("got %v, want no threads yet", refs)
	}

	signal.Run(func(tx *signal.Transaction) {
		g.AddThread(tx, sess, 1, "main")
	})

	refs = r.Resolve(focus, "@session/threads")
	if len(refs) != 1 {
		t.Fatalf("got %v, want 1 thread", refs)
	}
}

func TestSubscriptionFiresOnMembershipChange(t *testing.T) {
	g, sess := newTestGraph(t)
	r := NewResolver(g)

	var calls int
	sub := r.Subscribe(nil, "sessions/threads", func(refs []Ref) { calls++ })
	defer sub.Unsubscribe()

	signal.Run(func(tx *signal.Transaction) {
		g.AddThread(tx, sess, 1, "main")
	})

	if calls != 1 {
		t.Fatalf("got %d notifications, want 1", calls)
	}
}

func TestWaitURLResolvesOnceEntityAppears(t *testing.T) {
	g, sess := newTestGraph(t)
	r := NewResolver(g)
	root := async.NewRootScope(context.Background())
	defer root.Cancel()

	go func() {
		time.Sleep(10 * time.Millisecond)
		signal.Run(func(tx *signal.Transaction) {
			g.AddThread(tx, sess, 1, "main")
		})
	}()

	refs, ok := r.WaitURL(root, nil, "sessions/threads", time.Second)
	if !ok || len(refs) != 1 {
		t.Fatalf("got (%v, %v), want one thread", refs, ok)
	}
}

func TestWaitURLTimesOutOnNeverSatisfyingURI(t *testing.T) {
	g, _ := newTestGraph(t)
	r := NewResolver(g)
	root := async.NewRootScope(context.Background())
	defer root.Cancel()

	_, ok := r.WaitURL(root, nil, "sessions/threads", 30*time.Millisecond)
	if ok {
		t.Fatal("expected WaitURL to time out")
	}
}
