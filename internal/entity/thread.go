package entity

import "github.com/dshills/dapcore/internal/signal"

// ThreadState is a thread's run state (section 3.1): running, stopped, or
// exited. A thread starts running and moves to stopped on a "stopped"
// event, back to running on "continued", and to exited on a "thread" event
// with reason "exited" (at which point the entity is removed).
type ThreadState string

const (
	ThreadRunning ThreadState = "running"
	ThreadStopped ThreadState = "stopped"
	ThreadExited  ThreadState = "exited"
)

// Thread is one DAP thread within a Session (section 3.1). Its Stacks edge
// is sorted by descending sequence so index 0 is always the most recent
// stopped-event snapshot (invariant: "a thread's stacks are totally
// ordered by a monotonically increasing sequence number").
type Thread struct {
	graph *Graph

	ID        ID
	SessionID ID
	AdapterID int // the adapter's own thread id, scoped to its session

	Name       *signal.Signal[string]
	State      *signal.Signal[ThreadState]
	StopReason *signal.Signal[string] // the "stopped" event's reason, cleared on continue

	Stacks *signal.Edge[ID]
}

func stackSeqLess(g *Graph) func(a, b ID) bool {
	return func(a, b ID) bool {
		sa, _ := g.Stack(a)
		sb, _ := g.Stack(b)
		if sa == nil || sb == nil {
			return false
		}
		return sa.Sequence > sb.Sequence
	}
}

// removeStack unlinks a stack from its thread and disposes its frames.
func (g *Graph) removeStack(tx *signal.Transaction, stackID ID) {
	st, ok := g.Stack(stackID)
	if !ok {
		return
	}
	if t, ok := g.Thread(st.ThreadID); ok {
		t.Stacks.Unlink(tx, stackID)
	}
	for _, fid := range st.Frames.Iter() {
		g.removeFrame(tx, fid)
	}
	g.mu.Lock()
	delete(g.stacks, stackID)
	g.mu.Unlock()
}

// CreateStack records a new stack-trace snapshot for thread at the given
// monotonically increasing sequence number (assigned by the caller, one per
// "stopped" event the thread has observed). The thread's previous head
// stack, if any, is marked invalid and retained.
func (g *Graph) CreateStack(tx *signal.Transaction, thread *Thread, sequence int) *Stack {
	if prevID, ok := thread.Stacks.At(0); ok {
		if prev, ok := g.Stack(prevID); ok {
			signal.SetComparable(prev.Valid, tx, false)
		}
	}
	st := &Stack{
		graph:    g,
		ID:       NewID(),
		ThreadID: thread.ID,
		Sequence: sequence,
		Valid:    signal.NewSignal(true),
		Frames:   signal.NewEdge(frameIndexLess(g)),
	}
	g.mu.Lock()
	g.stacks[st.ID] = st
	g.mu.Unlock()
	thread.Stacks.Link(tx, st.ID)
	return st
}
