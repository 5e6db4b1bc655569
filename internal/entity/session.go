package entity

import (
	"strconv"

	"github.com/dshills/dapcore/internal/signal"
)

// SessionState is the DAP session lifecycle state (section 4.B.2):
// initializing -> initialized -> running <-> stopped -> terminated ->
// disconnected, with a parallel failed state reachable from any of the
// first three.
type SessionState string

const (
	SessionInitializing SessionState = "initializing"
	SessionInitialized  SessionState = "initialized"
	SessionRunning       SessionState = "running"
	SessionStopped       SessionState = "stopped"
	SessionTerminated    SessionState = "terminated"
	SessionDisconnected  SessionState = "disconnected"
	SessionFailed        SessionState = "failed"
)

// Session is one DAP adapter connection (section 3.1). A session's
// Breakpoints/Sources live on the Debugger; Session owns only the entities
// that do not outlive a restart: Threads, Outputs, and the per-session
// Bindings that record how its adapter resolved the Debugger's
// Breakpoints/Sources/ExceptionFilters.
type Session struct {
	graph *Graph

	ID ID

	Name           *signal.Signal[string]
	State          *signal.Signal[SessionState]
	StartMethod    *signal.Signal[string] // "launch" or "attach"
	IsAutoAttached *signal.Signal[bool]
	ProcessID      *signal.Signal[int]
	ParentID       *signal.Signal[ID] // empty for a root session

	Threads        *signal.Edge[ID]
	Outputs        *signal.Edge[ID]
	SourceBindings *signal.Edge[ID]
	Bindings       *signal.Edge[ID] // BreakpointBinding ids
	FilterBindings *signal.Edge[ID]
	Children       *signal.Edge[ID] // child Session ids, from startDebugging
}

// removeThread unlinks a thread from its session and disposes its stacks.
func (g *Graph) removeThread(tx *signal.Transaction, threadID ID) {
	t, ok := g.Thread(threadID)
	if !ok {
		return
	}
	if s, ok := g.Session(t.SessionID); ok {
		s.Threads.Unlink(tx, threadID)
	}
	for _, stid := range t.Stacks.Iter() {
		g.removeStack(tx, stid)
	}
	g.mu.Lock()
	delete(g.threads, threadID)
	g.mu.Unlock()
}

// AddThread creates a Thread owned by session and links it (invoked when a
// "thread" event with reason "started" arrives, or a threads response names
// an id the graph has not seen before).
func (g *Graph) AddThread(tx *signal.Transaction, session *Session, adapterID int, name string) *Thread {
	t := &Thread{
		graph:      g,
		ID:         ID(string(session.ID) + "/thread/" + strconv.Itoa(adapterID)),
		SessionID:  session.ID,
		AdapterID:  adapterID,
		Name:       signal.NewSignal(name),
		State:      signal.NewSignal(ThreadRunning),
		StopReason: signal.NewSignal(""),
		Stacks:     signal.NewEdge(stackSeqLess(g)),
	}
	g.mu.Lock()
	g.threads[t.ID] = t
	g.mu.Unlock()
	session.Threads.Link(tx, t.ID)
	return t
}

// RemoveThread unlinks and disposes a thread (invoked on a "thread" event
// with reason "exited").
func (g *Graph) RemoveThread(tx *signal.Transaction, threadID ID) {
	g.removeThread(tx, threadID)
}
