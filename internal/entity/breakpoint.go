package entity

import "github.com/dshills/dapcore/internal/signal"

// BreakpointKind distinguishes the three DAP breakpoint request families
// the Debugger multiplexes over one owned collection.
type BreakpointKind string

const (
	BreakpointSource   BreakpointKind = "source"
	BreakpointFunction BreakpointKind = "function"
	BreakpointInstruction BreakpointKind = "instruction"
)

// Breakpoint is a Debugger-owned request to stop execution (section 3.3):
// it survives session restarts, and every live session resends the full
// set of source breakpoints for a source on setBreakpoints rather than
// sending a diff (section 4.B.5 resync rule). Function and instruction
// breakpoints are not sent to the adapter.
type Breakpoint struct {
	graph *Graph

	ID   ID
	Kind BreakpointKind

	SourceID   ID     // set for BreakpointSource
	Enabled    *signal.Signal[bool]
	Line       *signal.Signal[int]
	Column     *signal.Signal[int]
	Condition  *signal.Signal[string]
	HitCondition *signal.Signal[string]
	LogMessage *signal.Signal[string]
	FunctionName *signal.Signal[string] // set for BreakpointFunction

	Bindings *signal.Edge[ID] // BreakpointBinding ids, one per session
}

// CreateBreakpoint registers a new Debugger-owned Breakpoint.
func (g *Graph) CreateBreakpoint(tx *signal.Transaction, kind BreakpointKind, sourceID ID, line int) *Breakpoint {
	b := &Breakpoint{
		graph:        g,
		ID:           NewID(),
		Kind:         kind,
		SourceID:     sourceID,
		Enabled:      signal.NewSignal(true),
		Line:         signal.NewSignal(line),
		Column:       signal.NewSignal(0),
		Condition:    signal.NewSignal(""),
		HitCondition: signal.NewSignal(""),
		LogMessage:   signal.NewSignal(""),
		FunctionName: signal.NewSignal(""),
		Bindings:     signal.NewEdge[ID](nil),
	}
	g.mu.Lock()
	g.breakpoints[b.ID] = b
	g.mu.Unlock()
	g.debugger.Breakpoints.Link(tx, b.ID)
	return b
}

// RemoveBreakpoint unlinks a Breakpoint and its bindings. Callers must
// still resend the reduced set to every live session.
func (g *Graph) RemoveBreakpoint(tx *signal.Transaction, id ID) {
	b, ok := g.Breakpoint(id)
	if !ok {
		return
	}
	g.debugger.Breakpoints.Unlink(tx, id)
	for _, bid := range b.Bindings.Iter() {
		if bb, ok := g.BreakpointBinding(bid); ok {
			if s, ok := g.Session(bb.SessionID); ok {
				s.Bindings.Unlink(tx, bid)
			}
		}
		g.mu.Lock()
		delete(g.bpBindings, bid)
		g.mu.Unlock()
	}
	g.mu.Lock()
	delete(g.breakpoints, id)
	g.mu.Unlock()
}
