package entity

import "github.com/dshills/dapcore/internal/signal"

// BreakpointBinding is one session's adapter-reported resolution of a
// Debugger-owned Breakpoint: its verified state and, once resolved, the
// actual line/column/message the adapter settled on.
type BreakpointBinding struct {
	graph *Graph

	ID           ID
	BreakpointID ID
	SessionID    ID

	Verified *signal.Signal[bool]
	Line     *signal.Signal[int]
	Column   *signal.Signal[int]
	Message  *signal.Signal[string]
}

// BindBreakpoint creates or replaces session's BreakpointBinding for bp,
// called once per resend (section 4.B.5: "never partial" resync) so a
// session's binding always reflects its latest setBreakpoints response.
func (g *Graph) BindBreakpoint(tx *signal.Transaction, session *Session, bp *Breakpoint, verified bool, line, column int, message string) *BreakpointBinding {
	bb := &BreakpointBinding{
		graph:        g,
		ID:           NewID(),
		BreakpointID: bp.ID,
		SessionID:    session.ID,
		Verified:     signal.NewSignal(verified),
		Line:         signal.NewSignal(line),
		Column:       signal.NewSignal(column),
		Message:      signal.NewSignal(message),
	}
	g.mu.Lock()
	g.bpBindings[bb.ID] = bb
	g.mu.Unlock()
	bp.Bindings.Link(tx, bb.ID)
	session.Bindings.Link(tx, bb.ID)
	return bb
}

// ClearSessionBindings unlinks every BreakpointBinding session currently
// owns, used immediately before a full resend so stale bindings from a
// previous setBreakpoints call cannot linger.
func (g *Graph) ClearSessionBindings(tx *signal.Transaction, session *Session) {
	for _, bid := range session.Bindings.Iter() {
		bb, ok := g.BreakpointBinding(bid)
		if !ok {
			continue
		}
		if bp, ok := g.Breakpoint(bb.BreakpointID); ok {
			bp.Bindings.Unlink(tx, bid)
		}
		session.Bindings.Unlink(tx, bid)
		g.mu.Lock()
		delete(g.bpBindings, bid)
		g.mu.Unlock()
	}
}
