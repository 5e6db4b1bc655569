package entity

import "github.com/dshills/dapcore/internal/signal"

// Debugger is the process-lifetime singleton entity that transitively owns
// every other entity (section 3.3).
type Debugger struct {
	graph *Graph

	Sessions         *signal.Edge[ID]
	Breakpoints      *signal.Edge[ID]
	Sources          *signal.Edge[ID]
	ExceptionFilters *signal.Edge[ID]
}

// CreateSession inserts a new Session entity owned by the Debugger and
// links it. parent is the empty ID for a bootstrap session.
func (g *Graph) CreateSession(tx *signal.Transaction, name string, parent ID) *Session {
	s := &Session{
		ID:             NewID(),
		graph:          g,
		Name:           signal.NewSignal(name),
		State:          signal.NewSignal(SessionInitializing),
		StartMethod:    signal.NewSignal(""),
		IsAutoAttached: signal.NewSignal(false),
		ProcessID:      signal.NewSignal(0),
		ParentID:       signal.NewSignal(parent),
		Threads:        signal.NewEdge[ID](nil),
		Outputs:        signal.NewEdge[ID](outputSeqLess(g)),
		SourceBindings: signal.NewEdge[ID](nil),
		Bindings:       signal.NewEdge[ID](nil),
		FilterBindings: signal.NewEdge[ID](nil),
		Children:       signal.NewEdge[ID](nil),
	}

	g.mu.Lock()
	g.sessions[s.ID] = s
	g.mu.Unlock()

	g.debugger.Sessions.Link(tx, s.ID)
	if parent != "" {
		if p, ok := g.Session(parent); ok {
			p.Children.Link(tx, s.ID)
		}
	}
	return s
}

// outputSeqLess sorts a session's Outputs edge by ascending sequence
// (append-only, so ascending order is also insertion order; declared
// explicitly here so Output[n] indexing is well-defined).
func outputSeqLess(g *Graph) func(a, b ID) bool {
	return func(a, b ID) bool {
		oa, _ := g.Output(a)
		ob, _ := g.Output(b)
		if oa == nil || ob == nil {
			return false
		}
		return oa.Sequence < ob.Sequence
	}
}

// DisposeSession unlinks a session's owned entities (threads, outputs,
// bindings) and then the session itself, per section 3.3 ("Sessions
// dispose their owned entities ... on terminated"). Breakpoints and
// Sources outlive the session and are not touched here.
func (g *Graph) DisposeSession(tx *signal.Transaction, sessionID ID) {
	s, ok := g.Session(sessionID)
	if !ok {
		return
	}

	for _, tid := range s.Threads.Iter() {
		g.removeThread(tx, tid)
	}
	for _, oid := range s.Outputs.Iter() {
		g.mu.Lock()
		delete(g.outputs, oid)
		g.mu.Unlock()
	}
	for _, bid := range s.Bindings.Iter() {
		if bb, ok := g.BreakpointBinding(bid); ok {
			if bp, ok := g.Breakpoint(bb.BreakpointID); ok {
				bp.Bindings.Unlink(tx, bid)
			}
		}
		g.mu.Lock()
		delete(g.bpBindings, bid)
		g.mu.Unlock()
	}
	for _, sbid := range s.SourceBindings.Iter() {
		if sb, ok := g.SourceBinding(sbid); ok {
			if src, ok := g.Source(sb.SourceID); ok {
				src.Bindings.Unlink(tx, sbid)
			}
		}
		g.mu.Lock()
		delete(g.srcBindings, sbid)
		g.mu.Unlock()
	}
	for _, fbid := range s.FilterBindings.Iter() {
		if fb, ok := g.FilterBinding(fbid); ok {
			if f, ok := g.ExceptionFilter(fb.FilterID); ok {
				f.Bindings.Unlink(tx, fbid)
			}
		}
		g.mu.Lock()
		delete(g.filterBinds, fbid)
		g.mu.Unlock()
	}

	g.debugger.Sessions.Unlink(tx, sessionID)
	if parent, ok := g.Session(s.ParentID.Get()); ok {
		parent.Children.Unlink(tx, sessionID)
	}
	g.mu.Lock()
	delete(g.sessions, sessionID)
	g.mu.Unlock()
}
