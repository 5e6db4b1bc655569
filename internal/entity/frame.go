package entity

import "github.com/dshills/dapcore/internal/signal"

// Frame is one stack frame (section 3.1). Its Scopes edge preserves the
// adapter's reported order (not independently sorted); the Stack.Frames
// edge sorts frames by ascending Index so Frame[n] addresses the nth
// frame from the top regardless of insertion order.
type Frame struct {
	graph *Graph

	ID        ID
	StackID   ID
	AdapterID int // the DAP frameId used in scopes/evaluate requests
	Index     int
	Name      *signal.Signal[string]
	SourceID  *signal.Signal[ID] // empty if the frame has no source
	Line      *signal.Signal[int]
	Column    *signal.Signal[int]

	Scopes *signal.Edge[ID]
}

func frameIndexLess(g *Graph) func(a, b ID) bool {
	return func(a, b ID) bool {
		fa, _ := g.Frame(a)
		fb, _ := g.Frame(b)
		if fa == nil || fb == nil {
			return false
		}
		return fa.Index < fb.Index
	}
}

// removeScope unlinks a scope from its frame and disposes its variables.
func (g *Graph) removeScope(tx *signal.Transaction, scopeID ID) {
	sc, ok := g.Scope(scopeID)
	if !ok {
		return
	}
	if f, ok := g.Frame(sc.FrameID); ok {
		f.Scopes.Unlink(tx, scopeID)
	}
	for _, vid := range sc.Variables.Iter() {
		g.removeVariable(tx, vid)
	}
	g.mu.Lock()
	delete(g.scopes, scopeID)
	g.mu.Unlock()
}

// AddFrame creates a Frame owned by stack at position index.
func (g *Graph) AddFrame(tx *signal.Transaction, stack *Stack, adapterID, index int, name string) *Frame {
	f := &Frame{
		graph:     g,
		ID:        NewID(),
		StackID:   stack.ID,
		AdapterID: adapterID,
		Index:     index,
		Name:      signal.NewSignal(name),
		SourceID:  signal.NewSignal[ID](""),
		Line:      signal.NewSignal(0),
		Column:    signal.NewSignal(0),
		Scopes:    signal.NewEdge[ID](nil),
	}
	g.mu.Lock()
	g.frames[f.ID] = f
	g.mu.Unlock()
	stack.Frames.Link(tx, f.ID)
	return f
}
