package entity

import "github.com/dshills/dapcore/internal/signal"

// Scope is one variables scope ("Locals", "Arguments", ...) within a Frame.
type Scope struct {
	graph *Graph

	ID                ID
	FrameID           ID
	Name              *signal.Signal[string]
	VariablesRef      *signal.Signal[int] // the adapter's variablesReference
	Expensive         *signal.Signal[bool]

	Variables *signal.Edge[ID]
}

// AddScope creates a Scope owned by frame.
func (g *Graph) AddScope(tx *signal.Transaction, frame *Frame, name string, variablesRef int, expensive bool) *Scope {
	sc := &Scope{
		graph:        g,
		ID:           NewID(),
		FrameID:      frame.ID,
		Name:         signal.NewSignal(name),
		VariablesRef: signal.NewSignal(variablesRef),
		Expensive:    signal.NewSignal(expensive),
		Variables:    signal.NewEdge[ID](nil),
	}
	g.mu.Lock()
	g.scopes[sc.ID] = sc
	g.mu.Unlock()
	frame.Scopes.Link(tx, sc.ID)
	return sc
}

// ResetVariables clears a scope's Variables edge, used when the same
// variablesReference is re-fetched (e.g. after a setVariable call
// invalidates sibling values).
func (g *Graph) ResetVariables(tx *signal.Transaction, scope *Scope) {
	for _, vid := range scope.Variables.Iter() {
		scope.Variables.Unlink(tx, vid)
		g.removeVariable(tx, vid)
	}
}

// removeVariable disposes v and, recursively, every variable nested under
// its Children edge (structured values fetched under a variablesReference).
func (g *Graph) removeVariable(tx *signal.Transaction, id ID) {
	v, ok := g.Variable(id)
	if !ok {
		return
	}
	for _, cid := range v.Children.Iter() {
		g.removeVariable(tx, cid)
	}
	g.mu.Lock()
	delete(g.variables, id)
	g.mu.Unlock()
}
