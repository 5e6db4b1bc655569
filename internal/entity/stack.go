package entity

import "github.com/dshills/dapcore/internal/signal"

// Stack is one stackTrace snapshot for a thread (section 3.1). A thread has
// at most one *live* stack at a time; the prior stack is retained (not
// disposed) until the thread produces its next stack, per the stack
// disposal timing decision recorded in DESIGN.md.
type Stack struct {
	graph *Graph

	ID       ID
	ThreadID ID
	Sequence int

	// Valid is true from creation until the thread's next "continued" event
	// or until CreateStack links a newer stack for the same thread
	// (invariant 2/3: "older stacks become valid=false"; "on continued,
	// that stack is invalidated"). An invalid stack is retained, not
	// disposed, but stacks[0] must stop resolving to it once a sibling
	// supersedes it or it is the thread's sole, invalidated stack.
	Valid *signal.Signal[bool]

	Frames *signal.Edge[ID]
}

// removeFrame unlinks a frame from its stack and disposes its scopes.
func (g *Graph) removeFrame(tx *signal.Transaction, frameID ID) {
	f, ok := g.Frame(frameID)
	if !ok {
		return
	}
	if st, ok := g.Stack(f.StackID); ok {
		st.Frames.Unlink(tx, frameID)
	}
	for _, scid := range f.Scopes.Iter() {
		g.removeScope(tx, scid)
	}
	g.mu.Lock()
	delete(g.frames, frameID)
	g.mu.Unlock()
}
