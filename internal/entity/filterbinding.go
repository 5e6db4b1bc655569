package entity

import "github.com/dshills/dapcore/internal/signal"

// FilterBinding is one session's setExceptionBreakpoints acknowledgement
// for a Debugger-owned ExceptionFilter.
type FilterBinding struct {
	graph *Graph

	ID        ID
	FilterID  ID
	SessionID ID

	Verified *signal.Signal[bool]
	Message  *signal.Signal[string]
}

// BindFilter creates session's FilterBinding for f.
func (g *Graph) BindFilter(tx *signal.Transaction, session *Session, f *ExceptionFilter, verified bool, message string) *FilterBinding {
	fb := &FilterBinding{
		graph:     g,
		ID:        NewID(),
		FilterID:  f.ID,
		SessionID: session.ID,
		Verified:  signal.NewSignal(verified),
		Message:   signal.NewSignal(message),
	}
	g.mu.Lock()
	g.filterBinds[fb.ID] = fb
	g.mu.Unlock()
	f.Bindings.Link(tx, fb.ID)
	session.FilterBindings.Link(tx, fb.ID)
	return fb
}
