package entity

import "github.com/dshills/dapcore/internal/signal"

// ExceptionFilter is a Debugger-owned exception-breakpoint filter selection
// (one of the adapter's advertised exceptionBreakpointFilters, by id),
// surviving session restarts alongside Breakpoints and Sources.
type ExceptionFilter struct {
	graph *Graph

	ID       ID
	FilterID string // the adapter-defined filter id, e.g. "uncaught"
	Label    *signal.Signal[string]
	Enabled  *signal.Signal[bool]
	Condition *signal.Signal[string]

	Bindings *signal.Edge[ID]
}

// CreateExceptionFilter registers a new Debugger-owned ExceptionFilter.
func (g *Graph) CreateExceptionFilter(tx *signal.Transaction, filterID, label string) *ExceptionFilter {
	f := &ExceptionFilter{
		graph:     g,
		ID:        NewID(),
		FilterID:  filterID,
		Label:     signal.NewSignal(label),
		Enabled:   signal.NewSignal(true),
		Condition: signal.NewSignal(""),
		Bindings:  signal.NewEdge[ID](nil),
	}
	g.mu.Lock()
	g.filters[f.ID] = f
	g.mu.Unlock()
	g.debugger.ExceptionFilters.Link(tx, f.ID)
	return f
}
