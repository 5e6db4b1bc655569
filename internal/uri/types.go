// Package uri implements the URI addressing scheme over component C's
// entity graph (section 4.C.4): path expressions with contextual focus,
// filters, indices, keys, and bare-edge flattening, resolved reactively
// against a *entity.Graph.
package uri

import "github.com/dshills/dapcore/internal/entity"

// Kind names one of the entity graph's arenas, used to look up which edges
// and filterable properties a Ref supports.
type Kind string

const (
	KindDebugger          Kind = "debugger"
	KindSession           Kind = "session"
	KindThread            Kind = "thread"
	KindStack             Kind = "stack"
	KindFrame             Kind = "frame"
	KindScope             Kind = "scope"
	KindVariable          Kind = "variable"
	KindSource            Kind = "source"
	KindSourceBinding     Kind = "sourceBinding"
	KindBreakpoint        Kind = "breakpoint"
	KindBreakpointBinding Kind = "breakpointBinding"
	KindExceptionFilter   Kind = "exceptionFilter"
	KindFilterBinding     Kind = "filterBinding"
	KindOutput            Kind = "output"
)

// Ref addresses one entity by kind and id. The Debugger singleton has no
// id of its own, so a Ref{Kind: KindDebugger} is the only valid debugger
// Ref.
type Ref struct {
	Kind Kind
	ID   entity.ID
}
