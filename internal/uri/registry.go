package uri

import (
	"strconv"

	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/signal"
)

type edgeDef struct {
	kind Kind
	get  func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool)
}

// edgeTable names every traversable edge in the entity graph, keyed by the
// source Kind and the bare-edge segment name. It is a plain table rather
// than reflection, matching the corpus's handler-registration idiom (cf.
// the event-handlers map in the transport layer).
var edgeTable = map[Kind]map[string]edgeDef{
	KindDebugger: {
		"sessions": {KindSession, func(g *entity.Graph, _ entity.ID) (*signal.Edge[entity.ID], bool) {
			return g.Debugger().Sessions, true
		}},
		"breakpoints": {KindBreakpoint, func(g *entity.Graph, _ entity.ID) (*signal.Edge[entity.ID], bool) {
			return g.Debugger().Breakpoints, true
		}},
		"sources": {KindSource, func(g *entity.Graph, _ entity.ID) (*signal.Edge[entity.ID], bool) {
			return g.Debugger().Sources, true
		}},
		"exceptionFilters": {KindExceptionFilter, func(g *entity.Graph, _ entity.ID) (*signal.Edge[entity.ID], bool) {
			return g.Debugger().ExceptionFilters, true
		}},
	},
	KindSession: {
		"threads": {KindThread, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			s, ok := g.Session(id)
			if !ok {
				return nil, false
			}
			return s.Threads, true
		}},
		"outputs": {KindOutput, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			s, ok := g.Session(id)
			if !ok {
				return nil, false
			}
			return s.Outputs, true
		}},
		"sourceBindings": {KindSourceBinding, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			s, ok := g.Session(id)
			if !ok {
				return nil, false
			}
			return s.SourceBindings, true
		}},
		"bindings": {KindBreakpointBinding, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			s, ok := g.Session(id)
			if !ok {
				return nil, false
			}
			return s.Bindings, true
		}},
		"filterBindings": {KindFilterBinding, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			s, ok := g.Session(id)
			if !ok {
				return nil, false
			}
			return s.FilterBindings, true
		}},
		"children": {KindSession, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			s, ok := g.Session(id)
			if !ok {
				return nil, false
			}
			return s.Children, true
		}},
	},
	KindThread: {
		"stacks": {KindStack, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			t, ok := g.Thread(id)
			if !ok {
				return nil, false
			}
			return t.Stacks, true
		}},
	},
	KindStack: {
		"frames": {KindFrame, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			st, ok := g.Stack(id)
			if !ok {
				return nil, false
			}
			return st.Frames, true
		}},
	},
	KindFrame: {
		"scopes": {KindScope, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			f, ok := g.Frame(id)
			if !ok {
				return nil, false
			}
			return f.Scopes, true
		}},
	},
	KindScope: {
		"variables": {KindVariable, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			sc, ok := g.Scope(id)
			if !ok {
				return nil, false
			}
			return sc.Variables, true
		}},
	},
	KindVariable: {
		"children": {KindVariable, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			v, ok := g.Variable(id)
			if !ok {
				return nil, false
			}
			return v.Children, true
		}},
	},
	KindSource: {
		"bindings": {KindSourceBinding, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			s, ok := g.Source(id)
			if !ok {
				return nil, false
			}
			return s.Bindings, true
		}},
	},
	KindBreakpoint: {
		"bindings": {KindBreakpointBinding, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			b, ok := g.Breakpoint(id)
			if !ok {
				return nil, false
			}
			return b.Bindings, true
		}},
	},
	KindExceptionFilter: {
		"bindings": {KindFilterBinding, func(g *entity.Graph, id entity.ID) (*signal.Edge[entity.ID], bool) {
			f, ok := g.ExceptionFilter(id)
			if !ok {
				return nil, false
			}
			return f.Bindings, true
		}},
	},
}

// property reads a string-comparable attribute off ref, for use by URI
// filters `(key=value)`. Unknown kind/key pairs report ok=false.
func property(g *entity.Graph, ref Ref, key string) (string, bool) {
	switch ref.Kind {
	case KindSession:
		s, ok := g.Session(ref.ID)
		if !ok {
			return "", false
		}
		switch key {
		case "name":
			return s.Name.Get(), true
		case "state":
			return string(s.State.Get()), true
		case "startMethod":
			return s.StartMethod.Get(), true
		case "isAutoAttached":
			return strconv.FormatBool(s.IsAutoAttached.Get()), true
		}
	case KindThread:
		t, ok := g.Thread(ref.ID)
		if !ok {
			return "", false
		}
		switch key {
		case "name":
			return t.Name.Get(), true
		case "state":
			return string(t.State.Get()), true
		case "stopReason":
			return t.StopReason.Get(), true
		}
	case KindOutput:
		o, ok := g.Output(ref.ID)
		if !ok {
			return "", false
		}
		if key == "category" {
			return o.Category, true
		}
	case KindBreakpoint:
		b, ok := g.Breakpoint(ref.ID)
		if !ok {
			return "", false
		}
		switch key {
		case "kind":
			return string(b.Kind), true
		case "enabled":
			return strconv.FormatBool(b.Enabled.Get()), true
		case "line":
			return strconv.Itoa(b.Line.Get()), true
		case "column":
			return strconv.Itoa(b.Column.Get()), true
		case "condition":
			return b.Condition.Get(), true
		}
	case KindBreakpointBinding:
		b, ok := g.BreakpointBinding(ref.ID)
		if !ok {
			return "", false
		}
		if key == "verified" {
			return strconv.FormatBool(b.Verified.Get()), true
		}
	case KindVariable:
		v, ok := g.Variable(ref.ID)
		if !ok {
			return "", false
		}
		switch key {
		case "name":
			return v.Name.Get(), true
		case "type":
			return v.Type.Get(), true
		}
	case KindScope:
		sc, ok := g.Scope(ref.ID)
		if !ok {
			return "", false
		}
		if key == "name" {
			return sc.Name.Get(), true
		}
	case KindSource:
		s, ok := g.Source(ref.ID)
		if !ok {
			return "", false
		}
		switch key {
		case "path":
			return s.Path.Get(), true
		case "name":
			return s.Name.Get(), true
		}
	}
	return "", false
}
