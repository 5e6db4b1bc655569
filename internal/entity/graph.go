package entity

import (
	"sync"

	"github.com/dshills/dapcore/internal/signal"
)

// Graph is the arena holding every entity the Debugger owns. Structural
// membership (which ids exist in which map) is guarded by mu; the reactive
// state hanging off each entity (its Signals and Edges) has its own
// synchronization per component C, independent of mu.
type Graph struct {
	mu sync.RWMutex

	debugger *Debugger

	sessions     map[ID]*Session
	threads      map[ID]*Thread
	stacks       map[ID]*Stack
	frames       map[ID]*Frame
	scopes       map[ID]*Scope
	variables    map[ID]*Variable
	sources      map[ID]*Source
	srcBindings  map[ID]*SourceBinding
	breakpoints  map[ID]*Breakpoint
	bpBindings   map[ID]*BreakpointBinding
	filters      map[ID]*ExceptionFilter
	filterBinds  map[ID]*FilterBinding
	outputs      map[ID]*Output
}

// New creates an empty Graph with its singleton Debugger entity.
func New() *Graph {
	g := &Graph{
		sessions:    make(map[ID]*Session),
		threads:     make(map[ID]*Thread),
		stacks:      make(map[ID]*Stack),
		frames:      make(map[ID]*Frame),
		scopes:      make(map[ID]*Scope),
		variables:   make(map[ID]*Variable),
		sources:     make(map[ID]*Source),
		srcBindings: make(map[ID]*SourceBinding),
		breakpoints: make(map[ID]*Breakpoint),
		bpBindings:  make(map[ID]*BreakpointBinding),
		filters:     make(map[ID]*ExceptionFilter),
		filterBinds: make(map[ID]*FilterBinding),
		outputs:     make(map[ID]*Output),
	}
	g.debugger = &Debugger{
		graph:            g,
		Sessions:         signal.NewEdge[ID](nil),
		Breakpoints:      signal.NewEdge[ID](nil),
		Sources:          signal.NewEdge[ID](nil),
		ExceptionFilters: signal.NewEdge[ID](nil),
	}
	return g
}

// Debugger returns the singleton Debugger entity.
func (g *Graph) Debugger() *Debugger { return g.debugger }

func (g *Graph) Session(id ID) (*Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.sessions[id]
	return s, ok
}

func (g *Graph) Thread(id ID) (*Thread, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.threads[id]
	return t, ok
}

func (g *Graph) Stack(id ID) (*Stack, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.stacks[id]
	return s, ok
}

func (g *Graph) Frame(id ID) (*Frame, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.frames[id]
	return f, ok
}

func (g *Graph) Scope(id ID) (*Scope, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.scopes[id]
	return s, ok
}

func (g *Graph) Variable(id ID) (*Variable, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.variables[id]
	return v, ok
}

func (g *Graph) Source(id ID) (*Source, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.sources[id]
	return s, ok
}

func (g *Graph) SourceBinding(id ID) (*SourceBinding, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.srcBindings[id]
	return s, ok
}

func (g *Graph) Breakpoint(id ID) (*Breakpoint, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	b, ok := g.breakpoints[id]
	return b, ok
}

func (g *Graph) BreakpointBinding(id ID) (*BreakpointBinding, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	b, ok := g.bpBindings[id]
	return b, ok
}

func (g *Graph) ExceptionFilter(id ID) (*ExceptionFilter, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.filters[id]
	return f, ok
}

func (g *Graph) FilterBinding(id ID) (*FilterBinding, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.filterBinds[id]
	return f, ok
}

func (g *Graph) Output(id ID) (*Output, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	o, ok := g.outputs[id]
	return o, ok
}
