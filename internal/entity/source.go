package entity

import "github.com/dshills/dapcore/internal/signal"

// Source identifies one debuggee source file, owned by the Debugger so it
// survives session restarts (section 3.3). Sources are correlated by Path
// when the adapter reports one. A source with only a sourceReference is
// matched by that reference on the reporting session's own SourceBindings;
// no hash over its name or content is computed, so reference-only sources
// are not shared between sessions. Design
// note 428 governs migrating a reference-keyed Source to a path-keyed one
// once a later response supplies a path, rather than creating a duplicate.
type Source struct {
	graph *Graph

	ID ID

	Path *signal.Signal[string] // empty if this source is reference-only
	Name *signal.Signal[string]

	Bindings *signal.Edge[ID] // SourceBinding ids, one per session that has seen this source
}

// CreateSource registers a new Debugger-owned Source.
func (g *Graph) CreateSource(tx *signal.Transaction, path, name string) *Source {
	s := &Source{
		graph:    g,
		ID:       NewID(),
		Path:     signal.NewSignal(path),
		Name:     signal.NewSignal(name),
		Bindings: signal.NewEdge[ID](nil),
	}
	g.mu.Lock()
	g.sources[s.ID] = s
	g.mu.Unlock()
	g.debugger.Sources.Link(tx, s.ID)
	return s
}

// FindSourceByPath performs the linear scan correlation lookup used before
// creating a new Source for an incoming path, so repeat references to the
// same file reuse one Source entity across sessions.
func (g *Graph) FindSourceByPath(path string) (*Source, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, s := range g.sources {
		if s.Path.Get() == path && path != "" {
			return s, true
		}
	}
	return nil, false
}

// RebindPath migrates a reference-only Source to a path once one becomes
// known (design note 428), merging rather than duplicating.
func (g *Graph) RebindPath(tx *signal.Transaction, source *Source, path string) {
	if existing, ok := g.FindSourceByPath(path); ok && existing.ID != source.ID {
		for _, bid := range source.Bindings.Iter() {
			existing.Bindings.Link(tx, bid)
			source.Bindings.Unlink(tx, bid)
			if sb, ok := g.SourceBinding(bid); ok {
				sb.SourceID = existing.ID
			}
		}
		return
	}
	signal.SetComparable(source.Path, tx, path)
}
