package uri

import (
	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/signal"
)

// Resolver resolves URI path expressions against one Graph.
type Resolver struct {
	graph *entity.Graph
}

// NewResolver returns a Resolver bound to g.
func NewResolver(g *entity.Graph) *Resolver { return &Resolver{graph: g} }

// Resolve resolves path to a collection of Refs (possibly empty). Malformed
// URIs, unknown focus, and out-of-bounds indices all resolve to an empty
// collection rather than an error (section 4.C.4). An index applies to
// unsorted edges too, counting positions in link order.
func (r *Resolver) Resolve(focus *Focus, path string) []Ref {
	refs, _ := r.resolveTracked(focus, path)
	return refs
}

// resolveTracked resolves path and additionally returns every edge touched
// along the way, so callers can build a reactive subscription over exactly
// the dependencies the current resolution used.
func (r *Resolver) resolveTracked(focus *Focus, path string) ([]Ref, []signal.Dependency) {
	segs, ok := parse(path)
	if !ok {
		return nil, nil
	}
	if len(segs) == 0 {
		return []Ref{{Kind: KindDebugger}}, nil
	}

	var touched []signal.Dependency
	var current []Ref
	start := 0
	if segs[0].isFocus {
		ref, ok := focus.lookup(segs[0].focusKind, segs[0].offset, r.graph)
		if !ok {
			return nil, touched
		}
		current = []Ref{ref}
		start = 1
	} else {
		current = []Ref{{Kind: KindDebugger}}
	}

	for _, seg := range segs[start:] {
		current = r.applySegment(current, seg, &touched)
		if current == nil {
			return nil, touched
		}
	}
	return current, touched
}

// applySegment performs the accessor order filter -> index -> key over a
// bare-edge flatten (concat-map) of current, per the section 4.C.4
// resolution algorithm.
func (r *Resolver) applySegment(current []Ref, seg segment, touched *[]signal.Dependency) []Ref {
	var next []Ref
	for _, ref := range current {
		byName, ok := edgeTable[ref.Kind]
		if !ok {
			continue
		}
		def, ok := byName[seg.name]
		if !ok {
			continue
		}
		edge, ok := def.get(r.graph, ref.ID)
		if !ok {
			continue
		}
		*touched = append(*touched, edge)
		for _, id := range edge.Iter() {
			next = append(next, Ref{Kind: def.kind, ID: id})
		}
	}

	if len(seg.filters) > 0 {
		next = filterRefs(r.graph, next, seg.filters)
	}

	if seg.index != nil {
		idx := *seg.index
		if idx < 0 || idx >= len(next) {
			return nil
		}
		candidate := next[idx]
		if idx == 0 && candidate.Kind == KindStack {
			if st, ok := r.graph.Stack(candidate.ID); ok && !st.Valid.Get() {
				return nil
			}
		}
		next = []Ref{candidate}
	}

	if seg.key != "" {
		var match *Ref
		for i := range next {
			if string(next[i].ID) == seg.key {
				match = &next[i]
				break
			}
		}
		if match == nil {
			return nil
		}
		next = []Ref{*match}
	}

	return next
}

func filterRefs(g *entity.Graph, refs []Ref, filters map[string]string) []Ref {
	var out []Ref
	for _, ref := range refs {
		match := true
		for k, v := range filters {
			got, ok := property(g, ref, k)
			if !ok || got != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, ref)
		}
	}
	return out
}

// resolveChain re-resolves path from the Debugger root and, if every
// segment yields exactly one entity, returns the full root-to-leaf
// ancestry. Used by Focus.Set so later "@kind" segments can pick out any
// ancestor kind, not just the leaf.
func (r *Resolver) resolveChain(path string) ([]Ref, bool) {
	segs, ok := parse(path)
	if !ok {
		return nil, false
	}
	chain := []Ref{{Kind: KindDebugger}}
	current := chain
	for _, seg := range segs {
		if seg.isFocus {
			return nil, false
		}
		var touched []signal.Dependency
		current = r.applySegment(current, seg, &touched)
		if len(current) != 1 {
			return nil, false
		}
		chain = append(chain, current[0])
	}
	return chain, true
}
