package uri

import "github.com/dshills/dapcore/internal/entity"

// Focus is a per-consumer pointer at one entity URI (section 6.2). It
// remembers the resolved entity's full root-to-leaf ancestry so
// "@session"/"@thread"/"@frame"/"@debugger" can address any ancestor kind,
// and "@frame+1"/"@frame-1" can address a sibling frame within the focused
// frame's stack.
type Focus struct {
	chain []Ref
}

// Set re-resolves uri and, on success, replaces the focus with its
// ancestry chain. It reports whether uri resolved to a single entity.
func (f *Focus) Set(r *Resolver, path string) bool {
	chain, ok := r.resolveChain(path)
	if !ok {
		return false
	}
	f.chain = chain
	return true
}

// Clear removes the focus.
func (f *Focus) Clear() { f.chain = nil }

// lookup finds the nearest ancestor of the given kind name in the focus
// chain, applying a frame offset (for "@frame+1"/"@frame-1") if offset is
// non-zero.
func (f *Focus) lookup(kind string, offset int, g *entity.Graph) (Ref, bool) {
	if kind == "debugger" {
		return Ref{Kind: KindDebugger}, true
	}
	if f == nil {
		return Ref{}, false
	}
	for i := len(f.chain) - 1; i >= 0; i-- {
		if string(f.chain[i].Kind) == kind {
			ref := f.chain[i]
			if offset == 0 {
				return ref, true
			}
			return offsetFrame(g, ref, offset)
		}
	}
	return Ref{}, false
}

func offsetFrame(g *entity.Graph, ref Ref, offset int) (Ref, bool) {
	if ref.Kind != KindFrame {
		return Ref{}, false
	}
	f, ok := g.Frame(ref.ID)
	if !ok {
		return Ref{}, false
	}
	st, ok := g.Stack(f.StackID)
	if !ok {
		return Ref{}, false
	}
	ids := st.Frames.Iter()
	idx := -1
	for i, id := range ids {
		if id == ref.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Ref{}, false
	}
	target := idx + offset
	if target < 0 || target >= len(ids) {
		return Ref{}, false
	}
	return Ref{Kind: KindFrame, ID: ids[target]}, true
}
