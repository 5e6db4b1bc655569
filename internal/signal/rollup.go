package signal

import "github.com/dshills/dapcore/internal/async"

// Dependency is anything a rollup can subscribe to for recomputation
// triggers: in practice an *Edge[ID]. Rollups in this codebase depend on
// edges (count, any, all, sum, firstX, hitX are all computed over an edge's
// membership plus the referenced entities' attributes), matching every
// example in section 4.C.3.
type Dependency interface {
	Subscribe(cb func()) (unsubscribe func())
}

// ReferenceRollup is a derived signal yielding one entity id from an edge,
// subject to a filter predicate (component C.3). It recomputes on demand
// from compute rather than caching a value, since its inputs (the edge
// membership and the referenced entities' signals) already carry their own
// invalidation; recomputation here is O(edge size) which is acceptable for
// the entity counts a single debug session produces.
type ReferenceRollup[ID comparable] struct {
	compute func() (ID, bool)
	deps    []Dependency
}

// NewReferenceRollup builds a rollup that recomputes via compute whenever
// any of deps fires.
func NewReferenceRollup[ID comparable](compute func() (ID, bool), deps ...Dependency) *ReferenceRollup[ID] {
	return &ReferenceRollup[ID]{compute: compute, deps: deps}
}

// Get returns the current resolved entity id, or false if the filter
// matches nothing.
func (r *ReferenceRollup[ID]) Get() (ID, bool) {
	return r.compute()
}

// Subscribe invokes cb with the recomputed value whenever a dependency
// fires. Subscribing to a rollup implicitly subscribes to its inputs
// (section 4.C.3); unsubscribing (calling the returned func) releases all
// of them.
func (r *ReferenceRollup[ID]) Subscribe(cb func(ID, bool)) (unsubscribe func()) {
	var unsubs []func()
	fire := func() { cb(r.compute()) }
	for _, d := range r.deps {
		unsubs = append(unsubs, d.Subscribe(fire))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Use is Subscribe with cleanup auto-registered against scope.
func (r *ReferenceRollup[ID]) Use(scope *async.Scope, cb func(ID, bool)) {
	scope.OnCleanup(r.Subscribe(cb))
}

// PropertyRollup is a derived signal yielding a scalar (count, any, all,
// sum) over one or more dependencies.
type PropertyRollup[V any] struct {
	compute func() V
	deps    []Dependency
}

// NewPropertyRollup builds a rollup that recomputes via compute whenever any
// of deps fires.
func NewPropertyRollup[V any](compute func() V, deps ...Dependency) *PropertyRollup[V] {
	return &PropertyRollup[V]{compute: compute, deps: deps}
}

// Get returns the current scalar value.
func (r *PropertyRollup[V]) Get() V {
	return r.compute()
}

// Subscribe invokes cb with the recomputed value whenever a dependency
// fires.
func (r *PropertyRollup[V]) Subscribe(cb func(V)) (unsubscribe func()) {
	var unsubs []func()
	fire := func() { cb(r.compute()) }
	for _, d := range r.deps {
		unsubs = append(unsubs, d.Subscribe(fire))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Use is Subscribe with cleanup auto-registered against scope.
func (r *PropertyRollup[V]) Use(scope *async.Scope, cb func(V)) {
	scope.OnCleanup(r.Subscribe(cb))
}

// Count builds a PropertyRollup[int] over edge's size.
func Count[ID comparable](edge *Edge[ID]) *PropertyRollup[int] {
	return NewPropertyRollup(func() int { return edge.Count() }, edge)
}

// Any builds a PropertyRollup[bool] that is true when at least one member of
// edge satisfies pred.
func Any[ID comparable](edge *Edge[ID], pred func(ID) bool) *PropertyRollup[bool] {
	return NewPropertyRollup(func() bool {
		for _, id := range edge.Iter() {
			if pred(id) {
				return true
			}
		}
		return false
	}, edge)
}

// All builds a PropertyRollup[bool] that is true when every member of edge
// satisfies pred (vacuously true for an empty edge).
func All[ID comparable](edge *Edge[ID], pred func(ID) bool) *PropertyRollup[bool] {
	return NewPropertyRollup(func() bool {
		for _, id := range edge.Iter() {
			if !pred(id) {
				return false
			}
		}
		return true
	}, edge)
}
