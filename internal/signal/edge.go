package signal

import (
	"sort"
	"sync"

	"github.com/dshills/dapcore/internal/async"
)

// Edge is an ordered multiset of IDs owned by a single entity, component
// C.2. An unsorted edge (less == nil) iterates in link order ("bare edge"
// semantics); a sorted edge iterates by the declared sort key. Positional
// access (At, and the URI resolver's index) works on both kinds.
type Edge[ID comparable] struct {
	mu       sync.Mutex
	members  []ID
	less     func(a, b ID) bool
	subs     []edgeSub
	nextSub  int
	queued   bool
}

type edgeSub struct {
	id int
	cb func()
}

// NewEdge creates an edge. Pass a non-nil less to declare it sorted by that
// key (e.g. stacks by decreasing sequence, frames by ascending index).
func NewEdge[ID comparable](less func(a, b ID) bool) *Edge[ID] {
	return &Edge[ID]{less: less}
}

// Sorted reports whether the edge declares a sort key.
func (e *Edge[ID]) Sorted() bool {
	return e.less != nil
}

// Link adds id to the edge within tx. Linking an id already present is a
// no-op (an edge is a multiset of distinct references in this
// implementation: DAP entity edges never legitimately double-link the same
// child).
func (e *Edge[ID]) Link(tx *Transaction, id ID) {
	e.mu.Lock()
	for _, m := range e.members {
		if m == id {
			e.mu.Unlock()
			return
		}
	}
	e.members = append(e.members, id)
	if e.less != nil {
		sort.SliceStable(e.members, func(i, j int) bool { return e.less(e.members[i], e.members[j]) })
	}
	tx.markDirty(e, &e.queued)
	e.mu.Unlock()
}

// Unlink removes id from the edge within tx, if present.
func (e *Edge[ID]) Unlink(tx *Transaction, id ID) {
	e.mu.Lock()
	for i, m := range e.members {
		if m == id {
			e.members = append(e.members[:i], e.members[i+1:]...)
			tx.markDirty(e, &e.queued)
			break
		}
	}
	e.mu.Unlock()
}

// Iter returns a snapshot of the edge's members in declared order.
func (e *Edge[ID]) Iter() []ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ID{}, e.members...)
}

// Count returns the number of members.
func (e *Edge[ID]) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.members)
}

// At returns the member at position i in iteration order, or the zero value
// and false if i is out of bounds. It does not check Sorted(): on an
// unsorted edge the position is the link order.
func (e *Edge[ID]) At(i int) (ID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.members) {
		var zero ID
		return zero, false
	}
	return e.members[i], true
}

// Subscribe fires cb on any membership change (link or unlink), after the
// enclosing transaction commits. Returns an unsubscribe function.
func (e *Edge[ID]) Subscribe(cb func()) (unsubscribe func()) {
	e.mu.Lock()
	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, edgeSub{id: id, cb: cb})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Use is Subscribe with automatic cleanup registration against scope.
func (e *Edge[ID]) Use(scope *async.Scope, cb func()) {
	unsubscribe := e.Subscribe(cb)
	scope.OnCleanup(unsubscribe)
}

func (e *Edge[ID]) commitNotify() {
	e.mu.Lock()
	e.queued = false
	subs := append([]edgeSub{}, e.subs...)
	e.mu.Unlock()

	for _, s := range subs {
		s.cb()
	}
}
