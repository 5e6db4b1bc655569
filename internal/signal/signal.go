package signal

import (
	"sync"

	"github.com/dshills/dapcore/internal/async"
)

// Signal is a cell holding a value of type T plus a set of subscribers,
// component C.1.
type Signal[T any] struct {
	mu        sync.Mutex
	value     T
	subs      []subscriber[T]
	nextSubID int

	queuedTx *Transaction
	queued   bool
	pending  T // value captured at the moment it was queued, for notify
}

type subscriber[T any] struct {
	id int
	cb func(T)
}

// NewSignal creates a signal holding the initial value v.
func NewSignal[T any](v T) *Signal[T] {
	return &Signal[T]{value: v}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set updates the value within tx unconditionally (equality is not checked
// here since T may not be comparable; callers that need change-detection on
// comparable types should use SetComparable). The enclosing transaction's Commit notifies
// subscribers once, deduplicated.
func (s *Signal[T]) Set(tx *Transaction, v T) {
	s.mu.Lock()
	s.value = v
	s.pending = v
	tx.markDirty(s, &s.queued)
	s.mu.Unlock()
}

// SetComparable is Set for comparable T: it is a no-op (and does not mark
// the signal dirty) when v equals the current value, matching "if v !=
// current, updates and notifies".
func SetComparable[T comparable](s *Signal[T], tx *Transaction, v T) {
	s.mu.Lock()
	if s.value == v {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.pending = v
	tx.markDirty(s, &s.queued)
	s.mu.Unlock()
}

// Subscribe registers cb to be called (with the new value) after each
// transaction that changes the signal commits. It returns an unsubscribe
// function.
func (s *Signal[T]) Subscribe(cb func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber[T]{id: id, cb: cb})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Use is Subscribe, with the unsubscribe handle auto-registered against
// scope so cancelling scope removes the subscription (section 4.C.1).
func (s *Signal[T]) Use(scope *async.Scope, cb func(T)) {
	unsubscribe := s.Subscribe(cb)
	scope.OnCleanup(unsubscribe)
}

// commitNotify fires every subscriber once with the value pending at commit
// time, in registration order.
func (s *Signal[T]) commitNotify() {
	s.mu.Lock()
	v := s.pending
	s.queued = false
	subs := append([]subscriber[T]{}, s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.cb(v)
	}
}
