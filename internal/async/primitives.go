package async

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/dapcore/internal/errs"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var errCancelled = errs.Cancelled

// Wait suspends the calling goroutine until fn invokes its callback, or
// until s is cancelled first. fn must eventually call cb, matching the "must
// eventually invoke cb(err, val)" contract in section 4.D's primitive table;
// only the first call's result is kept and any later call is dropped.
func Wait[T any](s *Scope, fn func(cb func(error, T))) (T, error) {
	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	fn(func(err error, val T) {
		select {
		case ch <- result{val, err}:
		default:
		}
	})

	select {
	case r := <-ch:
		return r.val, r.err
	case <-s.Done():
		var zero T
		return zero, errs.Cancelled
	}
}

// WaitAll spawns one goroutine per fn under a single child scope, resumes when all
// succeed, or fails on the first error after cancelling the remaining
// siblings. An empty slice resolves immediately with a nil error, matching
// design note 3 (wait_all([]) resolves immediately to the empty result).
func WaitAll(s *Scope, fns []func(ctx context.Context) error) error {
	if len(fns) == 0 {
		return nil
	}

	child := s.NewChild()
	defer child.Cancel()

	eg, egctx := errgroup.WithContext(child.ctx)
	for _, fn := range fns {
		fn := fn
		eg.Go(func() error { return fn(egctx) })
	}
	return eg.Wait()
}

// Event is a one-shot latch: multiple waiters receive the same value, and a
// set after the first is a no-op.
type Event[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
}

// NewEvent returns a ready-to-use Event.
func NewEvent[T any]() *Event[T] {
	return &Event[T]{done: make(chan struct{})}
}

// Set latches v. Only the first call has any effect.
func (e *Event[T]) Set(v T) {
	e.once.Do(func() {
		e.val = v
		close(e.done)
	})
}

// Wait suspends until Set is called, or s is cancelled.
func (e *Event[T]) Wait(s *Scope) (T, error) {
	select {
	case <-e.done:
		return e.val, nil
	case <-s.Done():
		var zero T
		return zero, errs.Cancelled
	}
}

// IsSet reports whether Set has already latched a value.
func (e *Event[T]) IsSet() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Timeout races fn against d; if fn has not completed when d elapses, it
// returns errs.Timeout. fn receives a context cancelled at the deadline so
// it can abandon its own work, but the goroutine it runs on is not force-
// killed — matching section 4.D's note that blocking native calls between
// awaits cannot be preempted.
func Timeout[T any](s *Scope, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	child := s.NewChild()
	defer child.Cancel()

	ctx, cancel := context.WithTimeout(child.ctx, d)
	defer cancel()

	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		if s.Cancelled() {
			return zero, errs.Cancelled
		}
		return zero, errs.Timeout
	}
}

// Mutex is a FIFO serializer built on a buffered channel used as a
// single-slot semaphore, so Lock/Unlock grant access in arrival order.
type Mutex struct {
	ch chan struct{}
}

// NewMutex returns an unlocked Mutex.
func NewMutex() *Mutex {
	m := &Mutex{ch: make(chan struct{}, 1)}
	m.ch <- struct{}{}
	return m
}

// Lock suspends until the mutex is free, or s is cancelled.
func (m *Mutex) Lock(s *Scope) error {
	select {
	case <-m.ch:
		return nil
	case <-s.Done():
		return errs.Cancelled
	}
}

// Unlock releases the mutex. Unlock on an already-unlocked Mutex blocks
// forever by design, surfacing caller misuse rather than silently ignoring
// it.
func (m *Mutex) Unlock() {
	m.ch <- struct{}{}
}

// Memoizer coalesces concurrent calls keyed by K into one underlying
// execution: every waiter observes the same result or error, and the next
// call after completion starts fresh. This is exactly singleflight.Group's
// documented behavior.
type Memoizer[K comparable, V any] struct {
	g singleflight.Group
}

// NewMemoizer returns a ready-to-use Memoizer.
func NewMemoizer[K comparable, V any]() *Memoizer[K, V] {
	return &Memoizer[K, V]{}
}

// Call executes fn for key if no call for key is already in flight,
// otherwise it joins the in-flight call and receives its result. shared
// reports whether the result was shared with at least one other caller.
func (m *Memoizer[K, V]) Call(key K, fn func() (V, error)) (v V, err error, shared bool) {
	keyStr := fmtKey(key)
	res, err, shared := m.g.Do(keyStr, func() (any, error) {
		return fn()
	})
	if res != nil {
		v, _ = res.(V)
	}
	return v, err, shared
}

func fmtKey[K comparable](key K) string {
	return anyToString(key)
}
