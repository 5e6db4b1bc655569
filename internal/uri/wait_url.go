package uri

import (
	"context"
	"time"

	"github.com/dshills/dapcore/internal/async"
)

// WaitURL suspends until path resolves to a non-empty collection, or
// timeout elapses, per section 4.C.4's wait_url. It subscribes to path,
// resolves on the first matching tick, and auto-unsubscribes on return.
func (r *Resolver) WaitURL(s *async.Scope, focus *Focus, path string, timeout time.Duration) ([]Ref, bool) {
	if refs := r.Resolve(focus, path); len(refs) > 0 {
		return refs, true
	}

	refs, err := async.Timeout(s, timeout, func(ctx context.Context) ([]Ref, error) {
		ch := make(chan []Ref, 1)
		sub := r.Subscribe(focus, path, func(refs []Ref) {
			if len(refs) == 0 {
				return
			}
			select {
			case ch <- refs:
			default:
			}
		})
		defer sub.Unsubscribe()

		select {
		case refs := <-ch:
			return refs, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	return refs, err == nil
}
