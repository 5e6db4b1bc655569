// Package signal implements component C.1-C.3: signals, edges, rollups, and
// the transaction that batches their mutations so subscribers observe a
// consistent, deduplicated set of notifications per commit.
package signal

// notifier is anything a Transaction can fire once at commit time: a Signal,
// an Edge, or a Rollup.
type notifier interface {
	commitNotify()
}

// Transaction batches many Set/Link/Unlink calls and fires each affected
// notifier's subscribers exactly once, in the order the notifier was first
// touched during the transaction — matching section 4.C.1's "each
// subscriber fires at most once per transaction regardless of intermediate
// sets" and section 5's "subscribers fire post-commit in registration
// order" (registration here meaning the notifier's first touch this
// transaction).
type Transaction struct {
	order []notifier
}

// New starts a transaction.
func New() *Transaction {
	return &Transaction{}
}

// markDirty records that n changed during the transaction. Callers pass a
// pointer to a per-notifier "already queued this transaction" flag so the
// same notifier is appended to order at most once.
func (t *Transaction) markDirty(n notifier, queued *bool) {
	if *queued {
		return
	}
	*queued = true
	t.order = append(t.order, n)
}

// Commit fires every dirty notifier's subscribers in touch order. No
// notifier is invoked re-entrantly: Commit must not be called from inside a
// subscriber callback of the same transaction.
func (t *Transaction) Commit() {
	order := t.order
	t.order = nil
	for _, n := range order {
		n.commitNotify()
	}
}

// Run opens a transaction, lets fn perform mutations against it, then
// commits. This is the ergonomic entry point callers use instead of
// constructing a Transaction directly.
func Run(fn func(tx *Transaction)) {
	tx := New()
	fn(tx)
	tx.Commit()
}
