// Package entity implements component C's typed entity graph: Debugger,
// Session, Thread, Stack, Frame, Scope, Variable, Source, SourceBinding,
// Breakpoint, BreakpointBinding, ExceptionFilter, FilterBinding, and Output,
// held in type-homogeneous arenas keyed by a stable id, with edges storing
// ids rather than pointers (design note: "cyclic ownership ... -> arena +
// indices").
package entity

import "github.com/google/uuid"

// ID identifies one entity within its type's arena. Threads are keyed by a
// string built from their session plus the adapter's int thread id; every
// other entity (sessions, stacks, frames, scopes, variables, sources,
// breakpoints, bindings, exception filters, outputs) gets a uuid.
type ID string

// NewID returns a fresh random entity id.
func NewID() ID {
	return ID(uuid.NewString())
}
