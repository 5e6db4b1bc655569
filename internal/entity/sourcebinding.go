package entity

import "github.com/dshills/dapcore/internal/signal"

// SourceBinding records one session's adapter-specific view of a
// Debugger-owned Source: its sourceReference (if any) and whether the
// adapter has confirmed the file exists, scoped per session because two
// adapters may number the same Source differently.
type SourceBinding struct {
	graph *Graph

	ID              ID
	SourceID        ID
	SessionID       ID
	AdapterRef      *signal.Signal[int]
	PresentationHint *signal.Signal[string]
}

// BindSource creates a SourceBinding linking session's view of source.
func (g *Graph) BindSource(tx *signal.Transaction, session *Session, source *Source, adapterRef int) *SourceBinding {
	sb := &SourceBinding{
		graph:            g,
		ID:               NewID(),
		SourceID:         source.ID,
		SessionID:        session.ID,
		AdapterRef:       signal.NewSignal(adapterRef),
		PresentationHint: signal.NewSignal(""),
	}
	g.mu.Lock()
	g.srcBindings[sb.ID] = sb
	g.mu.Unlock()
	source.Bindings.Link(tx, sb.ID)
	session.SourceBindings.Link(tx, sb.ID)
	return sb
}
