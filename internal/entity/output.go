package entity

import "github.com/dshills/dapcore/internal/signal"

// Output is one "output" event, owned by the session it arrived on.
type Output struct {
	graph *Graph

	ID        ID
	SessionID ID
	Sequence  int
	Category  string
	Text      *signal.Signal[string]
}

// AddOutput appends an Output to session at the next sequence number.
func (g *Graph) AddOutput(tx *signal.Transaction, session *Session, category, text string) *Output {
	o := &Output{
		graph:     g,
		ID:        NewID(),
		SessionID: session.ID,
		Sequence:  session.Outputs.Count(),
		Category:  category,
		Text:      signal.NewSignal(text),
	}
	g.mu.Lock()
	g.outputs[o.ID] = o
	g.mu.Unlock()
	session.Outputs.Link(tx, o.ID)
	return o
}
