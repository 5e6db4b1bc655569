package entity

import "github.com/dshills/dapcore/internal/signal"

// Variable is one evaluated name/value pair, owned by a Scope (or, for
// structured values, nested under a parent Variable via its own Children
// edge keyed by the adapter's variablesReference).
type Variable struct {
	graph *Graph

	ID           ID
	ParentRef    int // the variablesReference this variable was fetched under
	Name         *signal.Signal[string]
	Value        *signal.Signal[string]
	Type         *signal.Signal[string]
	VariablesRef *signal.Signal[int] // 0 if the variable is not structured

	Children *signal.Edge[ID]
}

// AddVariable creates a Variable. scope is the owning Scope; parent, if
// non-nil, additionally links the variable under a structured parent
// Variable's Children edge.
func (g *Graph) AddVariable(tx *signal.Transaction, scope *Scope, parent *Variable, name, value, typ string, variablesRef int) *Variable {
	v := &Variable{
		graph:        g,
		ID:           NewID(),
		Name:         signal.NewSignal(name),
		Value:        signal.NewSignal(value),
		Type:         signal.NewSignal(typ),
		VariablesRef: signal.NewSignal(variablesRef),
		Children:     signal.NewEdge[ID](nil),
	}
	g.mu.Lock()
	g.variables[v.ID] = v
	g.mu.Unlock()
	if parent != nil {
		v.ParentRef = parent.VariablesRef.Get()
		parent.Children.Link(tx, v.ID)
	} else {
		scope.Variables.Link(tx, v.ID)
	}
	return v
}
