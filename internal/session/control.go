package session

import (
	"context"
	"fmt"

	"github.com/dshills/dapcore/internal/dap"
	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/signal"
)

// Pause, Continue, StepIn, StepOut, Next, and ReverseContinue are section
// 6.4's per-thread consumer operations, addressed by Thread entity rather
// than the adapter's own int id.

func (m *Manager) Pause(ctx context.Context, thread *entity.Thread) error {
	if err := m.channel.Pause(ctx, dap.PauseArguments{ThreadID: thread.AdapterID}); err != nil {
		return fmt.Errorf("session %s: pause thread %d: %w", m.entity.ID, thread.AdapterID, err)
	}
	return nil
}

func (m *Manager) Continue(ctx context.Context, thread *entity.Thread) error {
	if _, err := m.channel.Continue(ctx, dap.ContinueArguments{ThreadID: thread.AdapterID}); err != nil {
		return fmt.Errorf("session %s: continue thread %d: %w", m.entity.ID, thread.AdapterID, err)
	}
	return nil
}

func (m *Manager) StepIn(ctx context.Context, thread *entity.Thread) error {
	if err := m.channel.StepIn(ctx, dap.StepInArguments{ThreadID: thread.AdapterID}); err != nil {
		return fmt.Errorf("session %s: stepIn thread %d: %w", m.entity.ID, thread.AdapterID, err)
	}
	return nil
}

func (m *Manager) StepOut(ctx context.Context, thread *entity.Thread) error {
	if err := m.channel.StepOut(ctx, dap.StepOutArguments{ThreadID: thread.AdapterID}); err != nil {
		return fmt.Errorf("session %s: stepOut thread %d: %w", m.entity.ID, thread.AdapterID, err)
	}
	return nil
}

func (m *Manager) Next(ctx context.Context, thread *entity.Thread) error {
	if err := m.channel.Next(ctx, dap.NextArguments{ThreadID: thread.AdapterID}); err != nil {
		return fmt.Errorf("session %s: next thread %d: %w", m.entity.ID, thread.AdapterID, err)
	}
	return nil
}

func (m *Manager) ReverseContinue(ctx context.Context, thread *entity.Thread) error {
	if err := m.channel.ReverseContinue(ctx, dap.ReverseContinueArguments{ThreadID: thread.AdapterID}); err != nil {
		return fmt.Errorf("session %s: reverseContinue thread %d: %w", m.entity.ID, thread.AdapterID, err)
	}
	return nil
}

// FetchScopes populates frame's Scopes edge from the adapter's scopes
// response (section 6.4: fetchScopes(frame)).
func (m *Manager) FetchScopes(ctx context.Context, frame *entity.Frame) error {
	resp, err := m.channel.Scopes(ctx, dap.ScopesArguments{FrameID: frame.AdapterID})
	if err != nil {
		return fmt.Errorf("session %s: scopes frame %d: %w", m.entity.ID, frame.AdapterID, err)
	}
	signal.Run(func(tx *signal.Transaction) {
		for _, sc := range resp.Scopes {
			m.graph.AddScope(tx, frame, sc.Name, sc.VariablesReference, sc.Expensive)
		}
	})
	return nil
}

// FetchVariables populates scope's Variables edge from the adapter's
// variables response for variablesRef (section 6.4: fetchVariables(scope)).
// Pass the scope's own VariablesRef to fetch its top-level variables, or a
// structured variable's VariablesRef plus that variable as parent to expand
// it into nested Variable children.
func (m *Manager) FetchVariables(ctx context.Context, scope *entity.Scope, parent *entity.Variable, variablesRef int) error {
	resp, err := m.channel.Variables(ctx, dap.VariablesArguments{VariablesReference: variablesRef})
	if err != nil {
		return fmt.Errorf("session %s: variables ref %d: %w", m.entity.ID, variablesRef, err)
	}
	signal.Run(func(tx *signal.Transaction) {
		for _, v := range resp.Variables {
			m.graph.AddVariable(tx, scope, parent, v.Name, v.Value, v.Type, v.VariablesReference)
		}
	})
	return nil
}
