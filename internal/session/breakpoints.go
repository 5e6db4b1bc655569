package session

import (
	"context"
	"fmt"

	"github.com/dshills/dapcore/internal/dap"
	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/signal"
)

// ResyncSourceBreakpoints resends the Debugger's full set of source
// breakpoints for one Source to the adapter (section 4.B.5: "never
// partial" — every resend carries the complete current set for that
// source, not a diff against the adapter's prior acknowledgement).
func (m *Manager) ResyncSourceBreakpoints(ctx context.Context, source *entity.Source) error {
	var (
		bps  []*entity.Breakpoint
		args []dap.SourceBreakpoint
	)
	for _, id := range m.graph.Debugger().Breakpoints.Iter() {
		bp, ok := m.graph.Breakpoint(id)
		if !ok || bp.Kind != entity.BreakpointSource || bp.SourceID != source.ID || !bp.Enabled.Get() {
			continue
		}
		bps = append(bps, bp)
		args = append(args, dap.SourceBreakpoint{
			Line:         bp.Line.Get(),
			Column:       bp.Column.Get(),
			Condition:    bp.Condition.Get(),
			HitCondition: bp.HitCondition.Get(),
			LogMessage:   bp.LogMessage.Get(),
		})
	}

	resp, err := m.channel.SetBreakpoints(ctx, dap.SetBreakpointsArguments{
		Source:      dap.Source{Path: source.Path.Get(), Name: source.Name.Get()},
		Breakpoints: args,
	})
	if err != nil {
		return fmt.Errorf("session %s: setBreakpoints %s: %w", m.entity.ID, source.Path.Get(), err)
	}

	signal.Run(func(tx *signal.Transaction) {
		m.clearSourceBindings(tx, source)
		for i, bp := range bps {
			if i >= len(resp.Breakpoints) {
				break
			}
			r := resp.Breakpoints[i]
			m.graph.BindBreakpoint(tx, m.entity, bp, r.Verified, r.Line, r.Column, r.Message)
		}
	})
	return nil
}

// clearSourceBindings drops this session's existing bindings for
// breakpoints on source before a full resend is applied.
func (m *Manager) clearSourceBindings(tx *signal.Transaction, source *entity.Source) {
	for _, bid := range m.entity.Bindings.Iter() {
		bb, ok := m.graph.BreakpointBinding(bid)
		if !ok {
			continue
		}
		bp, ok := m.graph.Breakpoint(bb.BreakpointID)
		if !ok || bp.SourceID != source.ID {
			continue
		}
		m.entity.Bindings.Unlink(tx, bid)
		bp.Bindings.Unlink(tx, bid)
	}
}

// ResyncExceptionFilters resends every enabled ExceptionFilter the
// Debugger owns.
func (m *Manager) ResyncExceptionFilters(ctx context.Context) error {
	var filters []*entity.ExceptionFilter
	var ids []string
	for _, id := range m.graph.Debugger().ExceptionFilters.Iter() {
		f, ok := m.graph.ExceptionFilter(id)
		if !ok || !f.Enabled.Get() {
			continue
		}
		filters = append(filters, f)
		ids = append(ids, f.FilterID)
	}

	err := m.channel.SetExceptionBreakpoints(ctx, dap.SetExceptionBreakpointsArguments{Filters: ids})
	if err != nil {
		return fmt.Errorf("session %s: setExceptionBreakpoints: %w", m.entity.ID, err)
	}

	signal.Run(func(tx *signal.Transaction) {
		for _, f := range filters {
			m.graph.BindFilter(tx, m.entity, f, true, "")
		}
	})
	return nil
}
