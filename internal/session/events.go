package session

import (
	"context"
	"encoding/json"

	"github.com/dshills/dapcore/internal/dap"
	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/signal"
)

// registerHandlers wires every DAP event this core understands into an
// entity-graph mutation, plus the startDebugging/runInTerminal reverse
// requests (section 4.B.3's event-to-mutation table).
func (m *Manager) registerHandlers() {
	m.channel.OnEvent("initialized", m.onInitialized)
	m.channel.OnEvent("process", m.onProcess)
	m.channel.OnEvent("stopped", m.onStopped)
	m.channel.OnEvent("continued", m.onContinued)
	m.channel.OnEvent("exited", m.onExited)
	m.channel.OnEvent("terminated", m.onTerminated)
	m.channel.OnEvent("thread", m.onThread)
	m.channel.OnEvent("output", m.onOutput)
	m.channel.OnEvent("breakpoint", m.onBreakpoint)
	m.channel.OnEvent("loadedSource", m.onLoadedSource)
	m.channel.OnEvent("capabilities", m.onCapabilities)

	m.channel.RegisterReverseHandler("runInTerminal", m.handleRunInTerminal)
	m.channel.RegisterReverseHandler("startDebugging", m.handleStartDebugging)
}

func (m *Manager) onInitialized(ev dap.Event) {
	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(m.entity.State, tx, entity.SessionInitialized)
	})
	m.initialized.Set(struct{}{})
}

func (m *Manager) onProcess(ev dap.Event) {
	var body dap.ProcessEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		return
	}
	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(m.entity.ProcessID, tx, body.SystemProcessID)
	})
}

func (m *Manager) onStopped(ev dap.Event) {
	var body dap.StoppedEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		m.log.Warn("malformed stopped event", "error", err)
		return
	}
	var stacks []stoppedStack
	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(m.entity.State, tx, entity.SessionStopped)
		if body.ThreadID == 0 && !body.AllThreadsStopped {
			return
		}
		for _, adapterThreadID := range m.affectedThreadIDs(body.ThreadID, body.AllThreadsStopped) {
			stacks = append(stacks, m.invalidateThreadStack(tx, adapterThreadID, body.Reason))
		}
	})

	// The stackTrace request/response round-trips through this same
	// channel's receive loop, so it must run off-goroutine: calling it
	// synchronously here would block the very loop that delivers its
	// response (section 4.B's event table: "request stackTrace; on reply,
	// insert Frames").
	for _, st := range stacks {
		go m.fetchStackTrace(st.adapterThreadID, st.stack)
	}
}

type stoppedStack struct {
	adapterThreadID int
	stack           *entity.Stack
}

// fetchStackTrace requests the full frame list for a freshly created Stack
// and inserts the returned frames sorted by index (section 4.B's "stopped"
// event-table row). Errors are logged, not propagated: a failed stackTrace
// leaves the Stack frameless rather than failing the session.
func (m *Manager) fetchStackTrace(adapterThreadID int, stack *entity.Stack) {
	resp, err := m.channel.StackTrace(context.Background(), dap.StackTraceArguments{ThreadID: adapterThreadID})
	if err != nil {
		m.log.Warn("stackTrace request failed", "threadId", adapterThreadID, "error", err)
		return
	}
	signal.Run(func(tx *signal.Transaction) {
		for i, f := range resp.StackFrames {
			frame := m.graph.AddFrame(tx, stack, f.ID, i, f.Name)
			signal.SetComparable(frame.Line, tx, f.Line)
			signal.SetComparable(frame.Column, tx, f.Column)
			if f.Source == nil {
				continue
			}
			source := m.upsertSource(tx, f.Source)
			signal.SetComparable(frame.SourceID, tx, source.ID)
		}
	})
}

// invalidateThreadStack creates a fresh Stack for the named adapter thread
// id at the next sequence number, leaving the previous Stack (if any)
// retained rather than disposed, per the stack-disposal-timing decision.
// CreateStack marks the previous head invalid as part of linking the new
// one, so the thread has at most one live stack.
func (m *Manager) invalidateThreadStack(tx *signal.Transaction, adapterThreadID int, reason string) stoppedStack {
	threadID := m.threadEntityID(adapterThreadID)
	t, ok := m.graph.Thread(threadID)
	if !ok {
		t = m.graph.AddThread(tx, m.entity, adapterThreadID, "")
	}
	signal.SetComparable(t.State, tx, entity.ThreadStopped)
	signal.SetComparable(t.StopReason, tx, reason)

	seq := m.threadSeq[t.ID] + 1
	m.threadSeq[t.ID] = seq
	stack := m.graph.CreateStack(tx, t, seq)
	return stoppedStack{adapterThreadID: adapterThreadID, stack: stack}
}

func (m *Manager) threadEntityID(adapterThreadID int) entity.ID {
	return entity.ID(string(m.entity.ID) + "/thread/" + itoa(adapterThreadID))
}

// affectedThreadIDs returns the adapter thread ids an all-threads stopped or
// continued event applies to, or the single named thread otherwise.
func (m *Manager) affectedThreadIDs(adapterThreadID int, all bool) []int {
	if !all {
		return []int{adapterThreadID}
	}
	var ids []int
	for _, tid := range m.entity.Threads.Iter() {
		if t, ok := m.graph.Thread(tid); ok {
			ids = append(ids, t.AdapterID)
		}
	}
	if len(ids) == 0 && adapterThreadID != 0 {
		ids = []int{adapterThreadID}
	}
	return ids
}

func (m *Manager) onContinued(ev dap.Event) {
	var body dap.ContinuedEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		return
	}
	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(m.entity.State, tx, entity.SessionRunning)
		for _, adapterThreadID := range m.affectedThreadIDs(body.ThreadID, body.AllThreadsContinued) {
			t, ok := m.graph.Thread(m.threadEntityID(adapterThreadID))
			if !ok {
				continue
			}
			signal.SetComparable(t.State, tx, entity.ThreadRunning)
			signal.SetComparable(t.StopReason, tx, "")
			if stackID, ok := t.Stacks.At(0); ok {
				if st, ok := m.graph.Stack(stackID); ok {
					signal.SetComparable(st.Valid, tx, false)
				}
			}
		}
	})
}

func (m *Manager) onExited(ev dap.Event) {
	var body dap.ExitedEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		return
	}
	m.log.Info("debuggee exited", "code", body.ExitCode)
}

func (m *Manager) onTerminated(ev dap.Event) {
	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(m.entity.State, tx, entity.SessionTerminated)
		m.graph.DisposeSession(tx, m.entity.ID)
	})
}

func (m *Manager) onThread(ev dap.Event) {
	var body dap.ThreadEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		return
	}
	signal.Run(func(tx *signal.Transaction) {
		switch body.Reason {
		case "started":
			if _, ok := m.graph.Thread(m.threadEntityID(body.ThreadID)); !ok {
				m.graph.AddThread(tx, m.entity, body.ThreadID, "")
			}
		case "exited":
			m.graph.RemoveThread(tx, m.threadEntityID(body.ThreadID))
		}
	})
}

func (m *Manager) onOutput(ev dap.Event) {
	var body dap.OutputEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		return
	}
	signal.Run(func(tx *signal.Transaction) {
		m.graph.AddOutput(tx, m.entity, body.Category, body.Output)
	})
}

func (m *Manager) onBreakpoint(ev dap.Event) {
	var body dap.BreakpointEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		return
	}
	m.log.Debug("breakpoint event", "reason", body.Reason, "verified", body.Breakpoint.Verified)
}

func (m *Manager) onLoadedSource(ev dap.Event) {
	var body dap.LoadedSourceEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		m.log.Warn("malformed loadedSource event", "error", err)
		return
	}
	signal.Run(func(tx *signal.Transaction) {
		source := m.upsertSource(tx, &body.Source)
		m.graph.BindSource(tx, m.entity, source, body.Source.SourceReference)
	})
}

// upsertSource resolves src to its correlation-key Source entity (section
// 4.B: "upsert Source by correlation key"), creating one the first time any
// session reports it and migrating a reference-only Source to a path once
// one becomes known, merging rather than duplicating (design note 2).
func (m *Manager) upsertSource(tx *signal.Transaction, src *dap.Source) *entity.Source {
	if src.Path != "" {
		if existing, ok := m.graph.FindSourceByPath(src.Path); ok {
			return existing
		}
		if src.SourceReference != 0 {
			if ref, ok := m.referenceSource(src.SourceReference); ok {
				m.graph.RebindPath(tx, ref, src.Path)
				return ref
			}
		}
		return m.graph.CreateSource(tx, src.Path, src.Name)
	}
	if src.SourceReference != 0 {
		if ref, ok := m.referenceSource(src.SourceReference); ok {
			return ref
		}
	}
	return m.graph.CreateSource(tx, "", src.Name)
}

// referenceSource finds a path-less Source this session has already bound
// under adapterRef, so a later path-bearing report of the same
// sourceReference migrates it instead of creating a duplicate.
func (m *Manager) referenceSource(adapterRef int) (*entity.Source, bool) {
	for _, bid := range m.entity.SourceBindings.Iter() {
		sb, ok := m.graph.SourceBinding(bid)
		if !ok || sb.AdapterRef.Get() != adapterRef {
			continue
		}
		if source, ok := m.graph.Source(sb.SourceID); ok && source.Path.Get() == "" {
			return source, true
		}
	}
	return nil, false
}

func (m *Manager) onCapabilities(ev dap.Event) {
	var body dap.CapabilitiesEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		return
	}
	m.capabilities = &body.Capabilities
}

func (m *Manager) handleRunInTerminal(ctx context.Context, args json.RawMessage) (any, error) {
	if m.RunInTerminal == nil {
		return nil, errUnsupportedReverseRequest("runInTerminal")
	}
	var a dap.RunInTerminalRequestArguments
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return m.RunInTerminal(ctx, a)
}

func (m *Manager) handleStartDebugging(ctx context.Context, args json.RawMessage) (any, error) {
	if m.StartDebugging == nil {
		return nil, errUnsupportedReverseRequest("startDebugging")
	}
	var a dap.StartDebuggingRequestArguments
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return nil, m.StartDebugging(ctx, a)
}
