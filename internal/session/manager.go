// Package session drives one DAP adapter connection end to end: it runs
// the handshake sequence, translates every inbound event into entity-graph
// mutations, answers reverse requests, and resyncs breakpoints on request
// (section 4.B). It is grounded on the teacher's integration/debug.Session
// but generalized from a single adapter-owned breakpoint map to the
// Debugger-owns-Breakpoints, Session-owns-Bindings model.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dshills/dapcore/internal/async"
	"github.com/dshills/dapcore/internal/dap"
	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/log"
	"github.com/dshills/dapcore/internal/signal"
)

// Manager owns one Channel and the Session entity it feeds.
type Manager struct {
	channel *dap.Channel
	graph   *entity.Graph
	entity  *entity.Session
	log     log.Logger

	capabilities *dap.Capabilities
	initialized  *async.Event[struct{}] // latched by onInitialized; gates the handshake's post-initialized steps

	threadSeq map[entity.ID]int // tracks next stack Sequence per thread
	// RunInTerminal is invoked when the adapter issues a runInTerminal
	// reverse request; nil means the request is rejected (out of scope: DAP
	// clients integrate the host terminal themselves).
	RunInTerminal func(ctx context.Context, args dap.RunInTerminalRequestArguments) (dap.RunInTerminalResponseBody, error)
	// StartDebugging is invoked when the adapter issues a startDebugging
	// reverse request to spawn a child session; nil means the request is
	// rejected.
	StartDebugging func(ctx context.Context, args dap.StartDebuggingRequestArguments) error
}

// New wires transport into a Channel, registers the fixed set of event and
// reverse-request handlers, and creates the Session entity (parent is the
// empty id for a root session).
func New(graph *entity.Graph, transport dap.Transport, path string, parent entity.ID, logger log.Logger) *Manager {
	tx := signal.New()
	sessEntity := graph.CreateSession(tx, path, parent)
	tx.Commit()

	m := &Manager{
		channel:     dap.NewChannel(transport, path, logger),
		graph:       graph,
		entity:      sessEntity,
		log:         logger.Component("session"),
		initialized: async.NewEvent[struct{}](),
		threadSeq:   make(map[entity.ID]int),
	}
	m.registerHandlers()
	return m
}

// Entity returns the Session entity this manager feeds.
func (m *Manager) Entity() *entity.Session { return m.entity }

// Handshake performs initialize, then either launch or attach (launchArgs
// XOR attachArgs non-nil) (section 4.B.1). It does not wait for
// "initialized"; the caller awaits WaitInitialized before sending
// setBreakpoints/setExceptionBreakpoints and finally configurationDone.
func (m *Manager) Handshake(ctx context.Context, clientID string, launchArgs, attachArgs json.RawMessage) error {
	caps, err := m.channel.Initialize(ctx, dap.InitializeRequestArguments{
		ClientID:                      clientID,
		AdapterID:                     "dapcore",
		LinesStartAt1:                 true,
		ColumnsStartAt1:               true,
		PathFormat:                    "path",
		SupportsVariableType:          true,
		SupportsRunInTerminalRequest:  m.RunInTerminal != nil,
		SupportsStartDebuggingRequest: m.StartDebugging != nil,
	})
	if err != nil {
		return fmt.Errorf("session %s: initialize: %w", m.entity.ID, err)
	}
	m.capabilities = &caps

	switch {
	case launchArgs != nil:
		signal.Run(func(tx *signal.Transaction) {
			signal.SetComparable(m.entity.StartMethod, tx, "launch")
		})
		if err := m.channel.Launch(ctx, launchArgs); err != nil {
			return fmt.Errorf("session %s: launch: %w", m.entity.ID, err)
		}
	case attachArgs != nil:
		signal.Run(func(tx *signal.Transaction) {
			signal.SetComparable(m.entity.StartMethod, tx, "attach")
		})
		if err := m.channel.Attach(ctx, attachArgs); err != nil {
			return fmt.Errorf("session %s: attach: %w", m.entity.ID, err)
		}
	default:
		return fmt.Errorf("session %s: handshake needs launch or attach arguments", m.entity.ID)
	}

	return nil
}

// WaitInitialized blocks until the adapter's "initialized" event has been
// received, or ctx is done first (section 4.B.1 step 3: "Await initialized
// event"). Callers must not send setBreakpoints, setExceptionBreakpoints,
// or configurationDone before this returns nil.
func (m *Manager) WaitInitialized(ctx context.Context) error {
	if m.initialized.IsSet() {
		return nil
	}
	scope := async.NewRootScope(ctx)
	defer scope.Cancel()
	_, err := m.initialized.Wait(scope)
	return err
}

// ConfigurationDone sends configurationDone and transitions the session to
// running, completing the handshake (section 4.B.1, step after
// setBreakpoints/setExceptionBreakpoints have been resent).
func (m *Manager) ConfigurationDone(ctx context.Context) error {
	if err := m.channel.ConfigurationDone(ctx); err != nil {
		return fmt.Errorf("session %s: configurationDone: %w", m.entity.ID, err)
	}
	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(m.entity.State, tx, entity.SessionRunning)
	})
	return nil
}

// Capabilities returns the adapter's advertised capabilities from
// initialize, or nil if the handshake has not completed.
func (m *Manager) Capabilities() *dap.Capabilities { return m.capabilities }

// Close disconnects the adapter and disposes the session's owned entities.
func (m *Manager) Close(ctx context.Context) error {
	_ = m.channel.Disconnect(ctx, dap.DisconnectArguments{TerminateDebuggee: true})
	err := m.channel.Close()
	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(m.entity.State, tx, entity.SessionDisconnected)
		m.graph.DisposeSession(tx, m.entity.ID)
	})
	return err
}
