// Package dapcore wires the four components together: transport, session
// lifecycle, reactive entity graph, and async runtime. Debugger is the
// top-level facade a consumer (editor, CLI, test harness) drives (section
// 6.4).
package dapcore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dshills/dapcore/internal/async"
	"github.com/dshills/dapcore/internal/dap"
	"github.com/dshills/dapcore/internal/entity"
	"github.com/dshills/dapcore/internal/log"
	"github.com/dshills/dapcore/internal/session"
	"github.com/dshills/dapcore/internal/signal"
	"github.com/dshills/dapcore/internal/uri"
)

// Debugger is the consumer-facing facade over one process-lifetime entity
// graph and every session connected to it.
type Debugger struct {
	graph    *entity.Graph
	resolver *uri.Resolver
	root     *async.Scope
	log      log.Logger

	sessions map[entity.ID]*session.Manager
}

// New creates an empty Debugger driven by ctx; cancelling ctx tears down
// every session's async scope.
func New(ctx context.Context, logger log.Logger) *Debugger {
	g := entity.New()
	return &Debugger{
		graph:    g,
		resolver: uri.NewResolver(g),
		root:     async.NewRootScope(ctx),
		log:      logger.Component("debugger"),
		sessions: make(map[entity.ID]*session.Manager),
	}
}

// Graph returns the underlying entity graph, for callers that need direct
// access (diagnostics, tests).
func (d *Debugger) Graph() *entity.Graph { return d.graph }

// Launch creates a Session over transport, runs the handshake with the
// given launch configuration, resends the Debugger's current breakpoints
// and exception filters, then sends configurationDone. It resolves once
// the session reaches running, or returns an error on failed.
func (d *Debugger) Launch(ctx context.Context, transport dap.Transport, clientID string, config json.RawMessage) (*session.Manager, error) {
	return d.start(ctx, transport, clientID, config, nil, "")
}

// Attach is Launch's attach-mode counterpart.
func (d *Debugger) Attach(ctx context.Context, transport dap.Transport, clientID string, config json.RawMessage) (*session.Manager, error) {
	return d.start(ctx, transport, clientID, nil, config, "")
}

func (d *Debugger) start(ctx context.Context, transport dap.Transport, clientID string, launchArgs, attachArgs json.RawMessage, parent entity.ID) (*session.Manager, error) {
	mgr := session.New(d.graph, transport, clientID, parent, d.log)
	mgr.StartDebugging = func(ctx context.Context, args dap.StartDebuggingRequestArguments) error {
		_, err := d.start(ctx, transport, clientID, rawIfLaunch(args), rawIfAttach(args), mgr.Entity().ID)
		return err
	}

	if err := mgr.Handshake(ctx, clientID, launchArgs, attachArgs); err != nil {
		signal.Run(func(tx *signal.Transaction) {
			signal.SetComparable(mgr.Entity().State, tx, entity.SessionFailed)
		})
		return nil, err
	}

	if err := mgr.WaitInitialized(ctx); err != nil {
		return nil, fmt.Errorf("launch %s: waiting for initialized: %w", clientID, err)
	}

	for _, sourceID := range d.graph.Debugger().Sources.Iter() {
		source, ok := d.graph.Source(sourceID)
		if !ok {
			continue
		}
		if err := mgr.ResyncSourceBreakpoints(ctx, source); err != nil {
			return nil, fmt.Errorf("launch %s: %w", clientID, err)
		}
	}
	if err := mgr.ResyncExceptionFilters(ctx); err != nil {
		return nil, fmt.Errorf("launch %s: %w", clientID, err)
	}
	if err := mgr.ConfigurationDone(ctx); err != nil {
		return nil, err
	}

	d.sessions[mgr.Entity().ID] = mgr
	return mgr, nil
}

func rawIfLaunch(args dap.StartDebuggingRequestArguments) json.RawMessage {
	if args.Request == "launch" {
		return args.Configuration
	}
	return nil
}

func rawIfAttach(args dap.StartDebuggingRequestArguments) json.RawMessage {
	if args.Request == "attach" {
		return args.Configuration
	}
	return nil
}

// AddSourceBreakpoint registers a Debugger-owned source breakpoint and
// resyncs its source in every live session (section 6.4's
// breakpoint CRUD: "resync is automatic").
func (d *Debugger) AddSourceBreakpoint(ctx context.Context, sourcePath string, line int) (*entity.Breakpoint, error) {
	var source *entity.Source
	var bp *entity.Breakpoint
	signal.Run(func(tx *signal.Transaction) {
		var ok bool
		source, ok = d.graph.FindSourceByPath(sourcePath)
		if !ok {
			source = d.graph.CreateSource(tx, sourcePath, sourcePath)
		}
		bp = d.graph.CreateBreakpoint(tx, entity.BreakpointSource, source.ID, line)
	})

	for _, mgr := range d.sessions {
		if err := mgr.ResyncSourceBreakpoints(ctx, source); err != nil {
			return bp, err
		}
	}
	return bp, nil
}

// RemoveBreakpoint unlinks bp and resyncs its source in every live session.
func (d *Debugger) RemoveBreakpoint(ctx context.Context, id entity.ID) error {
	bp, ok := d.graph.Breakpoint(id)
	if !ok {
		return nil
	}
	sourceID := bp.SourceID
	signal.Run(func(tx *signal.Transaction) {
		d.graph.RemoveBreakpoint(tx, id)
	})

	source, ok := d.graph.Source(sourceID)
	if !ok {
		return nil
	}
	for _, mgr := range d.sessions {
		if err := mgr.ResyncSourceBreakpoints(ctx, source); err != nil {
			return err
		}
	}
	return nil
}

// ToggleBreakpoint flips bp's enabled state and resyncs its source in every
// live session (section 6.4: `toggleBreakpoint(loc)`). Disabling
// drops it from the next setBreakpoints resend; re-enabling restores its
// BindingVerified state once the adapter re-acknowledges it.
func (d *Debugger) ToggleBreakpoint(ctx context.Context, id entity.ID) error {
	bp, ok := d.graph.Breakpoint(id)
	if !ok {
		return nil
	}
	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(bp.Enabled, tx, !bp.Enabled.Get())
	})
	return d.resyncBreakpointSource(ctx, bp)
}

// SetCondition updates bp's conditional-breakpoint expression and resyncs
// its source in every live session (section 6.4: `setCondition(id,
// expr)`).
func (d *Debugger) SetCondition(ctx context.Context, id entity.ID, expr string) error {
	bp, ok := d.graph.Breakpoint(id)
	if !ok {
		return nil
	}
	signal.Run(func(tx *signal.Transaction) {
		signal.SetComparable(bp.Condition, tx, expr)
	})
	return d.resyncBreakpointSource(ctx, bp)
}

func (d *Debugger) resyncBreakpointSource(ctx context.Context, bp *entity.Breakpoint) error {
	source, ok := d.graph.Source(bp.SourceID)
	if !ok {
		return nil
	}
	for _, mgr := range d.sessions {
		if err := mgr.ResyncSourceBreakpoints(ctx, source); err != nil {
			return err
		}
	}
	return nil
}

// Query resolves uri against the current focus and returns a snapshot of
// matching Refs (section 6.4's query(uri)).
func (d *Debugger) Query(focus *uri.Focus, path string) []uri.Ref {
	return d.resolver.Resolve(focus, path)
}

// Subscribe follows uri reactively, invoking onChange whenever the
// resolved collection's membership changes.
func (d *Debugger) Subscribe(focus *uri.Focus, path string, onChange func([]uri.Ref)) *uri.Subscription {
	return d.resolver.Subscribe(focus, path, onChange)
}

// WaitURL suspends the calling async task until uri resolves non-empty or
// timeout elapses.
func (d *Debugger) WaitURL(s *async.Scope, focus *uri.Focus, path string, timeout time.Duration) ([]uri.Ref, bool) {
	return d.resolver.WaitURL(s, focus, path, timeout)
}

// Scope returns the Debugger's root async scope, the parent of every task
// a consumer spawns against this Debugger.
func (d *Debugger) Scope() *async.Scope { return d.root }

// Close cancels every session and the root async scope.
func (d *Debugger) Close(ctx context.Context) {
	for _, mgr := range d.sessions {
		_ = mgr.Close(ctx)
	}
	d.root.Cancel()
}
