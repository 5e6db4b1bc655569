package dap

import (
	"context"
	"encoding/json"
	"fmt"
)

// call is a small generic helper: marshal arguments, invoke the named
// command, unmarshal the body into a zero value of R.
func call[R any](ctx context.Context, c *Channel, command string, arguments any) (R, error) {
	var result R
	body, err := c.Call(ctx, command, arguments)
	if err != nil {
		return result, err
	}
	if len(body) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("unmarshal %s response: %w", command, err)
	}
	return result, nil
}

func (c *Channel) Initialize(ctx context.Context, args InitializeRequestArguments) (Capabilities, error) {
	return call[Capabilities](ctx, c, "initialize", args)
}

func (c *Channel) Launch(ctx context.Context, args json.RawMessage) error {
	_, err := c.Call(ctx, "launch", json.RawMessage(args))
	return err
}

func (c *Channel) Attach(ctx context.Context, args json.RawMessage) error {
	_, err := c.Call(ctx, "attach", json.RawMessage(args))
	return err
}

func (c *Channel) ConfigurationDone(ctx context.Context) error {
	_, err := c.Call(ctx, "configurationDone", nil)
	return err
}

func (c *Channel) Disconnect(ctx context.Context, args DisconnectArguments) error {
	_, err := c.Call(ctx, "disconnect", args)
	return err
}

func (c *Channel) Terminate(ctx context.Context, args TerminateArguments) error {
	_, err := c.Call(ctx, "terminate", args)
	return err
}

func (c *Channel) SetBreakpoints(ctx context.Context, args SetBreakpointsArguments) (SetBreakpointsResponseBody, error) {
	return call[SetBreakpointsResponseBody](ctx, c, "setBreakpoints", args)
}

func (c *Channel) SetFunctionBreakpoints(ctx context.Context, args SetFunctionBreakpointsArguments) (SetFunctionBreakpointsResponseBody, error) {
	return call[SetFunctionBreakpointsResponseBody](ctx, c, "setFunctionBreakpoints", args)
}

func (c *Channel) SetExceptionBreakpoints(ctx context.Context, args SetExceptionBreakpointsArguments) error {
	_, err := c.Call(ctx, "setExceptionBreakpoints", args)
	return err
}

func (c *Channel) Continue(ctx context.Context, args ContinueArguments) (ContinueResponseBody, error) {
	return call[ContinueResponseBody](ctx, c, "continue", args)
}

func (c *Channel) Next(ctx context.Context, args NextArguments) error {
	_, err := c.Call(ctx, "next", args)
	return err
}

func (c *Channel) StepIn(ctx context.Context, args StepInArguments) error {
	_, err := c.Call(ctx, "stepIn", args)
	return err
}

func (c *Channel) StepOut(ctx context.Context, args StepOutArguments) error {
	_, err := c.Call(ctx, "stepOut", args)
	return err
}

func (c *Channel) ReverseContinue(ctx context.Context, args ReverseContinueArguments) error {
	_, err := c.Call(ctx, "reverseContinue", args)
	return err
}

func (c *Channel) Pause(ctx context.Context, args PauseArguments) error {
	_, err := c.Call(ctx, "pause", args)
	return err
}

func (c *Channel) Threads(ctx context.Context) (ThreadsResponseBody, error) {
	return call[ThreadsResponseBody](ctx, c, "threads", nil)
}

func (c *Channel) StackTrace(ctx context.Context, args StackTraceArguments) (StackTraceResponseBody, error) {
	return call[StackTraceResponseBody](ctx, c, "stackTrace", args)
}

func (c *Channel) Scopes(ctx context.Context, args ScopesArguments) (ScopesResponseBody, error) {
	return call[ScopesResponseBody](ctx, c, "scopes", args)
}

func (c *Channel) Variables(ctx context.Context, args VariablesArguments) (VariablesResponseBody, error) {
	return call[VariablesResponseBody](ctx, c, "variables", args)
}

func (c *Channel) SetVariable(ctx context.Context, args SetVariableArguments) (SetVariableResponseBody, error) {
	return call[SetVariableResponseBody](ctx, c, "setVariable", args)
}

func (c *Channel) Evaluate(ctx context.Context, args EvaluateArguments) (EvaluateResponseBody, error) {
	return call[EvaluateResponseBody](ctx, c, "evaluate", args)
}

func (c *Channel) Source(ctx context.Context, args SourceArguments) (SourceResponseBody, error) {
	return call[SourceResponseBody](ctx, c, "source", args)
}

// RestartFrame, StepInTargets, GotoTargets, and Goto round out the frame
// navigation surface the stack/frame entity model needs; see the
// RestartFrameArguments doc comment in protocol.go for provenance.
func (c *Channel) RestartFrame(ctx context.Context, args RestartFrameArguments) error {
	_, err := c.Call(ctx, "restartFrame", args)
	return err
}

func (c *Channel) StepInTargets(ctx context.Context, args StepInTargetsArguments) (StepInTargetsResponseBody, error) {
	return call[StepInTargetsResponseBody](ctx, c, "stepInTargets", args)
}

func (c *Channel) GotoTargets(ctx context.Context, args GotoTargetsArguments) (GotoTargetsResponseBody, error) {
	return call[GotoTargetsResponseBody](ctx, c, "gotoTargets", args)
}

func (c *Channel) Goto(ctx context.Context, args GotoArguments) error {
	_, err := c.Call(ctx, "goto", args)
	return err
}
