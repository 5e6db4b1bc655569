package dap

import "encoding/json"

// ProtocolMessage is the common envelope of every DAP message.
type ProtocolMessage struct {
	Seq  int    `json:"seq"`
	Type string `json:"type"` // "request", "response", "event"
}

// Request is a client-to-adapter (or, for reverse requests, adapter-to-
// client) request.
type Request struct {
	ProtocolMessage
	Command   string          `json:"command"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Response answers a Request by request_seq.
type Response struct {
	ProtocolMessage
	RequestSeq int             `json:"request_seq"`
	Success    bool            `json:"success"`
	Command    string          `json:"command"`
	Message    string          `json:"message,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// Event carries an uncorrelated adapter-to-client notification.
type Event struct {
	ProtocolMessage
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

// Capabilities describes what optional requests and features the adapter
// supports; returned from initialize and re-announced via the capabilities
// event.
type Capabilities struct {
	SupportsConfigurationDoneRequest      bool `json:"supportsConfigurationDoneRequest,omitempty"`
	SupportsFunctionBreakpoints           bool `json:"supportsFunctionBreakpoints,omitempty"`
	SupportsConditionalBreakpoints        bool `json:"supportsConditionalBreakpoints,omitempty"`
	SupportsHitConditionalBreakpoints     bool `json:"supportsHitConditionalBreakpoints,omitempty"`
	SupportsEvaluateForHovers             bool `json:"supportsEvaluateForHovers,omitempty"`
	SupportsStepBack                      bool `json:"supportsStepBack,omitempty"`
	SupportsSetVariable                   bool `json:"supportsSetVariable,omitempty"`
	SupportsRestartFrame                  bool `json:"supportsRestartFrame,omitempty"`
	SupportsGotoTargetsRequest             bool `json:"supportsGotoTargetsRequest,omitempty"`
	SupportsStepInTargetsRequest          bool `json:"supportsStepInTargetsRequest,omitempty"`
	SupportsCompletionsRequest            bool `json:"supportsCompletionsRequest,omitempty"`
	SupportsModulesRequest                bool `json:"supportsModulesRequest,omitempty"`
	SupportsRestartRequest                bool `json:"supportsRestartRequest,omitempty"`
	SupportsExceptionOptions              bool `json:"supportsExceptionOptions,omitempty"`
	SupportsValueFormattingOptions        bool `json:"supportsValueFormattingOptions,omitempty"`
	SupportsExceptionInfoRequest          bool `json:"supportsExceptionInfoRequest,omitempty"`
	SupportTerminateDebuggee              bool `json:"supportTerminateDebuggee,omitempty"`
	SupportsSuspendDebuggee               bool `json:"supportsSuspendDebuggee,omitempty"`
	SupportsDelayedStackTraceLoading      bool `json:"supportsDelayedStackTraceLoading,omitempty"`
	SupportsLoadedSourcesRequest          bool `json:"supportsLoadedSourcesRequest,omitempty"`
	SupportsLogPoints                     bool `json:"supportsLogPoints,omitempty"`
	SupportsTerminateThreadsRequest       bool `json:"supportsTerminateThreadsRequest,omitempty"`
	SupportsSetExpression                 bool `json:"supportsSetExpression,omitempty"`
	SupportsTerminateRequest              bool `json:"supportsTerminateRequest,omitempty"`
	SupportsDataBreakpoints               bool `json:"supportsDataBreakpoints,omitempty"`
	SupportsReadMemoryRequest              bool `json:"supportsReadMemoryRequest,omitempty"`
	SupportsDisassembleRequest             bool `json:"supportsDisassembleRequest,omitempty"`
	SupportsCancelRequest                 bool `json:"supportsCancelRequest,omitempty"`
	SupportsBreakpointLocationsRequest     bool `json:"supportsBreakpointLocationsRequest,omitempty"`
	SupportsClipboardContext               bool `json:"supportsClipboardContext,omitempty"`
	SupportsSteppingGranularity            bool `json:"supportsSteppingGranularity,omitempty"`
	SupportsInstructionBreakpoints         bool `json:"supportsInstructionBreakpoints,omitempty"`
	SupportsExceptionFilterOptions         bool `json:"supportsExceptionFilterOptions,omitempty"`
	SupportsSingleThreadExecutionRequests  bool `json:"supportsSingleThreadExecutionRequests,omitempty"`
	SupportsStartDebuggingRequest          bool `json:"supportsStartDebuggingRequest,omitempty"`
	ExceptionBreakpointFilters             []ExceptionBreakpointsFilter `json:"exceptionBreakpointFilters,omitempty"`
}

// ExceptionBreakpointsFilter is one filter an adapter declares support for on
// initialize; the entity graph materializes these as ExceptionFilter
// entities.
type ExceptionBreakpointsFilter struct {
	Filter             string `json:"filter"`
	Label              string `json:"label"`
	Description        string `json:"description,omitempty"`
	Default            bool   `json:"default,omitempty"`
	SupportsCondition  bool   `json:"supportsCondition,omitempty"`
	ConditionDescription string `json:"conditionDescription,omitempty"`
}

// InitializeRequestArguments are the arguments for initialize.
type InitializeRequestArguments struct {
	ClientID                     string `json:"clientID,omitempty"`
	ClientName                   string `json:"clientName,omitempty"`
	AdapterID                    string `json:"adapterID"`
	Locale                       string `json:"locale,omitempty"`
	LinesStartAt1                bool   `json:"linesStartAt1"`
	ColumnsStartAt1              bool   `json:"columnsStartAt1"`
	PathFormat                   string `json:"pathFormat,omitempty"`
	SupportsVariableType         bool   `json:"supportsVariableType,omitempty"`
	SupportsVariablePaging       bool   `json:"supportsVariablePaging,omitempty"`
	SupportsRunInTerminalRequest  bool  `json:"supportsRunInTerminalRequest,omitempty"`
	SupportsMemoryReferences     bool   `json:"supportsMemoryReferences,omitempty"`
	SupportsProgressReporting    bool   `json:"supportsProgressReporting,omitempty"`
	SupportsInvalidatedEvent     bool   `json:"supportsInvalidatedEvent,omitempty"`
	SupportsMemoryEvent          bool   `json:"supportsMemoryEvent,omitempty"`
	SupportsStartDebuggingRequest bool  `json:"supportsStartDebuggingRequest,omitempty"`
}

// LaunchRequestArguments carries NoDebug plus adapter-specific fields passed
// through as raw JSON so the core never needs to know an adapter's launch
// schema.
type LaunchRequestArguments struct {
	NoDebug bool            `json:"noDebug,omitempty"`
	Extra   json.RawMessage `json:"-"`
}

// AttachRequestArguments is the attach counterpart of LaunchRequestArguments.
type AttachRequestArguments struct {
	Extra json.RawMessage `json:"-"`
}

type SetBreakpointsArguments struct {
	Source         Source             `json:"source"`
	Breakpoints    []SourceBreakpoint `json:"breakpoints,omitempty"`
	SourceModified bool               `json:"sourceModified,omitempty"`
}

type SetBreakpointsResponseBody struct {
	Breakpoints []Breakpoint `json:"breakpoints"`
}

type SetFunctionBreakpointsArguments struct {
	Breakpoints []FunctionBreakpoint `json:"breakpoints"`
}

type SetFunctionBreakpointsResponseBody struct {
	Breakpoints []Breakpoint `json:"breakpoints"`
}

type SetExceptionBreakpointsArguments struct {
	Filters          []string                 `json:"filters"`
	FilterOptions    []ExceptionFilterOptions `json:"filterOptions,omitempty"`
	ExceptionOptions []ExceptionOptions       `json:"exceptionOptions,omitempty"`
}

type ContinueArguments struct {
	ThreadID     int  `json:"threadId"`
	SingleThread bool `json:"singleThread,omitempty"`
}

type ContinueResponseBody struct {
	AllThreadsContinued bool `json:"allThreadsContinued,omitempty"`
}

type NextArguments struct {
	ThreadID     int    `json:"threadId"`
	SingleThread bool   `json:"singleThread,omitempty"`
	Granularity  string `json:"granularity,omitempty"`
}

type StepInArguments struct {
	ThreadID     int    `json:"threadId"`
	SingleThread bool   `json:"singleThread,omitempty"`
	TargetID     int    `json:"targetId,omitempty"`
	Granularity  string `json:"granularity,omitempty"`
}

type StepOutArguments struct {
	ThreadID     int    `json:"threadId"`
	SingleThread bool   `json:"singleThread,omitempty"`
	Granularity  string `json:"granularity,omitempty"`
}

type ReverseContinueArguments struct {
	ThreadID     int  `json:"threadId"`
	SingleThread bool `json:"singleThread,omitempty"`
}

type PauseArguments struct {
	ThreadID int `json:"threadId"`
}

type StackTraceArguments struct {
	ThreadID   int `json:"threadId"`
	StartFrame int `json:"startFrame,omitempty"`
	Levels     int `json:"levels,omitempty"`
}

type StackTraceResponseBody struct {
	StackFrames []StackFrame `json:"stackFrames"`
	TotalFrames int          `json:"totalFrames,omitempty"`
}

type ScopesArguments struct {
	FrameID int `json:"frameId"`
}

type ScopesResponseBody struct {
	Scopes []Scope `json:"scopes"`
}

type VariablesArguments struct {
	VariablesReference int    `json:"variablesReference"`
	Filter              string `json:"filter,omitempty"`
	Start               int    `json:"start,omitempty"`
	Count               int    `json:"count,omitempty"`
}

type VariablesResponseBody struct {
	Variables []Variable `json:"variables"`
}

type SetVariableArguments struct {
	VariablesReference int    `json:"variablesReference"`
	Name                string `json:"name"`
	Value               string `json:"value"`
}

type SetVariableResponseBody struct {
	Value               string `json:"value"`
	Type                string `json:"type,omitempty"`
	VariablesReference  int    `json:"variablesReference,omitempty"`
	NamedVariables      int    `json:"namedVariables,omitempty"`
	IndexedVariables    int    `json:"indexedVariables,omitempty"`
}

type EvaluateArguments struct {
	Expression string `json:"expression"`
	FrameID    int    `json:"frameId,omitempty"`
	Context    string `json:"context,omitempty"`
}

type EvaluateResponseBody struct {
	Result              string `json:"result"`
	Type                string `json:"type,omitempty"`
	VariablesReference  int    `json:"variablesReference"`
	NamedVariables      int    `json:"namedVariables,omitempty"`
	IndexedVariables    int    `json:"indexedVariables,omitempty"`
	MemoryReference     string `json:"memoryReference,omitempty"`
}

type ThreadsResponseBody struct {
	Threads []Thread `json:"threads"`
}

type DisconnectArguments struct {
	Restart           bool `json:"restart,omitempty"`
	TerminateDebuggee bool `json:"terminateDebuggee,omitempty"`
	SuspendDebuggee   bool `json:"suspendDebuggee,omitempty"`
}

type TerminateArguments struct {
	Restart bool `json:"restart,omitempty"`
}

type SourceArguments struct {
	Source          *Source `json:"source,omitempty"`
	SourceReference int     `json:"sourceReference"`
}

type SourceResponseBody struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType,omitempty"`
}

// RestartFrameArguments are the arguments for restartFrame. This request and
// the three below it (stepInTargets, gotoTargets, goto) are not present in
// the lineage this package descends from; they are authored here from the
// Debug Adapter Protocol specification directly, following this package's
// established per-request naming and JSON-tag conventions.
type RestartFrameArguments struct {
	FrameID int `json:"frameId"`
}

type StepInTargetsArguments struct {
	FrameID int `json:"frameId"`
}

type StepInTarget struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Line  int    `json:"line,omitempty"`
}

type StepInTargetsResponseBody struct {
	Targets []StepInTarget `json:"targets"`
}

type GotoTargetsArguments struct {
	Source Source `json:"source"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

type GotoTarget struct {
	ID                   int    `json:"id"`
	Label                string `json:"label"`
	Line                 int    `json:"line"`
	Column               int    `json:"column,omitempty"`
	EndLine              int    `json:"endLine,omitempty"`
	EndColumn            int    `json:"endColumn,omitempty"`
	InstructionPointerReference string `json:"instructionPointerReference,omitempty"`
}

type GotoTargetsResponseBody struct {
	Targets []GotoTarget `json:"targets"`
}

type GotoArguments struct {
	ThreadID int `json:"threadId"`
	TargetID int `json:"targetId"`
}

// Source is a debuggee source file, which may be path-based, reference-
// based (virtual, fetched via the source request), or both.
type Source struct {
	Name             string     `json:"name,omitempty"`
	Path             string     `json:"path,omitempty"`
	SourceReference  int        `json:"sourceReference,omitempty"`
	PresentationHint string     `json:"presentationHint,omitempty"`
	Origin           string     `json:"origin,omitempty"`
	Sources          []Source   `json:"sources,omitempty"`
	AdapterData      any        `json:"adapterData,omitempty"`
	Checksums        []Checksum `json:"checksums,omitempty"`
}

type Checksum struct {
	Algorithm string `json:"algorithm"`
	Checksum  string `json:"checksum"`
}

type SourceBreakpoint struct {
	Line         int    `json:"line"`
	Column       int    `json:"column,omitempty"`
	Condition    string `json:"condition,omitempty"`
	HitCondition string `json:"hitCondition,omitempty"`
	LogMessage   string `json:"logMessage,omitempty"`
}

type FunctionBreakpoint struct {
	Name         string `json:"name"`
	Condition    string `json:"condition,omitempty"`
	HitCondition string `json:"hitCondition,omitempty"`
}

// Breakpoint is the adapter's verification result for a SourceBreakpoint or
// FunctionBreakpoint, echoed back from setBreakpoints and the breakpoint
// event.
type Breakpoint struct {
	ID        int     `json:"id,omitempty"`
	Verified  bool    `json:"verified"`
	Message   string  `json:"message,omitempty"`
	Source    *Source `json:"source,omitempty"`
	Line      int     `json:"line,omitempty"`
	Column    int     `json:"column,omitempty"`
	EndLine   int     `json:"endLine,omitempty"`
	EndColumn int     `json:"endColumn,omitempty"`
}

type ExceptionFilterOptions struct {
	FilterID  string `json:"filterId"`
	Condition string `json:"condition,omitempty"`
}

type ExceptionOptions struct {
	Path      []ExceptionPathSegment `json:"path,omitempty"`
	BreakMode string                 `json:"breakMode"`
}

type ExceptionPathSegment struct {
	Negate bool     `json:"negate,omitempty"`
	Names  []string `json:"names"`
}

type Thread struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type StackFrame struct {
	ID                          int     `json:"id"`
	Name                        string  `json:"name"`
	Source                      *Source `json:"source,omitempty"`
	Line                        int     `json:"line"`
	Column                      int     `json:"column"`
	EndLine                     int     `json:"endLine,omitempty"`
	EndColumn                   int     `json:"endColumn,omitempty"`
	CanRestart                  bool    `json:"canRestart,omitempty"`
	InstructionPointerReference string  `json:"instructionPointerReference,omitempty"`
	PresentationHint            string  `json:"presentationHint,omitempty"`
}

type Scope struct {
	Name               string  `json:"name"`
	PresentationHint   string  `json:"presentationHint,omitempty"`
	VariablesReference int     `json:"variablesReference"`
	NamedVariables     int     `json:"namedVariables,omitempty"`
	IndexedVariables   int     `json:"indexedVariables,omitempty"`
	Expensive          bool    `json:"expensive"`
	Source             *Source `json:"source,omitempty"`
	Line               int     `json:"line,omitempty"`
	Column             int     `json:"column,omitempty"`
}

type Variable struct {
	Name                string                    `json:"name"`
	Value               string                    `json:"value"`
	Type                string                    `json:"type,omitempty"`
	PresentationHint    *VariablePresentationHint `json:"presentationHint,omitempty"`
	EvaluateName        string                    `json:"evaluateName,omitempty"`
	VariablesReference  int                       `json:"variablesReference"`
	NamedVariables      int                       `json:"namedVariables,omitempty"`
	IndexedVariables    int                       `json:"indexedVariables,omitempty"`
	MemoryReference     string                    `json:"memoryReference,omitempty"`
}

type VariablePresentationHint struct {
	Kind       string   `json:"kind,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
	Lazy       bool     `json:"lazy,omitempty"`
}

// --- Event bodies ---

type InitializedEventBody struct{}

type StoppedEventBody struct {
	Reason            string `json:"reason"`
	Description       string `json:"description,omitempty"`
	ThreadID          int    `json:"threadId,omitempty"`
	PreserveFocusHint bool   `json:"preserveFocusHint,omitempty"`
	Text              string `json:"text,omitempty"`
	AllThreadsStopped bool   `json:"allThreadsStopped,omitempty"`
	HitBreakpointIds  []int  `json:"hitBreakpointIds,omitempty"`
}

type ContinuedEventBody struct {
	ThreadID            int  `json:"threadId"`
	AllThreadsContinued bool `json:"allThreadsContinued,omitempty"`
}

type ExitedEventBody struct {
	ExitCode int `json:"exitCode"`
}

type TerminatedEventBody struct {
	Restart any `json:"restart,omitempty"`
}

type ThreadEventBody struct {
	Reason   string `json:"reason"`
	ThreadID int    `json:"threadId"`
}

type OutputEventBody struct {
	Category string `json:"category,omitempty"`
	Output   string `json:"output"`
	Group    string `json:"group,omitempty"`
	Source   *Source `json:"source,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Data     any    `json:"data,omitempty"`
}

type BreakpointEventBody struct {
	Reason     string     `json:"reason"`
	Breakpoint Breakpoint `json:"breakpoint"`
}

type LoadedSourceEventBody struct {
	Reason string `json:"reason"`
	Source Source `json:"source"`
}

type ProcessEventBody struct {
	Name            string `json:"name"`
	SystemProcessID int    `json:"systemProcessId,omitempty"`
	IsLocalProcess  bool   `json:"isLocalProcess,omitempty"`
	StartMethod     string `json:"startMethod,omitempty"`
	PointerSize     int    `json:"pointerSize,omitempty"`
}

type CapabilitiesEventBody struct {
	Capabilities Capabilities `json:"capabilities"`
}

// InvalidatedEventBody tells the client that cached data (threads, stack
// frames, scopes, variables) for the given areas may be stale.
type InvalidatedEventBody struct {
	Areas     []string `json:"areas,omitempty"`
	ThreadID  int      `json:"threadId,omitempty"`
	StackFrameID int   `json:"stackFrameId,omitempty"`
}

// --- Reverse requests (adapter-to-client) ---

// StartDebuggingRequestArguments is the body of a reverse startDebugging
// request: the adapter asks the client to open a new session, typically to
// hand off from a launcher process to the real debuggee.
type StartDebuggingRequestArguments struct {
	Configuration json.RawMessage `json:"configuration"`
	Request       string          `json:"request"` // "launch" | "attach"
}

// RunInTerminalRequestArguments is the body of a reverse runInTerminal
// request.
type RunInTerminalRequestArguments struct {
	Kind  string            `json:"kind,omitempty"` // "integrated" | "external"
	Title string            `json:"title,omitempty"`
	Cwd   string            `json:"cwd"`
	Args  []string          `json:"args"`
	Env   map[string]string `json:"env,omitempty"`
}

type RunInTerminalResponseBody struct {
	ProcessID       int `json:"processId,omitempty"`
	ShellProcessID  int `json:"shellProcessId,omitempty"`
}
