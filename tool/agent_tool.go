package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/encryptedcommerce/OpenManus/core"
	"github.com/encryptedcommerce/OpenManus/internal/util"
	"github.com/encryptedcommerce/OpenManus/logging"
	"github.com/encryptedcommerce/OpenManus/stream"
	"github.com/encryptedcommerce/OpenManus/summarize"
)

// StreamMode decides when an invocation runs in streaming mode. Exactly one
// mode is active per adapter; there is no process-wide toggle.
type StreamMode int

const (
	// StreamNever always returns a single aggregated result.
	StreamNever StreamMode = iota
	// StreamAlways always returns a live event sequence.
	StreamAlways
	// StreamPerRequest honors the request's streaming flag, defaulting to
	// a single result when the flag is absent.
	StreamPerRequest
)

// String returns the configuration name of the mode.
func (m StreamMode) String() string {
	switch m {
	case StreamNever:
		return "never"
	case StreamAlways:
		return "always"
	case StreamPerRequest:
		return "per_request"
	default:
		return "unknown"
	}
}

// ParseStreamMode maps a configuration string to a StreamMode.
func ParseStreamMode(s string) (StreamMode, error) {
	switch s {
	case "", "never":
		return StreamNever, nil
	case "always":
		return StreamAlways, nil
	case "per_request":
		return StreamPerRequest, nil
	default:
		return StreamNever, fmt.Errorf("unknown stream mode %q", s)
	}
}

// DefaultMaxSteps is the step budget applied when neither the request nor
// the agent handle carries one.
const DefaultMaxSteps = 80

// Request is one parsed invocation. It is immutable once parsed.
type Request struct {
	// Prompt is the user's request; it is always non-empty after
	// validation.
	Prompt string
	// MaxSteps overrides the handle's step budget when non-nil. Zero and
	// negative values are honored and exhaust the budget immediately.
	MaxSteps *int
	// Streaming is the per-request flag, only consulted in
	// StreamPerRequest mode.
	Streaming *bool
}

// Result is the terminal outcome of a non-streaming invocation. Exactly one
// of Status or Error is set.
type Result struct {
	Status     string `json:"status,omitempty"`
	Result     string `json:"result,omitempty"`
	FullResult string `json:"full_result,omitempty"`
	Error      string `json:"error,omitempty"`
}

// JSON renders the result in its wire form.
func (r Result) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"error":"result marshal failure"}`
	}
	return string(b)
}

// executeArgs is the schema source for the tool's parameters.
type executeArgs struct {
	Prompt    string `json:"prompt" description:"The user's prompt or request to process"`
	MaxSteps  *int   `json:"max_steps,omitempty" description:"Maximum number of steps the agent can take (default: use agent's default)"`
	Streaming *bool  `json:"streaming,omitempty" description:"Stream progress events instead of returning a single aggregated result"`
}

// Options holds configuration overrides passed to New().
type Options struct {
	// Name overrides the registered tool name.
	Name string
	// Description overrides the tool description shown to the host.
	Description string
	// StreamMode decides single-shot vs streaming execution.
	StreamMode StreamMode
	// ErrorPolicy is handed to the streaming driver.
	ErrorPolicy stream.ErrorPolicy
	// IncludeFullResult keeps the raw agent output in single-shot results
	// alongside the summary.
	IncludeFullResult bool
	// DefaultMaxSteps is applied to handles that come out of the factory
	// without a budget.
	DefaultMaxSteps int
	// StepDelay paces the streaming driver between steps.
	StepDelay time.Duration
	// Summarizer compresses raw results; shared with the driver.
	Summarizer *summarize.Summarizer
	// Logger receives structured adapter diagnostics.
	Logger logging.Logger
}

// AgentTool adapts an injected agent to the Tool interface. One fresh handle
// is constructed per invocation; handles are never pooled or reused, so the
// adapter itself is safe for concurrent use.
type AgentTool struct {
	factory           core.Factory
	name              string
	description       string
	parameters        map[string]any
	streamMode        StreamMode
	includeFullResult bool
	defaultMaxSteps   int
	summarizer        *summarize.Summarizer
	driver            *stream.Driver
	logger            logging.Logger
}

// New constructs an AgentTool around an agent factory with optional
// overrides. Defaults: name "manus_agent", streaming off, full result kept,
// abort on action error, 80 step budget, 100ms pacing.
func New(factory core.Factory, optFns ...func(o *Options)) *AgentTool {
	opts := Options{
		Name:              "manus_agent",
		Description:       "Runs the Manus agent to process user requests using multiple capabilities",
		StreamMode:        StreamNever,
		ErrorPolicy:       stream.AbortOnError,
		IncludeFullResult: true,
		DefaultMaxSteps:   DefaultMaxSteps,
		StepDelay:         100 * time.Millisecond,
		Summarizer:        summarize.New(),
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	driver := stream.New(func(o *stream.Options) {
		o.StepDelay = opts.StepDelay
		o.ErrorPolicy = opts.ErrorPolicy
		o.Summarizer = opts.Summarizer
		o.Logger = opts.Logger
	})

	return &AgentTool{
		factory:           factory,
		name:              opts.Name,
		description:       opts.Description,
		parameters:        util.CreateSchema(executeArgs{}),
		streamMode:        opts.StreamMode,
		includeFullResult: opts.IncludeFullResult,
		defaultMaxSteps:   opts.DefaultMaxSteps,
		summarizer:        opts.Summarizer,
		driver:            driver,
		logger:            opts.Logger,
	}
}

// Name returns the registered tool name.
func (t *AgentTool) Name() string { return t.name }

// Description returns the tool description shown to the host.
func (t *AgentTool) Description() string { return t.description }

// Parameters returns the JSON schema describing the invocation arguments.
func (t *AgentTool) Parameters() map[string]any { return t.parameters }

// StreamMode returns the adapter's configured streaming mode.
func (t *AgentTool) StreamMode() StreamMode { return t.streamMode }

// ShouldStream reports whether the given request runs in streaming mode
// under the configured policy.
func (t *AgentTool) ShouldStream(req Request) bool {
	switch t.streamMode {
	case StreamAlways:
		return true
	case StreamPerRequest:
		return req.Streaming != nil && *req.Streaming
	default:
		return false
	}
}

// ParseRequest validates raw arguments against the schema and converts them
// into a Request. Validation failures come back as *ToolError with code
// VALIDATION_ERROR.
func (t *AgentTool) ParseRequest(args map[string]any) (Request, error) {
	if err := util.ValidateParameters(args, t.parameters); err != nil {
		t.logger.Warn("tool.call.validation_failed", "tool", t.name, "error", err.Error())
		return Request{}, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    "VALIDATION_ERROR",
			Details: err,
		}
	}

	prompt, ok := args["prompt"].(string)
	if !ok {
		return Request{}, &ToolError{
			Tool:    t.name,
			Message: "parameter validation failed: prompt must be a string",
			Code:    "VALIDATION_ERROR",
		}
	}

	req := Request{Prompt: prompt}
	if req.Prompt == "" {
		return Request{}, &ToolError{
			Tool:    t.name,
			Message: "parameter validation failed: prompt must not be empty",
			Code:    "VALIDATION_ERROR",
		}
	}

	switch v := args["max_steps"].(type) {
	case float64:
		n := int(v)
		req.MaxSteps = &n
	case int:
		n := v
		req.MaxSteps = &n
	}
	if v, ok := args["streaming"].(bool); ok {
		req.Streaming = &v
	}
	return req, nil
}

// Call implements Tool. Validation errors are returned as *ToolError before
// any agent work begins; all later failures resolve into a terminal Result
// or error event, never into a returned error. The return value is a Result
// for single-shot invocations or a <-chan core.ProgressEvent when streaming.
func (t *AgentTool) Call(ctx context.Context, args map[string]any) (any, error) {
	req, err := t.ParseRequest(args)
	if err != nil {
		return nil, err
	}

	if t.ShouldStream(req) {
		t.logger.Info("tool.call.streaming", "tool", t.name, "mode", t.streamMode.String())
		return t.Stream(ctx, req), nil
	}

	t.logger.Info("tool.call.single_shot", "tool", t.name)
	return t.Execute(ctx, req), nil
}

// Execute runs the agent to completion and aggregates the outcome. Any
// failure, including construction errors and panics, folds into the
// returned Result's Error field.
func (t *AgentTool) Execute(ctx context.Context, req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("tool.execute.panic", "tool", t.name, "panic", fmt.Sprint(r))
			res = Result{Error: fmt.Sprintf("Error running agent: %v", r)}
		}
	}()

	start := time.Now()

	agent, err := t.newAgent(req)
	if err != nil {
		return Result{Error: fmt.Sprintf("Error running agent: %v", err)}
	}

	raw, err := agent.Run(ctx, req.Prompt)
	if err != nil {
		t.logger.Error("tool.execute.run_failed", "tool", t.name, "error", err.Error())
		return Result{Error: fmt.Sprintf("Error running agent: %v", err)}
	}

	res = Result{Status: "complete", Result: t.summarizer.Summarize(raw)}
	if t.includeFullResult {
		res.FullResult = raw
	}

	t.logger.Info("tool.execute.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())
	return res
}

// Stream runs the agent step by step, returning the live event sequence.
// Construction failures become a single terminal error event so the
// sequence contract holds even when no step ever runs.
func (t *AgentTool) Stream(ctx context.Context, req Request) <-chan core.ProgressEvent {
	agent, err := t.newAgent(req)
	if err != nil {
		t.logger.Error("tool.stream.construction_failed", "tool", t.name, "error", err.Error())
		events := make(chan core.ProgressEvent, 1)
		events <- core.NewRunErrorEvent(fmt.Sprintf("Error running agent: %v", err), "agent construction failed")
		close(events)
		return events
	}

	return t.driver.Run(ctx, agent, req.Prompt)
}

// newAgent builds one fresh handle for an invocation and applies the step
// budget: the request's override wins, then the handle's own budget, then
// the adapter default.
func (t *AgentTool) newAgent(req Request) (core.Agent, error) {
	agent, err := t.factory()
	if err != nil {
		return nil, fmt.Errorf("agent construction failed: %w", err)
	}

	if req.MaxSteps != nil {
		agent.SetMaxSteps(*req.MaxSteps)
	} else if agent.MaxSteps() <= 0 && t.defaultMaxSteps > 0 {
		agent.SetMaxSteps(t.defaultMaxSteps)
	}
	return agent, nil
}
