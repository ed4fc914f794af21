package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/encryptedcommerce/OpenManus/core"
	"github.com/encryptedcommerce/OpenManus/logging"
	"github.com/encryptedcommerce/OpenManus/summarize"
)

// ErrorPolicy names how the driver treats a failed Act call. Think failures
// always end the run since no action was decided for the step.
type ErrorPolicy int

const (
	// AbortOnError ends the run after the first failed action.
	AbortOnError ErrorPolicy = iota
	// ContinueOnError reports the failure and keeps stepping until the
	// agent finishes or the budget runs out.
	ContinueOnError
)

// String returns the configuration name of the policy.
func (p ErrorPolicy) String() string {
	switch p {
	case AbortOnError:
		return "abort_on_error"
	case ContinueOnError:
		return "continue_on_error"
	default:
		return "unknown"
	}
}

const (
	promptPreviewLimit = 50
	thinkingLimit      = 150
	finalContentLimit  = 300
	thinkingScanWindow = 2
	finalScanWindow    = 3
	summaryTail        = 3
)

// Options holds configuration overrides passed to New().
type Options struct {
	// StepDelay paces event emission between steps so consumers are not
	// flooded. It is a pacing device, not a correctness requirement.
	StepDelay time.Duration
	// ErrorPolicy decides whether a failed action ends the run.
	ErrorPolicy ErrorPolicy
	// EventBufferSize sets channel buffering for emitted events.
	EventBufferSize int
	// Summarizer compresses action results for acting events.
	Summarizer *summarize.Summarizer
	// Logger receives structured driver diagnostics.
	Logger logging.Logger
}

// Driver orchestrates step-by-step execution of one agent handle per run.
// A Driver carries no per-run state and is safe for concurrent use; the
// handles passed to Run must not be.
type Driver struct {
	stepDelay       time.Duration
	errorPolicy     ErrorPolicy
	eventBufferSize int
	summarizer      *summarize.Summarizer
	logger          logging.Logger
}

// New constructs a Driver with optional overrides.
func New(optFns ...func(o *Options)) *Driver {
	opts := Options{
		StepDelay:       100 * time.Millisecond,
		ErrorPolicy:     AbortOnError,
		EventBufferSize: 16,
		Summarizer:      summarize.New(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Driver{
		stepDelay:       opts.StepDelay,
		errorPolicy:     opts.ErrorPolicy,
		eventBufferSize: opts.EventBufferSize,
		summarizer:      opts.Summarizer,
		logger:          opts.Logger,
	}
}

// Run starts a streaming run of the agent for the given prompt. Events are
// emitted in order on the returned channel, which is closed after the
// terminal complete or error event. The caller owns consumption pacing;
// the driver emits eagerly.
func (d *Driver) Run(ctx context.Context, agent core.Agent, prompt string) <-chan core.ProgressEvent {
	events := make(chan core.ProgressEvent, d.eventBufferSize)

	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("stream.run.panic", "panic", fmt.Sprint(r))
				d.emit(ctx, events, core.NewRunErrorEvent(fmt.Sprintf("streaming run panicked: %v", r), ""))
			}
		}()

		d.run(ctx, agent, prompt, events)
	}()

	return events
}

func (d *Driver) run(ctx context.Context, agent core.Agent, prompt string, events chan<- core.ProgressEvent) {
	agent.Messages().Reset(core.UserMessage(prompt))
	agent.SetCurrentStep(0)
	agent.SetState(core.StateRunning)

	preview := summarize.Truncate(prompt, promptPreviewLimit)
	d.logger.Info("stream.run.start", "prompt_preview", preview, "max_steps", agent.MaxSteps(), "error_policy", d.errorPolicy.String())
	d.emit(ctx, events, core.NewStartedEvent(fmt.Sprintf("Starting to process: '%s'", preview)))

	var actions []string

	for agent.State() == core.StateRunning && agent.CurrentStep() < agent.MaxSteps() {
		if err := ctx.Err(); err != nil {
			d.logger.Warn("stream.run.cancelled", "step", agent.CurrentStep())
			d.emit(ctx, events, core.NewRunErrorEvent(err.Error(), "run cancelled before completion"))
			return
		}

		step := agent.CurrentStep() + 1
		agent.SetCurrentStep(step)

		shouldAct, err := agent.Think(ctx)
		if err != nil {
			d.logger.Error("stream.step.think_failed", "step", step, "error", err.Error())
			d.emit(ctx, events, core.NewStepErrorEvent(step, err.Error()))
			actions = append(actions, fmt.Sprintf("Step %d: Error - %s", step, err.Error()))
			agent.SetState(core.StateFinished)
			break
		}

		content, ok := agent.Messages().LastContent(thinkingScanWindow)
		if !ok {
			content = "No content available"
		}
		d.emit(ctx, events, core.NewThinkingEvent(step, summarize.Truncate(content, thinkingLimit)))

		if shouldAct {
			result, err := agent.Act(ctx)
			if err != nil {
				d.logger.Error("stream.step.act_failed", "step", step, "error", err.Error())
				d.emit(ctx, events, core.NewStepErrorEvent(step, err.Error()))
				actions = append(actions, fmt.Sprintf("Step %d: Error - %s", step, err.Error()))
				if d.errorPolicy == AbortOnError {
					agent.SetState(core.StateFinished)
				}
			} else {
				summary := d.summarizer.Summarize(fmt.Sprint(result))
				actions = append(actions, fmt.Sprintf("Step %d: %s", step, summary))
				d.logger.Debug("stream.step.acted", "step", step, "summary", summary)
				d.emit(ctx, events, core.NewActingEvent(step, summary))
			}
		}

		if agent.State() == core.StateFinished {
			break
		}

		if d.stepDelay > 0 {
			select {
			case <-ctx.Done():
				d.logger.Warn("stream.run.cancelled", "step", step)
				d.emit(ctx, events, core.NewRunErrorEvent(ctx.Err().Error(), "run cancelled before completion"))
				return
			case <-time.After(d.stepDelay):
			}
		}
	}

	final, ok := agent.Messages().LastContent(finalScanWindow)
	if !ok {
		final = "No final content available"
	}

	tail := actions
	if len(tail) > summaryTail {
		tail = tail[len(tail)-summaryTail:]
	}

	d.logger.Info("stream.run.complete", "total_steps", agent.CurrentStep(), "actions", len(actions))
	d.emit(ctx, events, core.NewCompleteEvent(summarize.Truncate(final, finalContentLimit), tail, agent.CurrentStep()))
}

// emit sends an event, giving up only when the context is gone and the
// buffer is full. Sequence termination is still guaranteed by channel close.
func (d *Driver) emit(ctx context.Context, events chan<- core.ProgressEvent, e core.ProgressEvent) {
	select {
	case events <- e:
	default:
		select {
		case events <- e:
		case <-ctx.Done():
			d.logger.Warn("stream.emit.dropped", "status", string(e.Status), "step", e.Step)
		}
	}
}
