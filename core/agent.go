package core

import "context"

// AgentState is the lifecycle phase of an agent handle.
type AgentState int

const (
	// StateIdle means the agent has been constructed but not started.
	StateIdle AgentState = iota
	// StateRunning means the agent is inside a run and may take further steps.
	StateRunning
	// StateFinished means the agent has declared its run complete. No state
	// is ever re-entered after StateFinished within a single run.
	StateFinished
)

// String returns the lowercase name of the state.
func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Agent is the handle contract for the external autonomous agent this module
// adapts. The agent's planning loop, tool selection and capability execution
// live entirely behind this interface.
//
// A handle is owned by exactly one invocation; it must never be shared across
// concurrent requests. CurrentStep is monotonically non-decreasing within a
// run and execution stops once State() == StateFinished or
// CurrentStep() >= MaxSteps().
//
// Implementations must:
//   - Respect context cancellation in Run, Think and Act
//   - Record their conversation in the log returned by Messages
//   - Drive State to StateFinished when they decide the run is over
type Agent interface {
	// Run executes the agent to completion for the given prompt and returns
	// the raw (possibly verbose) result text.
	Run(ctx context.Context, prompt string) (string, error)

	// Think decides the next action. It returns true when an action is
	// warranted and Act should be invoked for this step.
	Think(ctx context.Context) (bool, error)

	// Act executes the action decided by the preceding Think call and
	// returns an arbitrary result value.
	Act(ctx context.Context) (any, error)

	// MaxSteps returns the step budget for a run.
	MaxSteps() int

	// SetMaxSteps overrides the step budget before execution begins.
	SetMaxSteps(n int)

	// CurrentStep returns the number of the step currently executing.
	CurrentStep() int

	// SetCurrentStep sets the step counter. The streaming driver uses this
	// to reset and advance the counter.
	SetCurrentStep(n int)

	// State returns the current lifecycle state.
	State() AgentState

	// SetState transitions the lifecycle state.
	SetState(s AgentState)

	// Messages returns the agent's ordered role/content log. The returned
	// log is live: the driver seeds it and the agent appends to it.
	Messages() *MessageLog
}

// Factory constructs a fresh Agent handle. The tool adapter calls it exactly
// once per invocation; handles are never pooled or reused.
type Factory func() (Agent, error)

// BaseAgent supplies the mutable bookkeeping every handle needs: step budget,
// step counter, lifecycle state and the message log. Concrete agents embed it
// and implement Run, Think and Act on top.
type BaseAgent struct {
	maxSteps    int
	currentStep int
	state       AgentState
	messages    MessageLog
}

// NewBaseAgent creates the bookkeeping core with the given step budget.
func NewBaseAgent(maxSteps int) BaseAgent {
	return BaseAgent{maxSteps: maxSteps, state: StateIdle}
}

// MaxSteps returns the step budget.
func (b *BaseAgent) MaxSteps() int { return b.maxSteps }

// SetMaxSteps overrides the step budget.
func (b *BaseAgent) SetMaxSteps(n int) { b.maxSteps = n }

// CurrentStep returns the step counter.
func (b *BaseAgent) CurrentStep() int { return b.currentStep }

// SetCurrentStep sets the step counter.
func (b *BaseAgent) SetCurrentStep(n int) { b.currentStep = n }

// State returns the lifecycle state.
func (b *BaseAgent) State() AgentState { return b.state }

// SetState transitions the lifecycle state.
func (b *BaseAgent) SetState(s AgentState) { b.state = s }

// Messages returns the live message log.
func (b *BaseAgent) Messages() *MessageLog { return &b.messages }
