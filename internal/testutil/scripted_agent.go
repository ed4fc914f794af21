package testutil

import (
	"context"
	"fmt"

	"github.com/encryptedcommerce/OpenManus/core"
)

// Step scripts one think/act cycle of a ScriptedAgent.
type Step struct {
	// Thought is appended to the message log as an assistant message when
	// Think executes, so thinking previews have content to surface.
	Thought string
	// ThinkErr makes Think fail for this step.
	ThinkErr error
	// Act is the value Think returns: whether an action is warranted.
	Act bool
	// ActResult is the raw result Act returns; its string form is also
	// appended to the message log as a tool message.
	ActResult any
	// ActErr makes Act fail for this step.
	ActErr error
	// Finish drives the agent to StateFinished once the step completes.
	Finish bool
}

// ScriptedAgent replays a fixed sequence of steps. Once the script is
// exhausted it declares itself finished.
type ScriptedAgent struct {
	core.BaseAgent

	RunResult string
	RunErr    error

	ThinkCalls int
	ActCalls   int
	RunCalls   int

	steps []Step
	idx   int
}

// NewScriptedAgent creates an agent with the given step budget and script.
func NewScriptedAgent(maxSteps int, steps ...Step) *ScriptedAgent {
	return &ScriptedAgent{BaseAgent: core.NewBaseAgent(maxSteps), steps: steps}
}

// Factory wraps an already-built agent in a core.Factory.
func Factory(a core.Agent) core.Factory {
	return func() (core.Agent, error) { return a, nil }
}

// FailingFactory returns a core.Factory whose construction always fails.
func FailingFactory(err error) core.Factory {
	return func() (core.Agent, error) { return nil, err }
}

// Run implements core.Agent.
func (a *ScriptedAgent) Run(ctx context.Context, prompt string) (string, error) {
	a.RunCalls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	a.Messages().Reset(core.UserMessage(prompt))
	if a.RunErr != nil {
		return "", a.RunErr
	}
	a.SetState(core.StateFinished)
	return a.RunResult, nil
}

// Think implements core.Agent.
func (a *ScriptedAgent) Think(ctx context.Context) (bool, error) {
	a.ThinkCalls++
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if a.idx >= len(a.steps) {
		a.SetState(core.StateFinished)
		return false, nil
	}

	step := a.steps[a.idx]
	if step.ThinkErr != nil {
		a.idx++
		return false, step.ThinkErr
	}

	if step.Thought != "" {
		a.Messages().Append(core.AssistantMessage(step.Thought))
	}

	if !step.Act {
		if step.Finish {
			a.SetState(core.StateFinished)
		}
		a.idx++
	}
	return step.Act, nil
}

// Act implements core.Agent.
func (a *ScriptedAgent) Act(ctx context.Context) (any, error) {
	a.ActCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	step := a.steps[a.idx]
	a.idx++

	if step.ActErr != nil {
		if step.Finish {
			a.SetState(core.StateFinished)
		}
		return nil, step.ActErr
	}

	a.Messages().Append(core.ToolMessage(fmt.Sprint(step.ActResult)))
	if step.Finish {
		a.SetState(core.StateFinished)
	}
	return step.ActResult, nil
}
