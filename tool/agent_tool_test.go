package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encryptedcommerce/OpenManus/core"
	"github.com/encryptedcommerce/OpenManus/internal/testutil"
)

func fastTool(factory core.Factory, optFns ...func(o *Options)) *AgentTool {
	base := func(o *Options) { o.StepDelay = 0 }
	return New(factory, append([]func(o *Options){base}, optFns...)...)
}

func drain(ch <-chan core.ProgressEvent) []core.ProgressEvent {
	var events []core.ProgressEvent
	for e := range ch {
		events = append(events, e)
	}
	return events
}

func TestAgentToolMetadata(t *testing.T) {
	at := fastTool(testutil.Factory(testutil.NewScriptedAgent(1)))

	assert.Equal(t, "manus_agent", at.Name())
	assert.NotEmpty(t, at.Description())

	props := at.Parameters()["properties"].(map[string]any)
	assert.Contains(t, props, "prompt")
	assert.Contains(t, props, "max_steps")
	assert.Contains(t, props, "streaming")
	assert.Equal(t, []string{"prompt"}, at.Parameters()["required"])
}

func TestAgentToolCallMissingPrompt(t *testing.T) {
	at := fastTool(testutil.Factory(testutil.NewScriptedAgent(1)))

	_, err := at.Call(context.Background(), map[string]any{})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "manus_agent", toolErr.Tool)
}

func TestAgentToolCallEmptyPrompt(t *testing.T) {
	at := fastTool(testutil.Factory(testutil.NewScriptedAgent(1)))

	_, err := at.Call(context.Background(), map[string]any{"prompt": ""})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestAgentToolCallNullPrompt(t *testing.T) {
	at := fastTool(testutil.Factory(testutil.NewScriptedAgent(1)))

	_, err := at.Call(context.Background(), map[string]any{"prompt": nil})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestAgentToolCallWrongTypes(t *testing.T) {
	at := fastTool(testutil.Factory(testutil.NewScriptedAgent(1)))

	_, err := at.Call(context.Background(), map[string]any{"prompt": "hi", "max_steps": "five"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*ToolError).Code)
}

func TestAgentToolSingleShot(t *testing.T) {
	agent := testutil.NewScriptedAgent(80)
	agent.RunResult = "Step 1: browsed\n✨ Manus's thoughts: Paris is the capital.\nUsing tool: terminate"

	at := fastTool(testutil.Factory(agent))
	out, err := at.Call(context.Background(), map[string]any{"prompt": "capital of France?"})
	require.NoError(t, err)

	res, ok := out.(Result)
	require.True(t, ok)
	assert.Equal(t, "complete", res.Status)
	assert.Equal(t, "Paris is the capital.", res.Result)
	assert.Equal(t, agent.RunResult, res.FullResult)
	assert.Empty(t, res.Error)
	assert.Equal(t, 1, agent.RunCalls)
}

func TestAgentToolSingleShotWithoutFullResult(t *testing.T) {
	agent := testutil.NewScriptedAgent(80)
	agent.RunResult = "plain answer"

	at := fastTool(testutil.Factory(agent), func(o *Options) { o.IncludeFullResult = false })
	res := at.Execute(context.Background(), Request{Prompt: "q"})

	assert.Equal(t, "complete", res.Status)
	assert.Equal(t, "Result: plain answer", res.Result)
	assert.Empty(t, res.FullResult)
}

func TestAgentToolConstructionFailureNeverPropagates(t *testing.T) {
	at := fastTool(testutil.FailingFactory(errors.New("missing credentials")))

	out, err := at.Call(context.Background(), map[string]any{"prompt": "q"})
	require.NoError(t, err)

	res, ok := out.(Result)
	require.True(t, ok)
	assert.Contains(t, res.Error, "missing credentials")
	assert.Empty(t, res.Status)
}

func TestAgentToolRunFailure(t *testing.T) {
	agent := testutil.NewScriptedAgent(80)
	agent.RunErr = errors.New("agent exploded")

	at := fastTool(testutil.Factory(agent))
	res := at.Execute(context.Background(), Request{Prompt: "q"})

	assert.Contains(t, res.Error, "agent exploded")
	assert.Empty(t, res.Status)
}

func TestAgentToolStepBudgetResolution(t *testing.T) {
	// Request override wins.
	agent := testutil.NewScriptedAgent(80)
	agent.RunResult = "ok"
	at := fastTool(testutil.Factory(agent))
	five := 5
	at.Execute(context.Background(), Request{Prompt: "q", MaxSteps: &five})
	assert.Equal(t, 5, agent.MaxSteps())

	// A handle without a budget gets the adapter default.
	agent = testutil.NewScriptedAgent(0)
	agent.RunResult = "ok"
	at = fastTool(testutil.Factory(agent))
	at.Execute(context.Background(), Request{Prompt: "q"})
	assert.Equal(t, DefaultMaxSteps, agent.MaxSteps())

	// A handle with its own budget keeps it.
	agent = testutil.NewScriptedAgent(30)
	agent.RunResult = "ok"
	at = fastTool(testutil.Factory(agent))
	at.Execute(context.Background(), Request{Prompt: "q"})
	assert.Equal(t, 30, agent.MaxSteps())
}

func TestAgentToolStreamModes(t *testing.T) {
	no := false
	yes := true
	tests := []struct {
		name   string
		mode   StreamMode
		flag   *bool
		stream bool
	}{
		{"never ignores flag", StreamNever, &yes, false},
		{"never without flag", StreamNever, nil, false},
		{"always without flag", StreamAlways, nil, true},
		{"always ignores negative flag", StreamAlways, &no, true},
		{"per request honors true", StreamPerRequest, &yes, true},
		{"per request honors false", StreamPerRequest, &no, false},
		{"per request defaults off", StreamPerRequest, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := fastTool(nil, func(o *Options) { o.StreamMode = tt.mode })
			assert.Equal(t, tt.stream, at.ShouldStream(Request{Prompt: "q", Streaming: tt.flag}))
		})
	}
}

func TestAgentToolCallStreaming(t *testing.T) {
	agent := testutil.NewScriptedAgent(10,
		testutil.Step{Thought: "working", Act: true, ActResult: "done", Finish: true},
	)

	at := fastTool(testutil.Factory(agent), func(o *Options) { o.StreamMode = StreamPerRequest })
	out, err := at.Call(context.Background(), map[string]any{"prompt": "q", "streaming": true})
	require.NoError(t, err)

	ch, ok := out.(<-chan core.ProgressEvent)
	require.True(t, ok)

	events := drain(ch)
	require.NotEmpty(t, events)
	assert.Equal(t, core.StatusStarted, events[0].Status)
	assert.Equal(t, core.StatusComplete, events[len(events)-1].Status)
}

func TestAgentToolStreamConstructionFailure(t *testing.T) {
	at := fastTool(testutil.FailingFactory(errors.New("no agent for you")),
		func(o *Options) { o.StreamMode = StreamAlways })

	events := drain(at.Stream(context.Background(), Request{Prompt: "q"}))

	require.Len(t, events, 1)
	assert.Equal(t, core.StatusError, events[0].Status)
	assert.Contains(t, events[0].Error, "no agent for you")
	assert.True(t, events[0].IsTerminal())
}

func TestAgentToolMaxStepsFromJSONNumber(t *testing.T) {
	agent := testutil.NewScriptedAgent(80)
	agent.RunResult = "ok"
	at := fastTool(testutil.Factory(agent))

	// JSON-decoded arguments carry numbers as float64.
	_, err := at.Call(context.Background(), map[string]any{"prompt": "q", "max_steps": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, agent.MaxSteps())
}

func TestResultJSONWireShape(t *testing.T) {
	res := Result{Status: "complete", Result: "summary", FullResult: "raw"}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.JSON()), &decoded))
	assert.Equal(t, "complete", decoded["status"])
	assert.Equal(t, "summary", decoded["result"])
	assert.Equal(t, "raw", decoded["full_result"])
	assert.NotContains(t, decoded, "error")

	errRes := Result{Error: "boom"}
	decoded = map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(errRes.JSON()), &decoded))
	assert.Equal(t, map[string]any{"error": "boom"}, decoded)
}

func TestParseStreamMode(t *testing.T) {
	m, err := ParseStreamMode("")
	assert.NoError(t, err)
	assert.Equal(t, StreamNever, m)

	m, err = ParseStreamMode("always")
	assert.NoError(t, err)
	assert.Equal(t, StreamAlways, m)

	m, err = ParseStreamMode("per_request")
	assert.NoError(t, err)
	assert.Equal(t, StreamPerRequest, m)

	_, err = ParseStreamMode("sometimes")
	assert.Error(t, err)
}

func TestToolErrorFormatting(t *testing.T) {
	err := NewToolError("manus_agent", "boom", "EXECUTION_ERROR")
	assert.Equal(t, "tool error [EXECUTION_ERROR] in manus_agent: boom", err.Error())

	err = &ToolError{Tool: "manus_agent", Message: "boom"}
	assert.Equal(t, "tool error in manus_agent: boom", err.Error())
}
