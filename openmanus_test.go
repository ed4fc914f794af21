package openmanus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encryptedcommerce/OpenManus/core"
	"github.com/encryptedcommerce/OpenManus/internal/testutil"
	"github.com/encryptedcommerce/OpenManus/tool"
)

func TestFacadeExecute(t *testing.T) {
	agent := testutil.NewScriptedAgent(80)
	agent.RunResult = "Agent thoughts: the answer is 42"

	m := New(testutil.Factory(agent))
	res := m.Execute(context.Background(), "what is the answer?")

	assert.Equal(t, "complete", res.Status)
	assert.Equal(t, "the answer is 42", res.Result)
}

func TestFacadeExecuteWithBudget(t *testing.T) {
	agent := testutil.NewScriptedAgent(80)
	agent.RunResult = "ok"

	m := New(testutil.Factory(agent))
	m.ExecuteWithBudget(context.Background(), "q", 7)

	assert.Equal(t, 7, agent.MaxSteps())
}

func TestFacadeStreamSync(t *testing.T) {
	agent := testutil.NewScriptedAgent(10,
		testutil.Step{Thought: "step one", Act: true, ActResult: "did it", Finish: true},
	)

	m := New(testutil.Factory(agent), func(o *tool.Options) { o.StepDelay = 0 })
	events := m.StreamSync(context.Background(), "do the thing")

	require.NotEmpty(t, events)
	assert.Equal(t, core.StatusStarted, events[0].Status)
	terminal := events[len(events)-1]
	assert.Equal(t, core.StatusComplete, terminal.Status)
	assert.True(t, terminal.IsTerminal())
}
