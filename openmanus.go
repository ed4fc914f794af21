// Package openmanus provides a high-level façade over the agent tool
// adapter. Most applications interact with this package by:
//  1. Implementing core.Agent (or wrapping an existing agent) and providing
//     a core.Factory for it
//  2. Creating an OpenManus via New() with optional adapter overrides
//  3. Invoking the agent single-shot (Execute) or as a live event sequence
//     (Stream / StreamSync)
//
// The façade delegates all execution to tool.AgentTool while keeping setup
// and usage ergonomics concise. Defaults are safe for local development;
// server deployments typically construct the adapter through mcpserver with
// a config file instead.
package openmanus

import (
	"context"

	"github.com/encryptedcommerce/OpenManus/core"
	"github.com/encryptedcommerce/OpenManus/tool"
)

// OpenManus aggregates the tool adapter behind a minimal surface.
type OpenManus struct {
	adapter *tool.AgentTool
}

// New creates an OpenManus around an agent factory with optional adapter
// overrides.
func New(factory core.Factory, optFns ...func(o *tool.Options)) *OpenManus {
	return &OpenManus{adapter: tool.New(factory, optFns...)}
}

// Tool returns the underlying adapter for registration with a host.
func (m *OpenManus) Tool() *tool.AgentTool { return m.adapter }

// Execute runs one single-shot invocation and returns the terminal result.
func (m *OpenManus) Execute(ctx context.Context, prompt string) tool.Result {
	return m.adapter.Execute(ctx, tool.Request{Prompt: prompt})
}

// ExecuteWithBudget runs one single-shot invocation with an explicit step
// budget override.
func (m *OpenManus) ExecuteWithBudget(ctx context.Context, prompt string, maxSteps int) tool.Result {
	return m.adapter.Execute(ctx, tool.Request{Prompt: prompt, MaxSteps: &maxSteps})
}

// Stream starts a streaming invocation, returning the live event sequence.
func (m *OpenManus) Stream(ctx context.Context, prompt string) <-chan core.ProgressEvent {
	return m.adapter.Stream(ctx, tool.Request{Prompt: prompt})
}

// StreamSync is a synchronous helper that drains a streaming invocation and
// returns all emitted events in order. The last event is always terminal.
func (m *OpenManus) StreamSync(ctx context.Context, prompt string) []core.ProgressEvent {
	var events []core.ProgressEvent
	for e := range m.Stream(ctx, prompt) {
		events = append(events, e)
	}
	return events
}
