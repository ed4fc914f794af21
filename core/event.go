package core

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventStatus tags a ProgressEvent variant.
type EventStatus string

const (
	// StatusStarted announces that a streaming run has begun.
	StatusStarted EventStatus = "started"
	// StatusThinking carries a preview of the agent's reasoning for a step.
	StatusThinking EventStatus = "thinking"
	// StatusActing carries the summarized result of an executed action.
	StatusActing EventStatus = "acting"
	// StatusError reports a failure, either for one step or for the run.
	StatusError EventStatus = "error"
	// StatusComplete is the terminal event of a successful streaming run.
	StatusComplete EventStatus = "complete"
)

// ProgressEvent is one unit of the streaming output sequence. After emission
// it is immutable; events are consumed exactly once in emission order. Only
// the fields relevant to the Status variant are populated.
type ProgressEvent struct {
	ID        string      `json:"id"`
	Status    EventStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`

	// Step is the 1-based step number for thinking, acting and per-step
	// error events. It is zero for started, complete and run-level errors.
	Step int `json:"step,omitempty"`

	Message string `json:"message,omitempty"` // started
	Content string `json:"content,omitempty"` // thinking, complete
	Action  string `json:"action,omitempty"`  // acting
	Error   string `json:"error,omitempty"`   // error
	Detail  string `json:"detail,omitempty"`  // error (optional context)

	StepsSummary []string `json:"steps_summary,omitempty"` // complete
	TotalSteps   int      `json:"total_steps,omitempty"`   // complete
}

// NewID generates a unique identifier for events.
func NewID() string { return uuid.NewString() }

func newProgressEvent(status EventStatus) ProgressEvent {
	return ProgressEvent{
		ID:        NewID(),
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// NewStartedEvent creates the opening event of a streaming run.
func NewStartedEvent(message string) ProgressEvent {
	e := newProgressEvent(StatusStarted)
	e.Message = message
	return e
}

// NewThinkingEvent creates a reasoning-preview event for one step.
func NewThinkingEvent(step int, content string) ProgressEvent {
	e := newProgressEvent(StatusThinking)
	e.Step = step
	e.Content = content
	return e
}

// NewActingEvent creates an action-result event for one step.
func NewActingEvent(step int, action string) ProgressEvent {
	e := newProgressEvent(StatusActing)
	e.Step = step
	e.Action = action
	return e
}

// NewStepErrorEvent reports a failure during a single step. Depending on the
// driver's error policy the run may still continue after this event.
func NewStepErrorEvent(step int, errMsg string) ProgressEvent {
	e := newProgressEvent(StatusError)
	e.Step = step
	e.Error = errMsg
	return e
}

// NewRunErrorEvent reports an unrecoverable run-level failure. It is always
// the last event of its sequence.
func NewRunErrorEvent(errMsg, detail string) ProgressEvent {
	e := newProgressEvent(StatusError)
	e.Error = errMsg
	e.Detail = detail
	return e
}

// NewCompleteEvent creates the terminal event of a successful run, carrying
// the final content preview, the tail of the action summaries and the total
// number of steps taken.
func NewCompleteEvent(content string, stepsSummary []string, totalSteps int) ProgressEvent {
	e := newProgressEvent(StatusComplete)
	e.Content = content
	e.StepsSummary = stepsSummary
	e.TotalSteps = totalSteps
	return e
}

// IsTerminal reports whether no further event can follow this one in a
// well-formed sequence: a complete event, or a run-level error (step zero).
func (e ProgressEvent) IsTerminal() bool {
	if e.Status == StatusComplete {
		return true
	}
	return e.Status == StatusError && e.Step == 0
}

// JSON renders the event as its wire form. Marshaling a ProgressEvent cannot
// fail; the error branch exists only to satisfy encoding/json's contract.
func (e ProgressEvent) JSON() string {
	b, err := json.Marshal(e)
	if err != nil {
		return `{"status":"error","error":"event marshal failure"}`
	}
	return string(b)
}
