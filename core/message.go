package core

// Message is one role-attributed entry of an agent's conversation log.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a user-authored message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// AssistantMessage creates an assistant-authored message.
func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// ToolMessage creates a tool-authored message, typically an action result.
func ToolMessage(content string) Message {
	return Message{Role: "tool", Content: content}
}

// MessageLog is the ordered conversation log an agent handle exposes.
// It is not safe for concurrent use; a handle is owned by one invocation.
type MessageLog struct {
	msgs []Message
}

// Reset replaces the log with the given messages. The streaming driver uses
// this to seed a run with the single user prompt.
func (l *MessageLog) Reset(msgs ...Message) {
	l.msgs = append([]Message(nil), msgs...)
}

// Append adds a message to the end of the log.
func (l *MessageLog) Append(m Message) {
	l.msgs = append(l.msgs, m)
}

// Len returns the number of logged messages.
func (l *MessageLog) Len() int { return len(l.msgs) }

// All returns a copy of the logged messages in order.
func (l *MessageLog) All() []Message {
	return append([]Message(nil), l.msgs...)
}

// LastContent scans the last n entries for the most recent message that
// carries both a role and non-empty content, returning its content. The
// boolean is false when no such entry exists. Entries with empty content
// are skipped rather than returned, so callers get their placeholder text
// instead of a blank preview.
func (l *MessageLog) LastContent(n int) (string, bool) {
	start := len(l.msgs) - n
	if start < 0 {
		start = 0
	}
	for i := len(l.msgs) - 1; i >= start; i-- {
		if l.msgs[i].Role != "" && l.msgs[i].Content != "" {
			return l.msgs[i].Content, true
		}
	}
	return "", false
}
