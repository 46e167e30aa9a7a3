// Package history holds the conversation transcript model shared by the
// classifier and answer pipelines. The transcript itself is owned by the
// caller (CLI session, UI layer); this package only reads it.
package history

import "strings"

// Role identifies who produced a message.
type Role string

const (
	// RoleUser marks a message typed by the user.
	RoleUser Role = "user"
	// RoleAssistant marks a message produced by the assistant.
	RoleAssistant Role = "assistant"
)

// Message is a single conversational turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// User builds a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant builds an assistant message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Format renders an ordered transcript into the text block the prompts
// consume: one "Human: ..." or "Assistant: ..." line per message, in the
// original order. Messages with an unknown role are skipped. An empty
// transcript yields the empty string.
func Format(messages []Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			sb.WriteString("Human: ")
		case RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			continue
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
