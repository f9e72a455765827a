// Copyright (c) Microsoft. All rights reserved.

package llm

import "strings"

// Role identifies the author of a [Message].
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single conversational turn rendered into a completion prompt.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// NewUserMessage creates a user-role [Message].
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// NewAssistantMessage creates an assistant-role [Message].
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}

// NewSystemMessage creates a system-role [Message].
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Text: text}
}

func (r Role) prefix() string {
	switch r {
	case RoleUser:
		return "Human"
	case RoleAssistant:
		return "AI"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// PromptValue is anything that can be rendered into a completion prompt.
type PromptValue interface {
	String() string
}

// StringPromptValue is a prompt that is already plain text.
type StringPromptValue string

func (v StringPromptValue) String() string { return string(v) }

// MessagesPromptValue renders a conversation as "Role: text" lines.
type MessagesPromptValue []Message

func (v MessagesPromptValue) String() string {
	var b strings.Builder
	for i, m := range v {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Role.prefix())
		b.WriteString(": ")
		b.WriteString(m.Text)
	}
	return b.String()
}

// RenderPrompts converts prompt values into their string form.
func RenderPrompts(values []PromptValue) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if v != nil {
			out[i] = v.String()
		}
	}
	return out
}
