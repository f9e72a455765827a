// Copyright (c) Microsoft. All rights reserved.

package llm_test

import (
	"testing"

	"github.com/anadi45/langchain-azure-openai/llm"
)

func TestMessagesPromptValue(t *testing.T) {
	v := llm.MessagesPromptValue{
		llm.NewSystemMessage("You are terse."),
		llm.NewUserMessage("Print hello world"),
		llm.NewAssistantMessage("hello world"),
	}
	want := "System: You are terse.\nHuman: Print hello world\nAI: hello world"
	if got := v.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRenderPrompts(t *testing.T) {
	got := llm.RenderPrompts([]llm.PromptValue{
		llm.StringPromptValue("plain"),
		nil,
		llm.MessagesPromptValue{llm.NewUserMessage("hi")},
	})
	want := []string{"plain", "", "Human: hi"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
