// Copyright (c) Microsoft. All rights reserved.

package llm_test

import (
	"testing"

	"github.com/anadi45/langchain-azure-openai/llm"
)

func TestGenerationBuilder_Shape(t *testing.T) {
	b := llm.NewGenerationBuilder(2, 2)

	// Arrival order deliberately interleaves coordinates.
	frags := []struct {
		idx  llm.TokenIndices
		text string
	}{
		{llm.TokenIndices{Prompt: 1, Completion: 1}, "sea"},
		{llm.TokenIndices{Prompt: 0, Completion: 0}, "hello"},
		{llm.TokenIndices{Prompt: 0, Completion: 1}, "hi"},
		{llm.TokenIndices{Prompt: 0, Completion: 0}, " world"},
		{llm.TokenIndices{Prompt: 1, Completion: 0}, "ocean"},
	}
	for _, f := range frags {
		if !b.Append(f.idx, f.text) {
			t.Fatalf("append %v rejected", f.idx)
		}
	}
	b.SetInfo(llm.TokenIndices{Prompt: 0, Completion: 0}, "finish_reason", "stop")

	res := &llm.Result{Generations: b.Generations()}
	want := [][]string{{"hello world", "hi"}, {"ocean", "sea"}}
	got := res.Texts()
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("[%d][%d] = %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
	if res.Text() != "hello world" {
		t.Errorf("Text = %q", res.Text())
	}
	if fr := res.Generations[0][0].FinishReason(); fr != "stop" {
		t.Errorf("FinishReason = %q", fr)
	}
	if fr := res.Generations[1][0].FinishReason(); fr != "" {
		t.Errorf("FinishReason = %q, want empty", fr)
	}
}

func TestGenerationBuilder_OutOfRange(t *testing.T) {
	b := llm.NewGenerationBuilder(1, 1)
	for _, idx := range []llm.TokenIndices{{Prompt: 1}, {Completion: 1}, {Prompt: -1}} {
		if b.Append(idx, "x") {
			t.Errorf("Append(%v) accepted", idx)
		}
		if b.SetInfo(idx, "k", "v") {
			t.Errorf("SetInfo(%v) accepted", idx)
		}
	}
}

func TestResult_TextEmpty(t *testing.T) {
	var r *llm.Result
	if r.Text() != "" {
		t.Error("nil result should have empty text")
	}
	if (&llm.Result{}).Text() != "" {
		t.Error("empty result should have empty text")
	}
}

func TestUsageDetails_Add(t *testing.T) {
	u := llm.UsageDetails{PromptTokens: 1, CompletionTokens: 5, TotalTokens: 6}
	sum := u.Add(llm.UsageDetails{PromptTokens: 2, CompletionTokens: 3, TotalTokens: 5})
	if sum.PromptTokens != 3 || sum.CompletionTokens != 8 || sum.TotalTokens != 11 {
		t.Errorf("sum = %+v", sum)
	}
}

func TestPromptValues(t *testing.T) {
	values := []llm.PromptValue{
		llm.StringPromptValue("Print hello world"),
		llm.MessagesPromptValue{
			llm.NewSystemMessage("Be brief."),
			llm.NewUserMessage("Hi"),
			llm.NewAssistantMessage("Hello"),
		},
		nil,
	}
	got := llm.RenderPrompts(values)
	want := []string{
		"Print hello world",
		"System: Be brief.\nHuman: Hi\nAI: Hello",
		"",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
