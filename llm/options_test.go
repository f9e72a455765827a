// Copyright (c) Microsoft. All rights reserved.

package llm_test

import (
	"context"
	"testing"
	"time"

	"github.com/anadi45/langchain-azure-openai/llm"
)

func TestMergeCallOptions_BothNil(t *testing.T) {
	merged := llm.MergeCallOptions(nil, nil)
	if merged == nil {
		t.Fatal("expected non-nil result")
	}
}

func TestMergeCallOptions_NilBase(t *testing.T) {
	override := &llm.CallOptions{Stop: []string{"world"}}
	merged := llm.MergeCallOptions(nil, override)

	if len(merged.Stop) != 1 || merged.Stop[0] != "world" {
		t.Errorf("Stop = %v", merged.Stop)
	}
	if merged == override {
		t.Error("merge should copy, not alias, the override")
	}
}

func TestMergeCallOptions_OverrideWins(t *testing.T) {
	maxTok := 5
	base := &llm.CallOptions{
		Stop:     []string{"a"},
		Timeout:  time.Second,
		Metadata: map[string]string{"k1": "base", "k2": "base"},
	}
	override := &llm.CallOptions{
		Stop:      []string{"b"},
		MaxTokens: &maxTok,
		Metadata:  map[string]string{"k2": "override"},
	}
	merged := llm.MergeCallOptions(base, override)

	if merged.Stop[0] != "b" {
		t.Errorf("Stop = %v, want [b]", merged.Stop)
	}
	if merged.Timeout != time.Second {
		t.Errorf("Timeout = %v, want base value", merged.Timeout)
	}
	if merged.MaxTokens == nil || *merged.MaxTokens != 5 {
		t.Errorf("MaxTokens = %v", merged.MaxTokens)
	}
	if merged.Metadata["k1"] != "base" || merged.Metadata["k2"] != "override" {
		t.Errorf("Metadata = %v", merged.Metadata)
	}
	if base.Metadata["k2"] != "base" {
		t.Error("base metadata must not be mutated")
	}
}

func TestMergeCallOptions_HandlersAppended(t *testing.T) {
	var order []string
	h := func(name string) llm.Handler {
		return llm.HandlerFuncs{Start: func(context.Context, llm.RunInfo) { order = append(order, name) }}
	}
	base := &llm.CallOptions{Handlers: []llm.Handler{h("base")}}
	override := &llm.CallOptions{Handlers: []llm.Handler{h("override")}}

	merged := llm.MergeCallOptions(base, override)
	llm.NewDispatcher(merged.Handlers...).Start(context.Background(), llm.RunInfo{})

	if len(order) != 2 || order[0] != "base" || order[1] != "override" {
		t.Errorf("order = %v", order)
	}
	if len(base.Handlers) != 1 {
		t.Errorf("base handlers mutated: %d", len(base.Handlers))
	}
}
