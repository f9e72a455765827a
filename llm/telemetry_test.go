// Copyright (c) Microsoft. All rights reserved.

package llm_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/anadi45/langchain-azure-openai/llm"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := llm.ChainGenerateMiddleware(
		func(ctx context.Context, prompts []string, opts *llm.CallOptions) (*llm.Result, error) {
			return &llm.Result{
				RunID: "run-1",
				Usage: llm.UsageDetails{PromptTokens: 3, CompletionTokens: 4, TotalTokens: 7},
			}, nil
		},
		llm.LoggingMiddleware(logger),
	)

	_, err := handler(context.Background(), []string{"a", "b"}, &llm.CallOptions{
		Metadata: map[string]string{"tenant": "acme"},
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"generate started", "prompt_count=2", "tenant=acme",
		"generate completed", "run_id=run-1", "completion_tokens=4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLoggingMiddleware_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := llm.ChainGenerateMiddleware(
		func(ctx context.Context, prompts []string, opts *llm.CallOptions) (*llm.Result, error) {
			return nil, llm.ErrRateLimited
		},
		llm.LoggingMiddleware(logger),
	)

	_, err := handler(context.Background(), []string{"a"}, nil)
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if !strings.Contains(buf.String(), "generate failed") {
		t.Errorf("expected failure log, got:\n%s", buf.String())
	}
}
