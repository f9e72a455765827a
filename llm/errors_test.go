// Copyright (c) Microsoft. All rights reserved.

package llm_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anadi45/langchain-azure-openai/llm"
)

func TestErrorSentinelChain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		match  bool
	}{
		{"ErrContentFilter wraps ErrProvider", llm.ErrContentFilter, llm.ErrProvider, true},
		{"ErrInvalidRequest wraps ErrProvider", llm.ErrInvalidRequest, llm.ErrProvider, true},
		{"ErrInvalidResponse wraps ErrProvider", llm.ErrInvalidResponse, llm.ErrProvider, true},
		{"ErrRateLimited wraps ErrProvider", llm.ErrRateLimited, llm.ErrProvider, true},
		{"ErrTimeout does not wrap ErrCancelled", llm.ErrTimeout, llm.ErrCancelled, false},
		{"ErrAuthentication does not wrap ErrProvider", llm.ErrAuthentication, llm.ErrProvider, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := errors.Is(tc.err, tc.target); got != tc.match {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tc.err, tc.target, got, tc.match)
			}
		})
	}
}

func TestProviderError(t *testing.T) {
	perr := &llm.ProviderError{
		StatusCode: 429,
		Message:    "rate limited",
		Code:       "429",
		Err:        llm.ErrRateLimited,
	}

	if perr.Error() == "" {
		t.Fatal("error message should not be empty")
	}
	if !errors.Is(perr, llm.ErrProvider) {
		t.Error("ProviderError should transitively wrap ErrProvider")
	}

	wrapped := fmt.Errorf("generate: %w", perr)
	var extracted *llm.ProviderError
	if !errors.As(wrapped, &extracted) {
		t.Fatal("errors.As should extract ProviderError")
	}
	if extracted.StatusCode != 429 {
		t.Errorf("StatusCode = %d", extracted.StatusCode)
	}
}

func TestContextError_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := llm.ContextError(ctx, fmt.Errorf("http request: %w", ctx.Err()))
	if !errors.Is(err, llm.ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
	if errors.Is(err, llm.ErrTimeout) {
		t.Errorf("err = %v, should not be ErrTimeout", err)
	}
}

func TestContextError_CallTimeout(t *testing.T) {
	ctx, cancel := llm.WithCallTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	err := llm.ContextError(ctx, ctx.Err())
	if !errors.Is(err, llm.ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestContextError_ParentDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	err := llm.ContextError(ctx, ctx.Err())
	if !errors.Is(err, llm.ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestContextError_Unrelated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	other := errors.New("boom")
	if got := llm.ContextError(ctx, other); got != other {
		t.Errorf("got %v, want unrelated error unchanged", got)
	}
	if got := llm.ContextError(ctx, nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestWithCallTimeout_Zero(t *testing.T) {
	parent := context.Background()
	ctx, cancel := llm.WithCallTimeout(parent, 0)
	defer cancel()
	if ctx != parent {
		t.Error("zero timeout should return the parent context")
	}
	if _, ok := ctx.Deadline(); ok {
		t.Error("zero timeout should not set a deadline")
	}
}
