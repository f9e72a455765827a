// Copyright (c) Microsoft. All rights reserved.

package llm_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/anadi45/langchain-azure-openai/llm"
)

func TestDispatcher_RegistrationOrder(t *testing.T) {
	var order []string
	record := func(name string) llm.Handler {
		return llm.HandlerFuncs{
			Start: func(context.Context, llm.RunInfo) { order = append(order, name+":start") },
			Token: func(context.Context, llm.TokenEvent) { order = append(order, name+":token") },
			End:   func(context.Context, *llm.Result) { order = append(order, name+":end") },
		}
	}

	d := llm.NewDispatcher(record("a"), nil, record("b"))
	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (nil dropped)", d.Len())
	}

	ctx := context.Background()
	d.Start(ctx, llm.RunInfo{RunID: "r"})
	d.Token(ctx, llm.TokenEvent{Text: "x"})
	d.End(ctx, &llm.Result{})

	want := []string{"a:start", "b:start", "a:token", "b:token", "a:end", "b:end"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestDispatcher_ErrorAndNilFuncs(t *testing.T) {
	var got error
	d := llm.NewDispatcher(llm.HandlerFuncs{
		Error: func(_ context.Context, _ llm.RunInfo, err error) { got = err },
	})

	ctx := context.Background()
	// Unset callbacks are no-ops.
	d.Start(ctx, llm.RunInfo{})
	d.Token(ctx, llm.TokenEvent{})
	d.End(ctx, nil)

	d.Error(ctx, llm.RunInfo{}, llm.ErrTimeout)
	if !errors.Is(got, llm.ErrTimeout) {
		t.Errorf("got %v, want ErrTimeout", got)
	}
}

func TestDispatcher_SerialisesHandlers(t *testing.T) {
	var (
		inside int
		maxIn  int
		count  int
	)
	h := llm.HandlerFuncs{
		Token: func(context.Context, llm.TokenEvent) {
			// Unsynchronised on purpose: the dispatcher must serialise calls.
			inside++
			if inside > maxIn {
				maxIn = inside
			}
			count++
			inside--
		},
	}
	d := llm.NewDispatcher(h)

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				d.Token(context.Background(), llm.TokenEvent{Indices: llm.TokenIndices{Prompt: p}})
			}
		}(p)
	}
	wg.Wait()

	if count != 800 {
		t.Errorf("count = %d, want 800", count)
	}
	if maxIn != 1 {
		t.Errorf("handler entered concurrently (max depth %d)", maxIn)
	}
}
