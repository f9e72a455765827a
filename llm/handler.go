// Copyright (c) Microsoft. All rights reserved.

package llm

import (
	"context"
	"sync"
)

// TokenIndices locates a streamed fragment within a generate batch.
type TokenIndices struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
}

// TokenEvent carries one streamed text fragment.
type TokenEvent struct {
	Text    string
	Indices TokenIndices
	RunID   string
}

// RunInfo describes a generate run to observers.
type RunInfo struct {
	RunID   string
	Model   string
	Prompts []string
	Stream  bool
}

// Handler observes the lifecycle of generate runs. Implementations are
// invoked synchronously, so they should return quickly.
type Handler interface {
	OnStart(ctx context.Context, run RunInfo)
	OnToken(ctx context.Context, ev TokenEvent)
	OnEnd(ctx context.Context, res *Result)
	OnError(ctx context.Context, run RunInfo, err error)
}

// HandlerFuncs adapts a set of optional functions into a [Handler].
// Nil fields are skipped.
type HandlerFuncs struct {
	Start func(ctx context.Context, run RunInfo)
	Token func(ctx context.Context, ev TokenEvent)
	End   func(ctx context.Context, res *Result)
	Error func(ctx context.Context, run RunInfo, err error)
}

var _ Handler = HandlerFuncs{}

// OnStart calls h.Start if set.
func (h HandlerFuncs) OnStart(ctx context.Context, run RunInfo) {
	if h.Start != nil {
		h.Start(ctx, run)
	}
}

// OnToken calls h.Token if set.
func (h HandlerFuncs) OnToken(ctx context.Context, ev TokenEvent) {
	if h.Token != nil {
		h.Token(ctx, ev)
	}
}

// OnEnd calls h.End if set.
func (h HandlerFuncs) OnEnd(ctx context.Context, res *Result) {
	if h.End != nil {
		h.End(ctx, res)
	}
}

// OnError calls h.Error if set.
func (h HandlerFuncs) OnError(ctx context.Context, run RunInfo, err error) {
	if h.Error != nil {
		h.Error(ctx, run, err)
	}
}

// Dispatcher fans events out to handlers in registration order. Calls are
// serialised, so a handler is never entered concurrently even when several
// prompts stream at once.
type Dispatcher struct {
	mu       sync.Mutex
	handlers []Handler
}

// NewDispatcher returns a Dispatcher over the given handlers. Nil entries
// are dropped.
func NewDispatcher(handlers ...Handler) *Dispatcher {
	d := &Dispatcher{handlers: make([]Handler, 0, len(handlers))}
	for _, h := range handlers {
		if h != nil {
			d.handlers = append(d.handlers, h)
		}
	}
	return d
}

// Len reports the number of registered handlers.
func (d *Dispatcher) Len() int { return len(d.handlers) }

// Start notifies every handler that a run has begun.
func (d *Dispatcher) Start(ctx context.Context, run RunInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.handlers {
		h.OnStart(ctx, run)
	}
}

// Token delivers a streamed fragment to every handler.
func (d *Dispatcher) Token(ctx context.Context, ev TokenEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.handlers {
		h.OnToken(ctx, ev)
	}
}

// End delivers the final result to every handler.
func (d *Dispatcher) End(ctx context.Context, res *Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.handlers {
		h.OnEnd(ctx, res)
	}
}

// Error reports a failed run to every handler.
func (d *Dispatcher) Error(ctx context.Context, run RunInfo, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.handlers {
		h.OnError(ctx, run, err)
	}
}
