// Copyright (c) Microsoft. All rights reserved.

package llm

import (
	"context"
	"sync"
)

// Producer fills a [ResponseStream]. It sends values on out until it is done
// or ctx is cancelled, and returns the reason it stopped.
type Producer[T any] func(ctx context.Context, out chan<- T) error

// ResponseStream is a pull iterator over values produced in the background,
// typically streamed completion fragments.
//
// The consumer calls Next until ok is false or an error is returned, and
// must Close the stream afterwards. Close may be called at any point; the
// producer is cancelled and any unread values are dropped.
type ResponseStream[T any] struct {
	ctx    context.Context
	stop   context.CancelFunc
	items  <-chan T
	result <-chan error

	closed sync.Once
	done   bool
	err    error
}

// NewResponseStream starts produce in its own goroutine. The producer's
// context is derived from ctx and is cancelled by Close.
func NewResponseStream[T any](ctx context.Context, produce Producer[T]) *ResponseStream[T] {
	ctx, stop := context.WithCancel(ctx)
	items := make(chan T, 1)
	result := make(chan error, 1)

	go func() {
		defer close(items)
		result <- produce(ctx, items)
	}()

	return &ResponseStream[T]{
		ctx:    ctx,
		stop:   stop,
		items:  items,
		result: result,
	}
}

// Next returns the next value. ok is false once the producer has finished;
// err then holds its failure, if any. Errors are sticky.
//
// After ctx or the stream's own context is done, Next fails with
// [ErrCancelled] or [ErrTimeout] even if values are still buffered.
func (s *ResponseStream[T]) Next(ctx context.Context) (val T, ok bool, err error) {
	if s.done {
		return val, false, s.err
	}
	if err := s.check(ctx); err != nil {
		return val, false, err
	}

	select {
	case <-ctx.Done():
		s.err = ContextError(ctx, ctx.Err())
		return val, false, s.err

	case v, more := <-s.items:
		if !more {
			s.done = true
			if perr := <-s.result; perr != nil {
				s.err = ContextError(s.ctx, perr)
			}
			return val, false, s.err
		}
		if err := s.check(ctx); err != nil {
			return val, false, err
		}
		return v, true, nil
	}
}

// Err returns the error that ended the stream, if any.
func (s *ResponseStream[T]) Err() error { return s.err }

func (s *ResponseStream[T]) check(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	switch {
	case ctx.Err() != nil:
		s.err = ContextError(ctx, ctx.Err())
	case s.ctx.Err() != nil:
		s.err = ContextError(s.ctx, s.ctx.Err())
	}
	return s.err
}

// Collect reads the remaining values. On failure it returns the values read
// so far together with the error.
func (s *ResponseStream[T]) Collect(ctx context.Context) ([]T, error) {
	var all []T
	for {
		v, ok, err := s.Next(ctx)
		if err != nil {
			return all, err
		}
		if !ok {
			return all, nil
		}
		all = append(all, v)
	}
}

// Close cancels the producer and waits for it to return. It is safe to call
// more than once.
func (s *ResponseStream[T]) Close() error {
	s.closed.Do(func() {
		s.stop()
		for range s.items {
		}
	})
	return nil
}
