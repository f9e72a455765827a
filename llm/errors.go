// Copyright (c) Microsoft. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrConfiguration indicates missing or invalid client setup. It is
	// returned synchronously from client constructors.
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthentication indicates that no usable credential was available
	// at dispatch time, or that the provider rejected it.
	ErrAuthentication = errors.New("authentication error")

	// ErrTimeout indicates the call did not complete within its timeout.
	ErrTimeout = errors.New("timeout")

	// ErrCancelled indicates the caller aborted the call.
	ErrCancelled = errors.New("cancelled")

	// ErrProvider is the base error for completion provider failures.
	ErrProvider = errors.New("provider error")

	// ErrContentFilter indicates the request was rejected by a content filter.
	ErrContentFilter = fmt.Errorf("%w: content filter", ErrProvider)

	// ErrInvalidRequest indicates the provider considered the request malformed.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", ErrProvider)

	// ErrInvalidResponse indicates the provider returned an unexpected payload.
	ErrInvalidResponse = fmt.Errorf("%w: invalid response", ErrProvider)

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrProvider)
)

// ProviderError provides rich context for remote provider failures.
// Use errors.As to extract it from a wrapped error chain.
type ProviderError struct {
	StatusCode int
	Message    string
	Code       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// errCallTimeout is the cancellation cause attached by [WithCallTimeout].
var errCallTimeout = fmt.Errorf("%w: call exceeded its timeout", ErrTimeout)

// WithCallTimeout derives a context that expires after d. A non-positive d
// returns ctx unchanged with a no-op cancel. Expiry is reported by
// [ContextError] as [ErrTimeout] rather than [ErrCancelled].
func WithCallTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeoutCause(ctx, d, errCallTimeout)
}

// ContextError translates a context failure into the package taxonomy.
// Errors that did not originate from a done context are returned unchanged.
func ContextError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrCancelled) {
		return err
	}
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if cause := context.Cause(ctx); cause != nil {
		switch {
		case errors.Is(cause, ErrTimeout):
			return cause
		case errors.Is(cause, context.DeadlineExceeded):
			return fmt.Errorf("%w: %w", ErrTimeout, cause)
		default:
			return fmt.Errorf("%w: %w", ErrCancelled, cause)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}
