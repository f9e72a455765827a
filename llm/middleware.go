// Copyright (c) Microsoft. All rights reserved.

package llm

import "context"

// GenerateHandler is the function signature for processing a generate call.
type GenerateHandler func(ctx context.Context, prompts []string, opts *CallOptions) (*Result, error)

// GenerateMiddleware wraps a [GenerateHandler] to add cross-cutting behavior.
// Middleware should call next to continue the chain, or return early to short-circuit.
type GenerateMiddleware func(next GenerateHandler) GenerateHandler

// ChainGenerateMiddleware applies middleware in order (first in list = outermost wrapper).
func ChainGenerateMiddleware(handler GenerateHandler, mws ...GenerateMiddleware) GenerateHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}
