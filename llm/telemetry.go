// Copyright (c) Microsoft. All rights reserved.

package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingMiddleware returns a [GenerateMiddleware] that logs generate runs using slog.
func LoggingMiddleware(logger *slog.Logger) GenerateMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next GenerateHandler) GenerateHandler {
		return func(ctx context.Context, prompts []string, opts *CallOptions) (*Result, error) {
			start := time.Now()
			attrs := []any{"prompt_count", len(prompts)}
			if opts != nil {
				for k, v := range opts.Metadata {
					attrs = append(attrs, k, v)
				}
			}
			logger.InfoContext(ctx, "generate started", attrs...)

			res, err := next(ctx, prompts, opts)

			duration := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "generate failed",
					"duration", duration,
					"error", err,
				)
				return nil, err
			}

			logger.InfoContext(ctx, "generate completed",
				"duration", duration,
				"run_id", res.RunID,
				"prompt_tokens", res.Usage.PromptTokens,
				"completion_tokens", res.Usage.CompletionTokens,
			)
			return res, nil
		}
	}
}
