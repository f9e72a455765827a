// Copyright (c) Microsoft. All rights reserved.

package llm

import "time"

// CallOptions configures a single invocation. Options are scoped to the call
// they are passed to and never written back into client configuration.
// Cancellation is carried by the context passed alongside them.
type CallOptions struct {
	// Stop lists sequences at which the provider stops generating.
	Stop []string

	// Timeout bounds the whole call. Zero means no per-call timeout.
	Timeout time.Duration

	// MaxTokens overrides the client's output token cap. Nil keeps the
	// client value; a non-positive value means provider default.
	MaxTokens *int

	// Handlers are per-call observers, notified after the client's own.
	Handlers []Handler

	// Metadata is attached to log records for this call.
	Metadata map[string]string
}

// MergeCallOptions produces a new CallOptions by overlaying override values
// onto base. Nil or zero-value fields in override do not overwrite base.
// Handlers are appended, and Metadata is merged with override keys winning.
// Neither input is modified.
func MergeCallOptions(base, override *CallOptions) *CallOptions {
	if base == nil {
		if override == nil {
			return &CallOptions{}
		}
		cp := *override
		return &cp
	}
	if override == nil {
		cp := *base
		return &cp
	}

	merged := *base

	if len(override.Stop) > 0 {
		merged.Stop = override.Stop
	}
	if override.Timeout > 0 {
		merged.Timeout = override.Timeout
	}
	if override.MaxTokens != nil {
		merged.MaxTokens = override.MaxTokens
	}

	if len(override.Handlers) > 0 {
		hs := make([]Handler, 0, len(base.Handlers)+len(override.Handlers))
		hs = append(hs, base.Handlers...)
		merged.Handlers = append(hs, override.Handlers...)
	}

	if len(override.Metadata) > 0 {
		md := make(map[string]string, len(base.Metadata)+len(override.Metadata))
		for k, v := range base.Metadata {
			md[k] = v
		}
		for k, v := range override.Metadata {
			md[k] = v
		}
		merged.Metadata = md
	}

	return &merged
}
