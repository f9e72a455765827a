// Copyright (c) Microsoft. All rights reserved.

package azureopenai

import "github.com/anadi45/langchain-azure-openai/llm"

// completionRequest is the Completions API request body.
type completionRequest struct {
	Model            string         `json:"model,omitempty"`
	Prompt           string         `json:"prompt"`
	MaxTokens        *int           `json:"max_tokens,omitempty"`
	N                int            `json:"n,omitempty"`
	Stop             []string       `json:"stop,omitempty"`
	Temperature      *float64       `json:"temperature,omitempty"`
	TopP             *float64       `json:"top_p,omitempty"`
	PresencePenalty  *float64       `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64       `json:"frequency_penalty,omitempty"`
	BestOf           int            `json:"best_of,omitempty"`
	User             string         `json:"user,omitempty"`
	Stream           bool           `json:"stream,omitempty"`
	StreamOptions    *streamOptions `json:"stream_options,omitempty"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// buildRequest converts configuration and call options into a request for
// a single prompt.
func buildRequest(cfg Config, prompt string, opts *llm.CallOptions, stream bool) *completionRequest {
	req := &completionRequest{
		Prompt:           prompt,
		N:                cfg.N,
		Temperature:      cfg.Temperature,
		TopP:             cfg.TopP,
		PresencePenalty:  cfg.PresencePenalty,
		FrequencyPenalty: cfg.FrequencyPenalty,
		BestOf:           cfg.BestOf,
		User:             cfg.User,
	}
	if !cfg.azure() {
		req.Model = cfg.Model
	}

	maxTokens := cfg.MaxTokens
	if opts != nil {
		if opts.MaxTokens != nil {
			maxTokens = *opts.MaxTokens
		}
		req.Stop = opts.Stop
	}
	// Non-positive caps fall back to the provider default.
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}

	if stream {
		req.Stream = true
		if cfg.streamUsage() {
			req.StreamOptions = &streamOptions{IncludeUsage: true}
		}
	}
	return req
}
