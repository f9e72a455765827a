// Copyright (c) Microsoft. All rights reserved.

package azureopenai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/anadi45/langchain-azure-openai/llm"
)

// completionResponse is both the Completions API response and a single
// SSE chunk in streaming mode.
type completionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Text         string          `json:"text"`
	Index        int             `json:"index"`
	FinishReason *string         `json:"finish_reason"`
	Logprobs     json.RawMessage `json:"logprobs,omitempty"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (u *usage) details() llm.UsageDetails {
	if u == nil {
		return llm.UsageDetails{}
	}
	return llm.UsageDetails{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

// unmarshalCompletion parses a JSON response body.
func unmarshalCompletion(data []byte) (*completionResponse, error) {
	var resp completionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// collectChoices writes every choice of resp into row prompt of b.
func collectChoices(b *llm.GenerationBuilder, prompt int, resp *completionResponse) error {
	for _, c := range resp.Choices {
		idx := llm.TokenIndices{Prompt: prompt, Completion: c.Index}
		if !b.Append(idx, c.Text) {
			return fmt.Errorf("%w: choice index %d out of range", llm.ErrInvalidResponse, c.Index)
		}
		recordChoiceInfo(b, idx, c)
	}
	return nil
}

func recordChoiceInfo(b *llm.GenerationBuilder, idx llm.TokenIndices, c choice) {
	if c.FinishReason != nil && *c.FinishReason != "" {
		b.SetInfo(idx, "finish_reason", *c.FinishReason)
	}
	if len(c.Logprobs) > 0 && string(c.Logprobs) != "null" {
		b.SetInfo(idx, "logprobs", c.Logprobs)
	}
}

// parseSSEStream reads server-sent events from r and hands each parsed
// chunk to fn in arrival order. It returns when the stream is exhausted
// ([DONE] or EOF), ctx is cancelled, fn fails, or a chunk is malformed.
func parseSSEStream(ctx context.Context, r io.Reader, fn func(*completionResponse) error) error {
	scanner := bufio.NewScanner(r)
	// Allow large SSE lines (logprobs can be substantial).
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return llm.ContextError(ctx, err)
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		// Stream terminator.
		if data == "[DONE]" {
			return nil
		}

		chunk, err := unmarshalCompletion([]byte(data))
		if err != nil {
			return fmt.Errorf("%w: parse stream chunk: %v", llm.ErrInvalidResponse, err)
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return llm.ContextError(ctx, ctx.Err())
		}
		return fmt.Errorf("%w: read stream: %v", llm.ErrProvider, err)
	}
	if err := ctx.Err(); err != nil {
		return llm.ContextError(ctx, err)
	}
	return nil
}
