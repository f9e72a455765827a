// Copyright (c) Microsoft. All rights reserved.

package llm

import "strings"

// Generation is one candidate completion for one prompt.
type Generation struct {
	Text string `json:"text"`

	// Info carries provider metadata such as "finish_reason".
	Info map[string]any `json:"generationInfo,omitempty"`
}

// FinishReason returns the provider's finish reason, or "" if absent.
func (g Generation) FinishReason() string {
	s, _ := g.Info["finish_reason"].(string)
	return s
}

// Result is the outcome of a generate call. Generations is indexed as
// [promptIndex][completionIndex], in the order the prompts and candidates
// were requested.
type Result struct {
	Generations [][]Generation `json:"generations"`
	Usage       UsageDetails   `json:"tokenUsage"`
	ModelID     string         `json:"model,omitempty"`
	RunID       string         `json:"runId,omitempty"`
}

// Text returns the text of the first candidate of the first prompt.
func (r *Result) Text() string {
	if r == nil || len(r.Generations) == 0 || len(r.Generations[0]) == 0 {
		return ""
	}
	return r.Generations[0][0].Text
}

// Texts returns the generation texts with the same shape as Generations.
func (r *Result) Texts() [][]string {
	out := make([][]string, len(r.Generations))
	for i, gens := range r.Generations {
		out[i] = make([]string, len(gens))
		for j, g := range gens {
			out[i][j] = g.Text
		}
	}
	return out
}

// GenerationBuilder accumulates streamed fragments into a batch shaped
// [prompts][n]. It is not safe for concurrent use on the same prompt row.
type GenerationBuilder struct {
	text [][]strings.Builder
	info [][]map[string]any
}

// NewGenerationBuilder allocates a builder for prompts × n candidates.
func NewGenerationBuilder(prompts, n int) *GenerationBuilder {
	b := &GenerationBuilder{
		text: make([][]strings.Builder, prompts),
		info: make([][]map[string]any, prompts),
	}
	for i := range b.text {
		b.text[i] = make([]strings.Builder, n)
		b.info[i] = make([]map[string]any, n)
	}
	return b
}

// Append adds a fragment at the given coordinates. It reports false when
// the coordinates fall outside the batch.
func (b *GenerationBuilder) Append(idx TokenIndices, fragment string) bool {
	if !b.inRange(idx) {
		return false
	}
	b.text[idx.Prompt][idx.Completion].WriteString(fragment)
	return true
}

// SetInfo records a metadata key at the given coordinates.
func (b *GenerationBuilder) SetInfo(idx TokenIndices, key string, value any) bool {
	if !b.inRange(idx) {
		return false
	}
	m := b.info[idx.Prompt][idx.Completion]
	if m == nil {
		m = make(map[string]any)
		b.info[idx.Prompt][idx.Completion] = m
	}
	m[key] = value
	return true
}

func (b *GenerationBuilder) inRange(idx TokenIndices) bool {
	return idx.Prompt >= 0 && idx.Prompt < len(b.text) &&
		idx.Completion >= 0 && idx.Completion < len(b.text[idx.Prompt])
}

// Generations returns the accumulated batch.
func (b *GenerationBuilder) Generations() [][]Generation {
	out := make([][]Generation, len(b.text))
	for i := range b.text {
		out[i] = make([]Generation, len(b.text[i]))
		for j := range b.text[i] {
			out[i][j] = Generation{Text: b.text[i][j].String(), Info: b.info[i][j]}
		}
	}
	return out
}
