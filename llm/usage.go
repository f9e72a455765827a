// Copyright (c) Microsoft. All rights reserved.

package llm

// UsageDetails holds token consumption statistics for a single call.
type UsageDetails struct {
	PromptTokens     int `json:"promptTokens,omitempty"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens,omitempty"`
}

// Add returns the element-wise sum of u and o.
func (u UsageDetails) Add(o UsageDetails) UsageDetails {
	return UsageDetails{
		PromptTokens:     u.PromptTokens + o.PromptTokens,
		CompletionTokens: u.CompletionTokens + o.CompletionTokens,
		TotalTokens:      u.TotalTokens + o.TotalTokens,
	}
}
