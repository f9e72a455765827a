// Copyright (c) Microsoft. All rights reserved.

package azureopenai

import (
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/anadi45/langchain-azure-openai/llm"
)

// clientConfig holds everything [New] assembles before freezing a Client.
type clientConfig struct {
	cfg        Config
	httpClient *http.Client
	headers    map[string]string
	handlers   []llm.Handler
	middleware []llm.GenerateMiddleware
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*clientConfig)

// WithConfig replaces the whole [Config]. Options after it still apply.
func WithConfig(cfg Config) Option {
	return func(c *clientConfig) { c.cfg = cfg }
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.cfg.Model = model }
}

// WithDeployment sets the Azure deployment name.
func WithDeployment(name string) Option {
	return func(c *clientConfig) { c.cfg.Deployment = name }
}

// WithEndpoint sets the Azure resource endpoint or an OpenAI-compatible base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) { c.cfg.Endpoint = endpoint }
}

// WithAPIVersion overrides the Azure api-version.
func WithAPIVersion(v string) Option {
	return func(c *clientConfig) { c.cfg.APIVersion = v }
}

// WithMaxTokens caps output tokens. Non-positive values mean provider default.
func WithMaxTokens(n int) Option {
	return func(c *clientConfig) { c.cfg.MaxTokens = n }
}

// WithMaxConcurrency bounds simultaneously outstanding provider requests.
func WithMaxConcurrency(n int) Option {
	return func(c *clientConfig) { c.cfg.MaxConcurrency = n }
}

// WithN sets the number of candidate completions per prompt.
func WithN(n int) Option {
	return func(c *clientConfig) { c.cfg.N = n }
}

// WithStreaming enables streamed delivery and token events.
func WithStreaming(on bool) Option {
	return func(c *clientConfig) { c.cfg.Streaming = on }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *clientConfig) { c.cfg.Temperature = &t }
}

// WithTopP sets nucleus sampling.
func WithTopP(p float64) Option {
	return func(c *clientConfig) { c.cfg.TopP = &p }
}

// WithTimeout sets the default per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.cfg.Timeout = d }
}

// WithCredential sets the credential used to authorise requests.
func WithCredential(cred Credential) Option {
	return func(c *clientConfig) { c.cfg.Credential = cred }
}

// WithHTTPClient provides a custom http.Client for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithHeaders adds custom headers to every request. The map is copied.
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) { c.headers = maps.Clone(headers) }
}

// WithHandlers registers observers notified on every call, in order.
func WithHandlers(hs ...llm.Handler) Option {
	return func(c *clientConfig) { c.handlers = append(c.handlers, hs...) }
}

// WithMiddleware adds middleware to the generate pipeline.
// Middleware is applied in the order provided (first = outermost).
func WithMiddleware(mw ...llm.GenerateMiddleware) Option {
	return func(c *clientConfig) { c.middleware = append(c.middleware, mw...) }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}
