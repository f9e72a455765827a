// Copyright (c) Microsoft. All rights reserved.

package azureopenai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/anadi45/langchain-azure-openai/llm"
)

// transport is an unexported interface for HTTP communication.
// The default implementation uses net/http; tests inject a fake.
type transport interface {
	do(ctx context.Context, body *completionRequest) (*http.Response, error)
}

// httpTransport is the default transport using net/http.
type httpTransport struct {
	client  *http.Client
	url     string
	auth    *authorizer
	headers map[string]string
	logger  *slog.Logger
}

func newHTTPTransport(cc *clientConfig) *httpTransport {
	t := &httpTransport{
		client:  cc.httpClient,
		url:     completionsURL(cc.cfg),
		auth:    &authorizer{cred: cc.cfg.Credential, logger: cc.logger},
		headers: maps.Clone(cc.headers),
		logger:  cc.logger,
	}
	if t.client == nil {
		t.client = http.DefaultClient
	}
	return t
}

// completionsURL returns the Completions endpoint for cfg: the deployment
// route for Azure, or {base}/completions for OpenAI-style endpoints.
func completionsURL(cfg Config) string {
	base := strings.TrimRight(cfg.Endpoint, "/")
	if !cfg.azure() {
		if base == "" {
			base = defaultOpenAIBaseURL
		}
		return base + "/completions"
	}
	return base + "/openai/deployments/" + url.PathEscape(cfg.Deployment) +
		"/completions?api-version=" + url.QueryEscape(cfg.APIVersion)
}

func (t *httpTransport) do(ctx context.Context, body *completionRequest) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	auth, err := t.auth.authorize(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-ms-client-request-id", requestID)
	req.Header.Set(auth.header, auth.value)
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	if body.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	t.logger.DebugContext(ctx, "sending completion request",
		"request_id", requestID,
		"stream", body.Stream,
		"n", body.N,
	)

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, llm.ContextError(ctx, ctx.Err())
		}
		return nil, fmt.Errorf("%w: http request: %v", llm.ErrProvider, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, parseErrorResponse(resp)
	}

	return resp, nil
}

// parseErrorResponse reads an error response body and returns a typed error.
func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    any    `json:"code"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)

	msg := apiErr.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	code := ""
	if apiErr.Error.Code != nil {
		code = fmt.Sprint(apiErr.Error.Code)
	}

	perr := &llm.ProviderError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Code:       code,
	}

	switch {
	case code == "content_filter":
		perr.Err = llm.ErrContentFilter
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		perr.Err = llm.ErrAuthentication
	case resp.StatusCode == http.StatusTooManyRequests:
		perr.Err = llm.ErrRateLimited
	case resp.StatusCode == http.StatusBadRequest:
		perr.Err = llm.ErrInvalidRequest
	default:
		perr.Err = llm.ErrProvider
	}

	return perr
}
