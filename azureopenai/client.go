// Copyright (c) Microsoft. All rights reserved.

package azureopenai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/anadi45/langchain-azure-openai/llm"
)

// Client sends prompts to a Completions endpoint. Its configuration is fixed
// at construction; it is safe for concurrent use.
type Client struct {
	cfg      Config
	tp       transport
	sem      *semaphore.Weighted
	handlers []llm.Handler
	handler  llm.GenerateHandler
	logger   *slog.Logger
}

// New creates a [Client]. It fails with [llm.ErrConfiguration] when the
// configuration is incomplete for the chosen credential.
func New(opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o(cc)
	}
	if cc.logger == nil {
		cc.logger = slog.Default()
	}
	cc.cfg = cc.cfg.withDefaults()
	if err := cc.cfg.Validate(); err != nil {
		return nil, err
	}
	return newClient(cc, newHTTPTransport(cc)), nil
}

func newClient(cc *clientConfig, tp transport) *Client {
	c := &Client{
		cfg:      cc.cfg.clone(),
		tp:       tp,
		handlers: append([]llm.Handler(nil), cc.handlers...),
		logger:   cc.logger,
	}
	if cc.cfg.MaxConcurrency > 0 {
		c.sem = semaphore.NewWeighted(int64(cc.cfg.MaxConcurrency))
	}
	c.handler = llm.ChainGenerateMiddleware(c.generate, cc.middleware...)
	return c
}

// Config returns a copy of the client's configuration. Changing it does not
// affect the client.
func (c *Client) Config() Config { return c.cfg.clone() }

// ModelID returns the model (or, failing that, deployment) name.
func (c *Client) ModelID() string {
	if c.cfg.Model != "" {
		return c.cfg.Model
	}
	return c.cfg.Deployment
}

// Invoke completes a single prompt and returns the first candidate's text.
func (c *Client) Invoke(ctx context.Context, prompt string, opts *llm.CallOptions) (string, error) {
	res, err := c.Generate(ctx, []string{prompt}, opts)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

// Call is Invoke with stop sequences given positionally.
func (c *Client) Call(ctx context.Context, prompt string, stop ...string) (string, error) {
	return c.Invoke(ctx, prompt, &llm.CallOptions{Stop: stop})
}

// GeneratePrompt renders each prompt value and delegates to [Client.Generate].
func (c *Client) GeneratePrompt(ctx context.Context, values []llm.PromptValue, opts *llm.CallOptions) (*llm.Result, error) {
	return c.Generate(ctx, llm.RenderPrompts(values), opts)
}

// Generate completes every prompt, requesting N candidates each. The result
// is indexed [prompt][candidate] in request order. No more than
// MaxConcurrency provider requests are outstanding at once, across all
// calls on this client.
func (c *Client) Generate(ctx context.Context, prompts []string, opts *llm.CallOptions) (*llm.Result, error) {
	return c.handler(ctx, prompts, opts)
}

// callOptions layers per-call options over client defaults.
func (c *Client) callOptions(opts *llm.CallOptions) *llm.CallOptions {
	return llm.MergeCallOptions(&llm.CallOptions{
		Timeout:  c.cfg.Timeout,
		Handlers: c.handlers,
	}, opts)
}

func (c *Client) runInfo(prompts []string, stream bool) llm.RunInfo {
	return llm.RunInfo{
		RunID:   uuid.NewString(),
		Model:   c.ModelID(),
		Prompts: prompts,
		Stream:  stream,
	}
}

// generate is the base implementation called by the middleware chain.
func (c *Client) generate(ctx context.Context, prompts []string, opts *llm.CallOptions) (*llm.Result, error) {
	opts = c.callOptions(opts)
	ctx, cancel := llm.WithCallTimeout(ctx, opts.Timeout)
	defer cancel()

	d := llm.NewDispatcher(opts.Handlers...)
	run := c.runInfo(prompts, c.cfg.Streaming)
	d.Start(ctx, run)

	fail := func(err error) (*llm.Result, error) {
		err = llm.ContextError(ctx, err)
		d.Error(ctx, run, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	b := llm.NewGenerationBuilder(len(prompts), c.cfg.N)
	usages := make([]llm.UsageDetails, len(prompts))

	g, gctx := errgroup.WithContext(ctx)
	var acquireErr error
	for i, prompt := range prompts {
		// Slots are taken in prompt order, before the request goroutine
		// starts, so a limit of 1 dispatches prompts strictly in sequence.
		if err := c.acquire(gctx); err != nil {
			acquireErr = err
			break
		}
		g.Go(func() error {
			defer c.release()
			u, err := c.complete(gctx, i, prompt, opts, b, d, run)
			usages[i] = u
			return err
		})
	}
	err := g.Wait()
	if err == nil {
		err = acquireErr
	}
	if err != nil {
		return fail(err)
	}

	var total llm.UsageDetails
	for _, u := range usages {
		total = total.Add(u)
	}
	res := &llm.Result{
		Generations: b.Generations(),
		Usage:       total,
		ModelID:     c.ModelID(),
		RunID:       run.RunID,
	}
	d.End(ctx, res)
	return res, nil
}

// complete issues the request for one prompt and fills row i of b.
func (c *Client) complete(ctx context.Context, i int, prompt string, opts *llm.CallOptions, b *llm.GenerationBuilder, d *llm.Dispatcher, run llm.RunInfo) (llm.UsageDetails, error) {
	req := buildRequest(c.cfg, prompt, opts, c.cfg.Streaming)
	resp, err := c.tp.do(ctx, req)
	if err != nil {
		return llm.UsageDetails{}, err
	}
	defer resp.Body.Close()

	if c.cfg.Streaming {
		var u llm.UsageDetails
		err := parseSSEStream(ctx, resp.Body, func(chunk *completionResponse) error {
			if chunk.Usage != nil {
				u = chunk.Usage.details()
			}
			return c.emitChunk(ctx, i, chunk, b, d, run)
		})
		return u, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return llm.UsageDetails{}, llm.ContextError(ctx, ctx.Err())
		}
		return llm.UsageDetails{}, fmt.Errorf("%w: read response body: %v", llm.ErrProvider, err)
	}
	raw, err := unmarshalCompletion(body)
	if err != nil {
		return llm.UsageDetails{}, fmt.Errorf("%w: parse response: %v", llm.ErrInvalidResponse, err)
	}
	if err := collectChoices(b, i, raw); err != nil {
		return llm.UsageDetails{}, err
	}
	return raw.Usage.details(), nil
}

// emitChunk routes each choice fragment of a streamed chunk to observers
// and then to its [prompt][candidate] slot, so the final text equals the
// concatenation of delivered token events.
func (c *Client) emitChunk(ctx context.Context, prompt int, chunk *completionResponse, b *llm.GenerationBuilder, d *llm.Dispatcher, run llm.RunInfo) error {
	for _, ch := range chunk.Choices {
		idx := llm.TokenIndices{Prompt: prompt, Completion: ch.Index}
		if ch.Index < 0 || ch.Index >= c.cfg.N {
			return fmt.Errorf("%w: choice index %d out of range", llm.ErrInvalidResponse, ch.Index)
		}
		if ch.Text != "" {
			d.Token(ctx, llm.TokenEvent{Text: ch.Text, Indices: idx, RunID: run.RunID})
			b.Append(idx, ch.Text)
		}
		recordChoiceInfo(b, idx, ch)
	}
	return nil
}

// Stream completes a single prompt and yields text fragments of the first
// candidate as they arrive. Observers also receive a token event per
// fragment. The stream holds a concurrency slot until it is exhausted or
// closed; callers must Close it, and may do so before it is exhausted.
func (c *Client) Stream(ctx context.Context, prompt string, opts *llm.CallOptions) (*llm.ResponseStream[string], error) {
	opts = c.callOptions(opts)
	rctx, cancelRequest := context.WithCancel(ctx)
	sctx, cancelTimeout := llm.WithCallTimeout(rctx, opts.Timeout)
	cancel := func() {
		cancelTimeout()
		cancelRequest()
	}

	d := llm.NewDispatcher(opts.Handlers...)
	run := c.runInfo([]string{prompt}, true)
	d.Start(sctx, run)

	if err := c.acquire(sctx); err != nil {
		err = llm.ContextError(sctx, err)
		d.Error(sctx, run, err)
		cancel()
		return nil, err
	}

	resp, err := c.tp.do(sctx, buildRequest(c.cfg, prompt, opts, true))
	if err != nil {
		err = llm.ContextError(sctx, err)
		d.Error(sctx, run, err)
		c.release()
		cancel()
		return nil, err
	}

	return llm.NewResponseStream(sctx, func(pctx context.Context, out chan<- string) error {
		// Close cancels pctx, which tears down the request.
		context.AfterFunc(pctx, cancel)
		defer c.release()
		defer resp.Body.Close()

		b := llm.NewGenerationBuilder(1, c.cfg.N)
		var u llm.UsageDetails
		err := parseSSEStream(pctx, resp.Body, func(chunk *completionResponse) error {
			if chunk.Usage != nil {
				u = chunk.Usage.details()
			}
			if err := c.emitChunk(pctx, 0, chunk, b, d, run); err != nil {
				return err
			}
			for _, ch := range chunk.Choices {
				if ch.Index != 0 || ch.Text == "" {
					continue
				}
				select {
				case out <- ch.Text:
				case <-pctx.Done():
					return llm.ContextError(pctx, pctx.Err())
				}
			}
			return nil
		})
		if err != nil {
			err = llm.ContextError(pctx, err)
			// A consumer that stops early closes the stream; that is not a failure.
			if errors.Is(err, llm.ErrCancelled) && ctx.Err() == nil {
				return err
			}
			d.Error(pctx, run, err)
			return err
		}

		d.End(pctx, &llm.Result{
			Generations: b.Generations(),
			Usage:       u,
			ModelID:     c.ModelID(),
			RunID:       run.RunID,
		})
		return nil
	}), nil
}

func (c *Client) acquire(ctx context.Context) error {
	if c.sem == nil {
		return ctx.Err()
	}
	return c.sem.Acquire(ctx, 1)
}

func (c *Client) release() {
	if c.sem != nil {
		c.sem.Release(1)
	}
}
