// Copyright (c) Microsoft. All rights reserved.

// Command complete sends prompts to an Azure OpenAI (or OpenAI) Completions
// deployment and prints the generations.
//
// Usage with an Azure key:
//
//	export AZURE_OPENAI_API_ENDPOINT=https://<resource>.openai.azure.com
//	export AZURE_OPENAI_API_DEPLOYMENT_NAME=gpt-35-turbo-instruct
//	export AZURE_OPENAI_API_KEY=<your-key>
//	go run . "Print hello world"
//
// Without a key, Entra ID is used: AZURE_TENANT_ID / AZURE_CLIENT_ID /
// AZURE_CLIENT_SECRET if set, otherwise DefaultAzureCredential.
//
// Other flags:
//
//	go run . -stream "How is your day going?"
//	go run . -n 2 -concurrency 1 "Print hello world" "print hello sea"
//	go run . -config complete.yaml "Print hello world"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/anadi45/langchain-azure-openai/azureopenai"
	"github.com/anadi45/langchain-azure-openai/llm"
)

func main() {
	configPath := flag.String("config", "", "YAML or TOML config file")
	model := flag.String("model", "", "model name (default gpt-3.5-turbo-instruct)")
	stream := flag.Bool("stream", false, "stream the first prompt with a pull iterator")
	n := flag.Int("n", 0, "candidates per prompt")
	maxTokens := flag.Int("max-tokens", 0, "output token cap (<=0: provider default)")
	concurrency := flag.Int("concurrency", 0, "max in-flight requests (0: unbounded)")
	timeout := flag.Duration("timeout", 0, "per-call timeout")
	stop := flag.String("stop", "", "comma-separated stop sequences")
	flag.Parse()

	// Load .env file if present (ignored if missing).
	_ = godotenv.Load()

	// Enable debug logging if requested
	if os.Getenv("DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	prompts := flag.Args()
	if len(prompts) == 0 {
		prompts = []string{"Print hello world"}
	}

	client, err := newClient(*configPath, azureopenai.Config{
		Model:          *model,
		N:              *n,
		MaxTokens:      *maxTokens,
		MaxConcurrency: *concurrency,
	})
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := &llm.CallOptions{Timeout: *timeout}
	if *stop != "" {
		opts.Stop = strings.Split(*stop, ",")
	}

	if *stream {
		if err := runStream(ctx, client, prompts[0], opts); err != nil {
			log.Fatalf("stream: %v", err)
		}
		return
	}

	start := time.Now()
	res, err := client.Generate(ctx, prompts, opts)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrTimeout):
			log.Fatalf("timed out after %s: %v", time.Since(start), err)
		case errors.Is(err, llm.ErrAuthentication):
			log.Fatalf("authentication failed: %v", err)
		default:
			log.Fatalf("generate: %v", err)
		}
	}

	for i, gens := range res.Generations {
		for j, g := range gens {
			fmt.Printf("[%d][%d] %s\n", i, j, strings.TrimSpace(g.Text))
		}
	}
	fmt.Printf("  [tokens: %d prompt, %d completion, %d total]\n",
		res.Usage.PromptTokens, res.Usage.CompletionTokens, res.Usage.TotalTokens)
}

func runStream(ctx context.Context, client *azureopenai.Client, prompt string, opts *llm.CallOptions) error {
	s, err := client.Stream(ctx, prompt, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	for {
		chunk, ok, err := s.Next(ctx)
		if err != nil {
			fmt.Println()
			return err
		}
		if !ok {
			break
		}
		fmt.Print(chunk)
	}
	fmt.Println()
	return nil
}

// newClient layers configuration: environment first, then the optional
// config file, then flags.
func newClient(configPath string, flags azureopenai.Config) (*azureopenai.Client, error) {
	cfg, err := azureopenai.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		fileCfg, err := azureopenai.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	cfg = cfg.Merge(flags)
	if cfg.Model == "" && cfg.Deployment == "" {
		cfg.Model = "gpt-3.5-turbo-instruct"
	}

	// No key in the environment: fall back to Entra ID for Azure endpoints.
	if cfg.Credential.IsZero() && cfg.Endpoint != "" {
		fmt.Println("Using Azure AD authentication (DefaultAzureCredential)")
		cred, err := azureopenai.DefaultAzureCredential()
		if err != nil {
			return nil, err
		}
		cfg.Credential = cred
	}

	fmt.Printf("Using %s credential, model %s\n", cfg.Credential, cfg.Model)

	return azureopenai.New(
		azureopenai.WithConfig(cfg),
		azureopenai.WithMiddleware(llm.LoggingMiddleware(slog.Default())),
	)
}
