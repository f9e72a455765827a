// Copyright (c) Microsoft. All rights reserved.

package azureopenai

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/anadi45/langchain-azure-openai/llm"
)

const (
	// DefaultAPIVersion is the Azure OpenAI data-plane API version used
	// when none is configured.
	DefaultAPIVersion = "2024-10-21"

	// streamUsageAPIVersion is the first Azure api-version that accepts
	// stream_options.
	streamUsageAPIVersion = "2024-09-01"

	defaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// Config is the immutable configuration of a [Client]. Per-call overrides
// go in [llm.CallOptions] and are never written back here.
type Config struct {
	// Model is the model name, e.g. "gpt-3.5-turbo-instruct". For Azure it
	// doubles as the deployment name when Deployment is empty.
	Model string `json:"model" yaml:"model" toml:"model"`

	// Deployment is the Azure OpenAI deployment name.
	Deployment string `json:"deployment" yaml:"deployment" toml:"deployment"`

	// Endpoint is the Azure resource endpoint
	// (https://<resource>.openai.azure.com) or an OpenAI-compatible base URL.
	Endpoint string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`

	// APIVersion is the Azure api-version query parameter.
	APIVersion string `json:"api_version" yaml:"api_version" toml:"api_version"`

	// MaxTokens caps output tokens. Zero or negative means provider default.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`

	// MaxConcurrency bounds simultaneously outstanding provider requests
	// across the client. Zero means unbounded.
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency" toml:"max_concurrency"`

	// N is the number of candidate completions per prompt. Zero means 1.
	N int `json:"n" yaml:"n" toml:"n"`

	// Streaming requests incremental delivery and emits token events.
	Streaming bool `json:"streaming" yaml:"streaming" toml:"streaming"`

	Temperature      *float64 `json:"temperature,omitempty" yaml:"temperature" toml:"temperature"`
	TopP             *float64 `json:"top_p,omitempty" yaml:"top_p" toml:"top_p"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty" yaml:"presence_penalty" toml:"presence_penalty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" yaml:"frequency_penalty" toml:"frequency_penalty"`

	// BestOf asks the provider to generate BestOf candidates server-side
	// and return the best N. Zero means unset.
	BestOf int `json:"best_of,omitempty" yaml:"best_of" toml:"best_of"`

	// User is an end-user identifier forwarded to the provider.
	User string `json:"user,omitempty" yaml:"user" toml:"user"`

	// Timeout is the default per-call timeout. Zero means none.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout" toml:"timeout"`

	// Credential authorises requests. It is never serialised.
	Credential Credential `json:"-" yaml:"-" toml:"-"`
}

// azure reports whether requests use Azure deployment addressing.
func (c Config) azure() bool {
	return c.Credential.azureAddressed(c.Endpoint)
}

// streamUsage reports whether the target accepts stream_options, so usage
// can be requested on streamed responses. Azure api-versions are dated and
// compare lexically.
func (c Config) streamUsage() bool {
	return !c.azure() || c.APIVersion >= streamUsageAPIVersion
}

// clone returns a copy of c that shares no pointers with it.
func (c Config) clone() Config {
	c.Temperature = cloneFloat(c.Temperature)
	c.TopP = cloneFloat(c.TopP)
	c.PresencePenalty = cloneFloat(c.PresencePenalty)
	c.FrequencyPenalty = cloneFloat(c.FrequencyPenalty)
	return c
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// withDefaults fills conventional values for unset fields.
func (c Config) withDefaults() Config {
	if c.N == 0 {
		c.N = 1
	}
	if c.azure() {
		if c.APIVersion == "" {
			c.APIVersion = DefaultAPIVersion
		}
		if c.Deployment == "" {
			c.Deployment = c.Model
		}
	}
	return c
}

// Validate reports configuration errors. It is called by [New] after
// defaults are applied.
func (c Config) Validate() error {
	if c.Model == "" && c.Deployment == "" {
		return fmt.Errorf("%w: model or deployment is required", llm.ErrConfiguration)
	}
	if !c.azure() && c.Model == "" {
		return fmt.Errorf("%w: model is required for OpenAI endpoints", llm.ErrConfiguration)
	}
	if c.N < 0 {
		return fmt.Errorf("%w: n must be positive, got %d", llm.ErrConfiguration, c.N)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("%w: max concurrency must not be negative, got %d", llm.ErrConfiguration, c.MaxConcurrency)
	}
	if c.BestOf < 0 || (c.BestOf > 0 && c.BestOf < c.N) {
		return fmt.Errorf("%w: best_of (%d) must be at least n (%d)", llm.ErrConfiguration, c.BestOf, c.N)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", llm.ErrConfiguration)
	}

	switch c.Credential.kind {
	case credentialAzureKey, credentialToken:
		if c.Endpoint == "" {
			return fmt.Errorf("%w: %s credential requires an endpoint", llm.ErrConfiguration, c.Credential)
		}
	}
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: invalid endpoint %q", llm.ErrConfiguration, c.Endpoint)
		}
	}
	return nil
}

// Merge overlays the non-zero fields of o onto c.
func (c Config) Merge(o Config) Config {
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.Deployment != "" {
		c.Deployment = o.Deployment
	}
	if o.Endpoint != "" {
		c.Endpoint = o.Endpoint
	}
	if o.APIVersion != "" {
		c.APIVersion = o.APIVersion
	}
	if o.MaxTokens != 0 {
		c.MaxTokens = o.MaxTokens
	}
	if o.MaxConcurrency != 0 {
		c.MaxConcurrency = o.MaxConcurrency
	}
	if o.N != 0 {
		c.N = o.N
	}
	if o.Streaming {
		c.Streaming = true
	}
	if o.Temperature != nil {
		c.Temperature = o.Temperature
	}
	if o.TopP != nil {
		c.TopP = o.TopP
	}
	if o.PresencePenalty != nil {
		c.PresencePenalty = o.PresencePenalty
	}
	if o.FrequencyPenalty != nil {
		c.FrequencyPenalty = o.FrequencyPenalty
	}
	if o.BestOf != 0 {
		c.BestOf = o.BestOf
	}
	if o.User != "" {
		c.User = o.User
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if !o.Credential.IsZero() {
		c.Credential = o.Credential
	}
	return c
}

// fileConfig is the on-disk shape read by [LoadConfig].
type fileConfig struct {
	Config `yaml:",inline"`

	// APIKey is usually written as ${AZURE_OPENAI_API_KEY}.
	APIKey string `yaml:"api_key" toml:"api_key"`

	// Auth selects how APIKey is sent: "azure" (default) or "openai".
	Auth string `yaml:"auth" toml:"auth"`
}

// LoadConfig reads a YAML or TOML file (chosen by extension) and returns a
// Config. Environment variables referenced as ${VAR} or $VAR are expanded
// before parsing so secrets can stay in the environment.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return Config{}, fmt.Errorf("%w: load config: %w", llm.ErrConfiguration, err)
	}

	expanded := os.ExpandEnv(string(data))

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(expanded, &fc); err != nil {
			return Config{}, fmt.Errorf("%w: parse config: %w", llm.ErrConfiguration, err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
			return Config{}, fmt.Errorf("%w: parse config: %w", llm.ErrConfiguration, err)
		}
	}

	cfg := fc.Config
	if fc.APIKey != "" {
		switch strings.ToLower(fc.Auth) {
		case "", "azure":
			cfg.Credential = AzureKeyCredential(fc.APIKey)
		case "openai":
			cfg.Credential = OpenAIKeyCredential(fc.APIKey)
		default:
			return Config{}, fmt.Errorf("%w: unknown auth %q", llm.ErrConfiguration, fc.Auth)
		}
	}
	return cfg, nil
}

// ConfigFromEnv builds a Config from the conventional Azure OpenAI
// environment variables: AZURE_OPENAI_API_ENDPOINT,
// AZURE_OPENAI_API_DEPLOYMENT_NAME, AZURE_OPENAI_API_VERSION and the
// credential variables read by [CredentialFromEnv].
func ConfigFromEnv() (Config, error) {
	cred, err := CredentialFromEnv()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Endpoint:   os.Getenv("AZURE_OPENAI_API_ENDPOINT"),
		Deployment: os.Getenv("AZURE_OPENAI_API_DEPLOYMENT_NAME"),
		APIVersion: os.Getenv("AZURE_OPENAI_API_VERSION"),
		Credential: cred,
	}, nil
}
