// Copyright (c) Microsoft. All rights reserved.

package azureopenai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/anadi45/langchain-azure-openai/llm"
)

// cognitiveServicesScope is the Entra ID scope for Azure OpenAI.
const cognitiveServicesScope = "https://cognitiveservices.azure.com/.default"

type credentialKind int

const (
	credentialNone credentialKind = iota
	credentialAzureKey
	credentialOpenAIKey
	credentialToken
)

func (k credentialKind) String() string {
	switch k {
	case credentialAzureKey:
		return "azure-key"
	case credentialOpenAIKey:
		return "openai-key"
	case credentialToken:
		return "token"
	default:
		return "none"
	}
}

// Credential authorises requests. It is one of an Azure API key, an OpenAI
// API key, or an Entra ID token credential. The zero value carries no
// credential, and requests made with it fail with [llm.ErrAuthentication].
type Credential struct {
	kind  credentialKind
	key   string
	token azcore.TokenCredential
}

// AzureKeyCredential authenticates with an Azure OpenAI resource key, sent
// in the "api-key" header.
func AzureKeyCredential(key string) Credential {
	return Credential{kind: credentialAzureKey, key: key}
}

// OpenAIKeyCredential authenticates against the public OpenAI API (or a
// compatible endpoint) with a bearer key.
func OpenAIKeyCredential(key string) Credential {
	return Credential{kind: credentialOpenAIKey, key: key}
}

// TokenCredential authenticates with Entra ID tokens obtained from cred.
// Token caching and renewal are left to cred.
func TokenCredential(cred azcore.TokenCredential) Credential {
	if cred == nil {
		return Credential{}
	}
	return Credential{kind: credentialToken, token: cred}
}

// IsZero reports whether c carries no credential.
func (c Credential) IsZero() bool { return c.kind == credentialNone }

// String names the credential variant. It never includes secrets.
func (c Credential) String() string { return c.kind.String() }

// azureAddressed reports whether requests go to an Azure deployment URL.
func (c Credential) azureAddressed(endpoint string) bool {
	switch c.kind {
	case credentialAzureKey, credentialToken:
		return true
	case credentialOpenAIKey:
		return false
	default:
		return endpoint != ""
	}
}

type authorization struct {
	header string
	value  string
}

// resolve turns the credential into a request header.
func (c Credential) resolve(ctx context.Context) (authorization, error) {
	switch c.kind {
	case credentialAzureKey:
		if c.key == "" {
			return authorization{}, fmt.Errorf("%w: empty azure api key", llm.ErrAuthentication)
		}
		return authorization{header: "api-key", value: c.key}, nil
	case credentialOpenAIKey:
		if c.key == "" {
			return authorization{}, fmt.Errorf("%w: empty openai api key", llm.ErrAuthentication)
		}
		return authorization{header: "Authorization", value: "Bearer " + c.key}, nil
	case credentialToken:
		tok, err := c.token.GetToken(ctx, policy.TokenRequestOptions{
			Scopes: []string{cognitiveServicesScope},
		})
		if err != nil {
			if ctx.Err() != nil {
				return authorization{}, llm.ContextError(ctx, ctx.Err())
			}
			return authorization{}, fmt.Errorf("%w: get azure token: %w", llm.ErrAuthentication, err)
		}
		return authorization{header: "Authorization", value: "Bearer " + tok.Token}, nil
	default:
		return authorization{}, fmt.Errorf("%w: no credential configured", llm.ErrAuthentication)
	}
}

// authorizer resolves a credential for each request. Resolution is
// serialised so concurrent first requests perform a single identity
// handshake; the token credential's own cache serves later calls.
type authorizer struct {
	mu       sync.Mutex
	cred     Credential
	acquired bool
	logger   *slog.Logger
}

func (a *authorizer) authorize(ctx context.Context) (authorization, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.acquired {
		a.logger.DebugContext(ctx, "resolving credential", "kind", a.cred.kind.String())
	}
	auth, err := a.cred.resolve(ctx)
	if err != nil {
		return authorization{}, err
	}
	a.acquired = true
	return auth, nil
}

// CredentialFromEnv selects a credential from the environment, in order:
// AZURE_OPENAI_API_KEY, then AZURE_TENANT_ID / AZURE_CLIENT_ID /
// AZURE_CLIENT_SECRET as a client secret credential, then OPENAI_API_KEY.
// It returns the zero Credential when none is set.
func CredentialFromEnv() (Credential, error) {
	if key := os.Getenv("AZURE_OPENAI_API_KEY"); key != "" {
		return AzureKeyCredential(key), nil
	}

	tenant := os.Getenv("AZURE_TENANT_ID")
	client := os.Getenv("AZURE_CLIENT_ID")
	secret := os.Getenv("AZURE_CLIENT_SECRET")
	if tenant != "" && client != "" && secret != "" {
		cred, err := azidentity.NewClientSecretCredential(tenant, client, secret, nil)
		if err != nil {
			return Credential{}, fmt.Errorf("%w: client secret credential: %w", llm.ErrConfiguration, err)
		}
		return TokenCredential(cred), nil
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return OpenAIKeyCredential(key), nil
	}
	return Credential{}, nil
}

// DefaultAzureCredential wraps azidentity's default credential chain
// (environment, managed identity, Azure CLI, ...).
func DefaultAzureCredential() (Credential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: default azure credential: %w", llm.ErrConfiguration, err)
	}
	return TokenCredential(cred), nil
}
