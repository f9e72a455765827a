// Copyright (c) Microsoft. All rights reserved.

// Package azureopenai provides a completion client for Azure OpenAI (and
// OpenAI-compatible) Completions endpoints.
//
// Create a client with [New]:
//
//	client, err := azureopenai.New(
//	    azureopenai.WithModel("gpt-3.5-turbo-instruct"),
//	    azureopenai.WithEndpoint("https://my-resource.openai.azure.com"),
//	    azureopenai.WithCredential(azureopenai.AzureKeyCredential(key)),
//	    azureopenai.WithMaxTokens(5),
//	)
//
//	text, err := client.Invoke(ctx, "Print hello world", nil)
//
// # Operations
//
//   - [Client.Invoke] and [Client.Call]: one prompt, first candidate.
//   - [Client.Generate] and [Client.GeneratePrompt]: many prompts, N
//     candidates each, bounded by MaxConcurrency.
//   - [Client.Stream]: a pull-based iterator over text fragments.
//
// Cancellation and deadlines come from the context; a per-call timeout in
// [llm.CallOptions] is reported as [llm.ErrTimeout], caller cancellation as
// [llm.ErrCancelled].
//
// # Credentials
//
// A [Credential] is one of [AzureKeyCredential] (sent as "api-key"),
// [OpenAIKeyCredential] (bearer; an empty endpoint targets the public
// OpenAI API) or [TokenCredential] wrapping any azcore.TokenCredential,
// such as those from azidentity. It is resolved on each request.
//
// # Configuration
//
// Use functional options, or load a [Config] with [LoadConfig] (YAML or
// TOML) or [ConfigFromEnv] and pass it with [WithConfig].
//
// # Testing
//
// The client uses an unexported transport interface internally.
// For testing, provide a mock http.Client via [WithHTTPClient]
// with a custom RoundTripper, or point the endpoint at an httptest server.
package azureopenai
