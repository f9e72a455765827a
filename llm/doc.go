// Copyright (c) Microsoft. All rights reserved.

// Package llm provides the provider-neutral types shared by completion
// clients: call options, generation batches, streaming token events and
// their observers, prompt values, and a pull-based [ResponseStream].
//
// # Results
//
// A generate call over k prompts with n candidates each yields a [Result]
// whose Generations are indexed [promptIndex][completionIndex]:
//
//	res, err := client.Generate(ctx, []string{"P1", "P2"}, nil)
//	for i, gens := range res.Generations {
//	    for j, g := range gens {
//	        fmt.Println(i, j, g.Text)
//	    }
//	}
//
// # Observers
//
// Register a [Handler] (or [HandlerFuncs]) to receive a [TokenEvent] for
// every streamed fragment and the final [Result] with per-call token usage:
//
//	h := llm.HandlerFuncs{
//	    Token: func(ctx context.Context, ev llm.TokenEvent) {
//	        fmt.Print(ev.Text)
//	    },
//	}
//
// Handlers run synchronously, in registration order, one at a time.
//
// # Errors
//
// Failures are classified by sentinel errors: [ErrConfiguration],
// [ErrAuthentication], [ErrTimeout], [ErrCancelled] and [ErrProvider]
// (with [ProviderError] carrying the HTTP status). Use errors.Is.
package llm
