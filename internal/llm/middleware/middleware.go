package llm

import llmclient "pixelforge/internal/llm/client"

// Middleware decorates a client with a cross-cutting concern.
type Middleware func(llmclient.Client) llmclient.Client

// Chain applies middlewares so that the first one listed is outermost.
func Chain(base llmclient.Client, mws ...Middleware) llmclient.Client {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}
