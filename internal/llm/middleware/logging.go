package llm

import (
	"context"
	"log"

	llmclient "pixelforge/internal/llm/client"
)

// WithLogging logs request size and errors. Provide a custom logger or nil to
// use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next llmclient.Client) llmclient.Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateContent(ctx context.Context, req llmclient.Request) (string, error) {
	var textBytes, dataBytes int
	for _, p := range req.Parts {
		textBytes += len(p.Text)
		dataBytes += len(p.Data)
	}
	l.log.Printf("LLM request (%s): %d parts, %d text bytes, %d inline bytes, web_search=%t",
		l.next.Name(), len(req.Parts), textBytes, dataBytes, req.WebSearch)
	out, err := l.next.GenerateContent(ctx, req)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", l.next.Name(), err)
	}
	return out, err
}
