package llmclient

import "context"

// Part is one element of a multimodal request: either text or inline binary
// content with its MIME type. Exactly one of Text or Data should be set.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// TextPart wraps a prompt fragment.
func TextPart(text string) Part { return Part{Text: text} }

// DataPart wraps inline binary content (a design screenshot, typically).
func DataPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// Request describes one backend invocation. WebSearch enables request-scoped
// live web lookup for providers that support it.
type Request struct {
	Model     string
	Parts     []Part
	WebSearch bool
}

// Client defines the interface for generative model providers.
type Client interface {
	Name() string
	Close() error
	// GenerateContent sends the ordered parts and returns the complete raw
	// textual response. Streaming is not part of this contract.
	GenerateContent(ctx context.Context, req Request) (string, error)
}
