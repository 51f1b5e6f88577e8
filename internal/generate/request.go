package generate

import (
	"fmt"

	llmclient "pixelforge/internal/llm/client"
	"pixelforge/internal/util/jsonutil"
)

// backendRequest describes one backend call: the ordered
// content parts, the code shape the parser must enforce, and whether live web
// lookup is enabled for the call.
type backendRequest struct {
	parts     []llmclient.Part
	shape     Shape
	webSearch bool
}

type requestBuilder func(p Payload, o Options) (backendRequest, error)

func builderFor(mode Mode) (requestBuilder, error) {
	switch mode {
	case ModeImage:
		return buildImageRequest, nil
	case ModeHTML:
		return buildHTMLRequest, nil
	case ModeFigma:
		return buildFigmaRequest, nil
	case ModeURL:
		return buildURLRequest, nil
	case ModeContent:
		return buildContentRequest, nil
	}
	return nil, fmt.Errorf("no request builder for mode %q", mode)
}

func withCustomInstructions(prompt, custom string) string {
	if custom == "" {
		return prompt
	}
	return prompt + "\n\n**ADDITIONAL USER INSTRUCTIONS:**\n" + custom
}

func buildImageRequest(p Payload, o Options) (backendRequest, error) {
	if !payloadReady(ModeImage, p) {
		return backendRequest{}, ErrInputNotReady
	}
	shape := OutputShape(ModeImage, o.Framework)
	prompt := withCustomInstructions(basePrompt(ModeImage, o.Framework, o.Language, shape), o.CustomInstructions)
	return backendRequest{
		parts: []llmclient.Part{
			llmclient.DataPart(p.Image.MIMEType, p.Image.Data),
			llmclient.TextPart(prompt),
		},
		shape: shape,
	}, nil
}

func buildHTMLRequest(p Payload, o Options) (backendRequest, error) {
	if !payloadReady(ModeHTML, p) {
		return backendRequest{}, ErrInputNotReady
	}
	shape := OutputShape(ModeHTML, o.Framework)
	prompt := basePrompt(ModeHTML, o.Framework, o.Language, shape) +
		"\n\n**HERE IS THE HTML TO REFACTOR:**\n```html\n" + p.HTML + "\n```"
	prompt = withCustomInstructions(prompt, o.CustomInstructions)
	return backendRequest{
		parts: []llmclient.Part{llmclient.TextPart(prompt)},
		shape: shape,
	}, nil
}

func buildFigmaRequest(p Payload, o Options) (backendRequest, error) {
	if !payloadReady(ModeFigma, p) {
		return backendRequest{}, ErrInputNotReady
	}
	shape := OutputShape(ModeFigma, o.Framework)
	prompt := withCustomInstructions(basePrompt(ModeFigma, o.Framework, o.Language, shape), o.CustomInstructions)
	nodeJSON, err := jsonutil.MarshalNoEscape(p.Figma.Node)
	if err != nil {
		return backendRequest{}, fmt.Errorf("encode figma node: %w", err)
	}
	return backendRequest{
		parts: []llmclient.Part{
			llmclient.TextPart(prompt),
			llmclient.DataPart(p.Figma.Image.MIMEType, p.Figma.Image.Data),
			llmclient.TextPart("\n\n**FIGMA NODE JSON:**\n```json\n" + string(nodeJSON) + "\n```"),
		},
		shape: shape,
	}, nil
}

func buildURLRequest(p Payload, o Options) (backendRequest, error) {
	if !payloadReady(ModeURL, p) {
		return backendRequest{}, ErrInputNotReady
	}
	// URL cloning always expects a multi-file project, whatever the framework.
	shape := OutputShape(ModeURL, o.Framework)
	prompt := basePrompt(ModeURL, o.Framework, o.Language, shape) +
		"\n\n**WEBPAGE URL TO CLONE:**\n" + p.URL
	prompt = withCustomInstructions(prompt, o.CustomInstructions)
	return backendRequest{
		parts:     []llmclient.Part{llmclient.TextPart(prompt)},
		shape:     shape,
		webSearch: true,
	}, nil
}

func buildContentRequest(p Payload, o Options) (backendRequest, error) {
	if !payloadReady(ModeContent, p) {
		return backendRequest{}, ErrInputNotReady
	}
	return backendRequest{
		parts: []llmclient.Part{llmclient.TextPart(contentAdoptionPrompt(p.Content))},
		shape: OutputShape(ModeContent, o.Framework),
	}, nil
}
