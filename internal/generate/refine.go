package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	llmclient "pixelforge/internal/llm/client"
)

const refineFallbackNarrative = "Done. I've updated the code based on your request."

// Refine applies one chat instruction to the current result. The instruction
// and the assistant's reply are always appended to the history, so failed
// attempts remain visible in the conversation; the code itself only changes on
// success. Blank instructions and sessions without a result are no-ops.
func (s *Session) Refine(ctx context.Context, instruction string) (*Result, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return s.Result(), nil
	}

	s.mu.Lock()
	if s.result == nil {
		s.mu.Unlock()
		return nil, nil
	}
	prior := *s.result
	history := make([]ChatMessage, len(s.history))
	copy(history, s.history)
	opts := s.opts
	s.history = append(s.history, ChatMessage{Author: AuthorUser, Text: instruction})
	s.loading = true
	s.loadMsg = "Applying your changes..."
	s.mu.Unlock()
	defer s.endLoading()

	prompt := refinePrompt(prior.Code, append(history, ChatMessage{Author: AuthorUser, Text: instruction}), opts.Framework, opts.Language)

	start := time.Now()
	raw, err := s.backend.GenerateContent(ctx, llmclient.Request{
		Model: opts.ModelID,
		Parts: []llmclient.Part{llmclient.TextPart(prompt)},
	})
	if err != nil {
		return nil, s.refineFailed(fmt.Errorf("backend request: %w", err))
	}

	result, err := ParseResult(raw, prior.Code.Shape())
	if err != nil {
		return nil, s.refineFailed(err)
	}
	if result.Narrative == "" {
		result.Narrative = refineFallbackNarrative
	}
	s.logger.Printf("session %s: refined %s output in %s (model=%s)",
		s.ID, prior.Code.Shape(), time.Since(start).Round(time.Millisecond), opts.ModelID)

	s.mu.Lock()
	s.result = &result
	s.history = append(s.history, ChatMessage{Author: AuthorAssistant, Text: result.Narrative})
	s.mu.Unlock()
	return &result, nil
}

// refineFailed records the failure as the assistant's turn. The previous
// result is untouched.
func (s *Session) refineFailed(err error) error {
	s.mu.Lock()
	s.history = append(s.history, ChatMessage{
		Author: AuthorAssistant,
		Text:   fmt.Sprintf("Sorry, I couldn't apply that change: %v", err),
	})
	s.mu.Unlock()
	s.logger.Printf("session %s: refinement failed: %v", s.ID, err)
	return err
}
