package generate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	llmclient "pixelforge/internal/llm/client"
)

// Backend is the slice of the LLM client a session needs.
type Backend interface {
	GenerateContent(ctx context.Context, req llmclient.Request) (string, error)
}

// urlNarration is shown while a URL clone is in flight. The messages advance
// on a timer and carry no signal about actual progress.
var urlNarration = []string{
	"Analyzing URL and page structure...",
	"Mapping assets and styles...",
	"Generating project files...",
	"Assembling the final code...",
}

const defaultNarrationInterval = 4 * time.Second

const genericLoadingMessage = "Generating code..."

// Session owns the state of one generation workspace: input controller,
// options, latest result, conversation history and active view.
type Session struct {
	ID      string
	backend Backend
	logger  *log.Logger

	narrationInterval time.Duration

	mu       sync.Mutex
	input    *Controller
	opts     Options
	result   *Result
	history  []ChatMessage
	view     View
	loading  bool
	loadMsg  string
	narrStop chan struct{}
}

type SessionOption func(*Session)

// WithNarrationInterval overrides the URL narration cadence.
func WithNarrationInterval(d time.Duration) SessionOption {
	return func(s *Session) { s.narrationInterval = d }
}

func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

func NewSession(id string, backend Backend, opts Options, sopts ...SessionOption) *Session {
	opts = opts.Normalize()
	s := &Session{
		ID:                id,
		backend:           backend,
		logger:            log.Default(),
		narrationInterval: defaultNarrationInterval,
		input:             NewController(),
		opts:              opts,
		view:              ViewCode,
	}
	for _, o := range sopts {
		o(s)
	}
	return s
}

// Input exposes the input controller. Mutations through it are not guarded by
// the session lock; drive it from the same goroutine that calls Generate.
func (s *Session) Input() *Controller { return s.input }

func (s *Session) SetOptions(opts Options) {
	opts = opts.Normalize()
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
}

func (s *Session) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Result returns the latest generation result, or nil when none exists.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

func (s *Session) History() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) SetView(v View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func (s *Session) Loading() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, s.loadMsg
}

// Generate runs one full generation: it discards the previous result and
// history, builds the backend request for the current mode, waits for the
// response and installs the parsed result. On any failure the session is left
// with no result and the error recorded on the input controller.
func (s *Session) Generate(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	mode := s.input.Mode()
	opts := s.opts
	s.result = nil
	s.history = nil
	s.view = ViewCode
	s.input.SetError("")
	s.mu.Unlock()

	if !s.input.Ready() {
		return nil, s.fail(ErrInputNotReady)
	}

	build, err := builderFor(mode)
	if err != nil {
		return nil, s.fail(err)
	}
	req, err := build(s.input.Payload(), opts)
	if err != nil {
		return nil, s.fail(err)
	}

	s.beginLoading(mode)
	defer s.endLoading()

	start := time.Now()
	raw, err := s.backend.GenerateContent(ctx, llmclient.Request{
		Model:     opts.ModelID,
		Parts:     req.parts,
		WebSearch: req.webSearch,
	})
	if err != nil {
		return nil, s.fail(fmt.Errorf("backend request: %w", err))
	}

	result, err := ParseResult(raw, req.shape)
	if err != nil {
		return nil, s.fail(err)
	}
	s.logger.Printf("session %s: generated %s output in %s (mode=%s model=%s)",
		s.ID, req.shape, time.Since(start).Round(time.Millisecond), mode, opts.ModelID)

	s.mu.Lock()
	s.result = &result
	if opts.CustomInstructions != "" {
		s.history = append(s.history, ChatMessage{Author: AuthorUser, Text: opts.CustomInstructions})
	}
	if Previewable(result.Code, mode, opts.Framework) {
		s.view = ViewPreview
	} else {
		s.view = ViewCode
	}
	s.mu.Unlock()
	return &result, nil
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.input.SetError(err.Error())
	s.mu.Unlock()
	s.logger.Printf("session %s: generation failed: %v", s.ID, err)
	return err
}

// beginLoading flips the loading flag and, for URL mode, starts the timed
// narration. endLoading always stops the narration, settled or not.
func (s *Session) beginLoading(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	if mode != ModeURL {
		s.loadMsg = genericLoadingMessage
		return
	}
	s.loadMsg = urlNarration[0]
	stop := make(chan struct{})
	s.narrStop = stop
	go s.narrate(stop)
}

func (s *Session) narrate(stop chan struct{}) {
	ticker := time.NewTicker(s.narrationInterval)
	defer ticker.Stop()
	idx := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.narrStop != stop {
				s.mu.Unlock()
				return
			}
			if idx < len(urlNarration)-1 {
				idx++
				s.loadMsg = urlNarration[idx]
			}
			s.mu.Unlock()
		}
	}
}

func (s *Session) endLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.loadMsg = ""
	if s.narrStop != nil {
		close(s.narrStop)
		s.narrStop = nil
	}
}

// Seed installs a previously persisted result and history, as after a
// restart. The view follows the same rule as a fresh generation.
func (s *Session) Seed(result Result, history []ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := result
	s.result = &r
	s.history = append([]ChatMessage(nil), history...)
	if Previewable(result.Code, s.input.Mode(), s.opts.Framework) {
		s.view = ViewPreview
	} else {
		s.view = ViewCode
	}
}

// Close releases the session. Any running narration timer is stopped.
func (s *Session) Close() {
	s.endLoading()
}
