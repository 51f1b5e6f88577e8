// Package session owns the live generation workspaces and their persistence.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pixelforge/internal/archive"
	"pixelforge/internal/cache/memory"
	"pixelforge/internal/figma"
	"pixelforge/internal/filetree"
	"pixelforge/internal/gateway/config"
	"pixelforge/internal/gateway/repository/bundle"
	"pixelforge/internal/gateway/repository/generation"
	"pixelforge/internal/generate"
	"pixelforge/internal/preview"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoResult        = errors.New("session has no result")
	ErrModelNotOffered = errors.New("model is not offered")
)

const (
	figmaCacheEntries = 64
	figmaCacheTTL     = 10 * time.Minute
)

// Service manages live sessions and persists finished generations.
type Service struct {
	backend generate.Backend
	records generation.Store
	bundles bundle.Store
	hub     *preview.Hub
	catalog config.Catalog
	logger  *log.Logger

	figmaFactory func(token string) FigmaImporter
	figmaCache   *memory.LRUTTL[string, *generate.FigmaPayload]

	mu   sync.RWMutex
	live map[string]*generate.Session
}

// FigmaImporter is the slice of the Figma client the service needs.
type FigmaImporter interface {
	FetchNode(ctx context.Context, t figma.Target) (map[string]any, error)
	RenderImage(ctx context.Context, t figma.Target) ([]byte, error)
}

type Option func(*Service)

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithFigmaFactory overrides how per-token Figma clients are built.
func WithFigmaFactory(f func(token string) FigmaImporter) Option {
	return func(s *Service) { s.figmaFactory = f }
}

func New(backend generate.Backend, records generation.Store, bundles bundle.Store, hub *preview.Hub, catalog config.Catalog, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		records: records,
		bundles: bundles,
		hub:     hub,
		catalog: catalog,
		logger:  log.Default(),
		figmaFactory: func(token string) FigmaImporter {
			return figma.NewClient(token)
		},
		figmaCache: memory.NewLRUTTL[string, *generate.FigmaPayload](figmaCacheEntries, 0, figmaCacheTTL),
		live:       make(map[string]*generate.Session),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create opens a new session. An unknown model id is rejected against the
// catalog; an empty one takes the catalog default.
func (s *Service) Create(opts generate.Options) (*generate.Session, error) {
	if opts.ModelID == "" {
		opts.ModelID = s.catalog.DefaultModel()
	}
	if !s.catalog.HasModel(opts.ModelID) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotOffered, opts.ModelID)
	}
	sess := generate.NewSession(uuid.NewString(), s.backend, opts, generate.WithLogger(s.logger))
	s.mu.Lock()
	s.live[sess.ID] = sess
	s.mu.Unlock()
	s.logger.Printf("session %s: created (model=%s framework=%s)", sess.ID, opts.ModelID, opts.Framework)
	return sess, nil
}

func (s *Service) Get(id string) (*generate.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.live[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Close tears down a live session and drops its cached bundle. The persisted
// record stays.
func (s *Service) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.Close()
	if err := s.bundles.Delete(ctx, id); err != nil {
		s.logger.Printf("session %s: drop bundle: %v", id, err)
	}
	return nil
}

// Generate runs a generation on the session and persists the outcome.
func (s *Service) Generate(ctx context.Context, id string) (*generate.Result, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	result, err := sess.Generate(ctx)
	if err != nil {
		return nil, err
	}
	s.persist(ctx, sess, result)
	return result, nil
}

// Refine applies one instruction to the session's result and persists the
// updated state, including failed attempts' conversation turns.
func (s *Service) Refine(ctx context.Context, id, instruction string) (*generate.Result, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	result, refineErr := sess.Refine(ctx, instruction)
	if current := sess.Result(); current != nil {
		s.persist(ctx, sess, current)
	}
	if refineErr != nil {
		return nil, refineErr
	}
	return result, nil
}

func (s *Service) persist(ctx context.Context, sess *generate.Session, result *generate.Result) {
	opts := sess.Options()
	rec := generation.Record{
		SessionID:   sess.ID,
		Mode:        sess.Input().Mode(),
		Framework:   opts.Framework,
		Language:    opts.Language,
		Model:       opts.ModelID,
		Code:        result.Code,
		Suggestions: result.Suggestions,
		History:     sess.History(),
	}
	if err := s.records.Save(ctx, rec); err != nil {
		s.logger.Printf("session %s: persist record: %v", sess.ID, err)
	}
	// Any cached archive is stale now.
	if err := s.bundles.Delete(ctx, sess.ID); err != nil {
		s.logger.Printf("session %s: drop bundle: %v", sess.ID, err)
	}
}

// Tree returns the explorer tree and default open file for the session's
// result.
func (s *Service) Tree(id string) ([]*filetree.Node, string, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, "", err
	}
	result := sess.Result()
	if result == nil {
		return nil, "", ErrNoResult
	}
	files := result.Code.Files()
	return filetree.Build(files), filetree.DefaultEntry(files), nil
}

// PreviewDocument builds the sandbox document for the session's result.
func (s *Service) PreviewDocument(id string) (string, error) {
	sess, err := s.Get(id)
	if err != nil {
		return "", err
	}
	result := sess.Result()
	if result == nil {
		return "", ErrNoResult
	}
	opts := sess.Options()
	return preview.Document(result.Code, sess.Input().Mode(), opts.Framework)
}

// Download returns the zip archive for the session, building and caching it
// on first request.
func (s *Service) Download(ctx context.Context, id string) ([]byte, error) {
	if data, err := s.bundles.Get(ctx, id); err == nil {
		return data, nil
	} else if !errors.Is(err, bundle.ErrNotFound) {
		return nil, err
	}

	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	result := sess.Result()
	if result == nil {
		return nil, ErrNoResult
	}
	data, err := archive.Bytes(result.Code, time.Now().UTC().Truncate(time.Second))
	if err != nil {
		return nil, err
	}
	if err := s.bundles.Put(ctx, id, data); err != nil {
		s.logger.Printf("session %s: cache bundle: %v", id, err)
	}
	return data, nil
}

// ReportPreviewError publishes a trapped sandbox error to the session's
// listeners.
func (s *Service) ReportPreviewError(id, message string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	s.hub.Publish(preview.Error{SessionID: id, Message: message})
	return nil
}

// SubscribePreviewErrors attaches a listener to the session's error channel.
func (s *Service) SubscribePreviewErrors(id string) (<-chan preview.Error, func(), error) {
	if _, err := s.Get(id); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(id)
	return ch, cancel, nil
}

// ImportFigma resolves a share URL into the generation payload, caching
// imports briefly so retried generations don't re-render the node.
func (s *Service) ImportFigma(ctx context.Context, shareURL, token string) (*generate.FigmaPayload, error) {
	target, err := figma.ParseShareURL(shareURL)
	if err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("figma token is required")
	}

	cacheKey := target.FileKey + "|" + target.NodeID + "|" + token
	if payload, ok := s.figmaCache.Get(cacheKey); ok {
		return payload, nil
	}

	client := s.figmaFactory(token)
	var (
		node    map[string]any
		nodeErr error
		done    = make(chan struct{})
	)
	go func() {
		defer close(done)
		node, nodeErr = client.FetchNode(ctx, target)
	}()
	image, imageErr := client.RenderImage(ctx, target)
	<-done
	if nodeErr != nil {
		return nil, nodeErr
	}
	if imageErr != nil {
		return nil, imageErr
	}
	payload := &generate.FigmaPayload{
		Image: generate.ImagePayload{Data: image, MIMEType: "image/png"},
		Node:  node,
	}
	s.figmaCache.Set(cacheKey, payload, len(payload.Image.Data))
	return payload, nil
}

// Restore rebuilds a live session from its persisted record, used after a
// gateway restart.
func (s *Service) Restore(ctx context.Context, id string) (*generate.Session, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		if errors.Is(err, generation.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, err
	}
	sess := generate.NewSession(rec.SessionID, s.backend, generate.Options{
		ModelID:   rec.Model,
		Framework: rec.Framework,
		Language:  rec.Language,
	}, generate.WithLogger(s.logger))
	sess.Input().SetMode(rec.Mode)
	sess.Seed(generate.Result{Code: rec.Code, Suggestions: rec.Suggestions}, rec.History)

	s.mu.Lock()
	s.live[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}
