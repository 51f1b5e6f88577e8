// Package prefs stores per-user workspace settings: the Figma access token,
// the preferred viewport and the default framework/model.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var ErrNotFound = errors.New("preferences not found")

type Preferences struct {
	UserID     string `json:"user_id"`
	FigmaToken string `json:"figma_token,omitempty"`
	Viewport   string `json:"viewport,omitempty"`
	Framework  string `json:"framework,omitempty"`
	Model      string `json:"model,omitempty"`
}

type Store interface {
	Save(ctx context.Context, p Preferences) error
	Get(ctx context.Context, userID string) (Preferences, error)
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Preferences
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Preferences)}
}

func (s *MemoryStore) Save(_ context.Context, p Preferences) error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[p.UserID] = p
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[userID]
	if !ok {
		return Preferences{}, ErrNotFound
	}
	return p, nil
}

type PostgresStore struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS preferences (
    user_id TEXT PRIMARY KEY,
    figma_token TEXT NOT NULL DEFAULT '',
    viewport TEXT NOT NULL DEFAULT 'desktop',
    framework TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Save(ctx context.Context, p Preferences) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO preferences (user_id, figma_token, viewport, framework, model, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id)
DO UPDATE SET figma_token=EXCLUDED.figma_token, viewport=EXCLUDED.viewport,
              framework=EXCLUDED.framework, model=EXCLUDED.model, updated_at=EXCLUDED.updated_at
`, p.UserID, p.FigmaToken, p.Viewport, p.Framework, p.Model, time.Now())
	return err
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (Preferences, error) {
	if s == nil {
		return Preferences{}, fmt.Errorf("store is nil")
	}
	if err := s.ensureSchema(); err != nil {
		return Preferences{}, err
	}
	var p Preferences
	err := s.db.QueryRowContext(ctx, `
SELECT user_id, figma_token, viewport, framework, model FROM preferences WHERE user_id=$1
`, userID).Scan(&p.UserID, &p.FigmaToken, &p.Viewport, &p.Framework, &p.Model)
	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{}, ErrNotFound
	}
	return p, err
}
