package generation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pixelforge/internal/generate"
)

var ErrNotFound = errors.New("generation not found")

// Record is one persisted generation outcome together with its refinement
// conversation.
type Record struct {
	SessionID   string
	Mode        generate.Mode
	Framework   generate.Framework
	Language    generate.Language
	Model       string
	Code        generate.CodeOutput
	Suggestions []string
	History     []generate.ChatMessage
	UpdatedAt   time.Time
}

// Store persists finished generations so sessions survive a gateway restart.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, sessionID string) (Record, error)
	Delete(ctx context.Context, sessionID string) error
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
CREATE TABLE IF NOT EXISTS generations (
    session_id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    framework TEXT NOT NULL,
    language TEXT NOT NULL,
    model TEXT NOT NULL,
    shape TEXT NOT NULL,
    document TEXT NOT NULL DEFAULT '',
    files JSONB NOT NULL DEFAULT '[]'::jsonb,
    suggestions JSONB NOT NULL DEFAULT '[]'::jsonb,
    history JSONB NOT NULL DEFAULT '[]'::jsonb,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(rec.SessionID) == "" {
		return fmt.Errorf("session_id is required")
	}
	if err := s.ensureSchema(); err != nil {
		return err
	}

	files := rec.Code.Files()
	if files == nil {
		files = []generate.GeneratedFile{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encode files: %w", err)
	}
	suggestions := rec.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	suggestionsJSON, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("encode suggestions: %w", err)
	}
	history := rec.History
	if history == nil {
		history = []generate.ChatMessage{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO generations (session_id, mode, framework, language, model, shape, document, files, suggestions, history, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (session_id)
DO UPDATE SET mode=EXCLUDED.mode, framework=EXCLUDED.framework, language=EXCLUDED.language,
              model=EXCLUDED.model, shape=EXCLUDED.shape, document=EXCLUDED.document,
              files=EXCLUDED.files, suggestions=EXCLUDED.suggestions, history=EXCLUDED.history,
              updated_at=EXCLUDED.updated_at
`, rec.SessionID, string(rec.Mode), string(rec.Framework), string(rec.Language), rec.Model,
		rec.Code.Shape().String(), rec.Code.Document(), filesJSON, suggestionsJSON, historyJSON, time.Now())
	return err
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (Record, error) {
	if s == nil {
		return Record{}, fmt.Errorf("store is nil")
	}
	if err := s.ensureSchema(); err != nil {
		return Record{}, err
	}
	var (
		rec                              Record
		mode, fw, lang, shape            string
		document                         string
		filesJSON, suggJSON, historyJSON []byte
	)
	err := s.db.QueryRowContext(ctx, `
SELECT session_id, mode, framework, language, model, shape, document, files, suggestions, history, updated_at
FROM generations WHERE session_id=$1
`, sessionID).Scan(&rec.SessionID, &mode, &fw, &lang, &rec.Model, &shape, &document,
		&filesJSON, &suggJSON, &historyJSON, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	rec.Mode = generate.Mode(mode)
	rec.Framework = generate.Framework(fw)
	rec.Language = generate.Language(lang)
	if shape == generate.ShapeDocument.String() {
		rec.Code = generate.DocumentOutput(document)
	} else {
		var files []generate.GeneratedFile
		if err := json.Unmarshal(filesJSON, &files); err != nil {
			return Record{}, fmt.Errorf("decode files: %w", err)
		}
		rec.Code = generate.FileListOutput(files)
	}
	if err := json.Unmarshal(suggJSON, &rec.Suggestions); err != nil {
		return Record{}, fmt.Errorf("decode suggestions: %w", err)
	}
	if err := json.Unmarshal(historyJSON, &rec.History); err != nil {
		return Record{}, fmt.Errorf("decode history: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM generations WHERE session_id=$1`, sessionID)
	return err
}
