// Package sqlite provides the fallback persistence backend. Unlike the
// primary badger store it keeps the whole workspace snapshot as a single
// JSON value, trading granularity for resilience: it only needs a plain
// file and the pure-Go sqlite driver, so it works when badger cannot open
// its directory. Document blobs are not retained in this mode.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"encoding/json/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
	"github.com/paperdeskapp/paperdesk-server/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const appStateKey = "appstate"

// Store is the sqlite-backed fallback Backend.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.Backend = (*Store)(nil)

// Open creates a new sqlite store at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{db: db, logger: logger}, nil
}

// Name identifies the backend in logs and the health endpoint.
func (s *Store) Name() string { return "sqlite-fallback" }

// Capabilities reports what this backend can persist. Blobs are out:
// the fallback keeps only the workspace snapshot.
func (s *Store) Capabilities() store.Capabilities {
	return store.Capabilities{DocumentBlobs: false}
}

// LoadAppState reads the workspace snapshot. A missing row means no
// workspace has been saved yet and is not an error.
func (s *Store) LoadAppState(ctx context.Context) (*domain.AppState, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", appStateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query app state: %w", err)
	}

	var state domain.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal app state: %w", err)
	}
	return &state, nil
}

// SaveAppState writes the whole workspace snapshot as one row.
func (s *Store) SaveAppState(ctx context.Context, state *domain.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal app state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		appStateKey, raw, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert app state: %w", err)
	}
	return nil
}

// PutDocumentBlob is unsupported in fallback mode.
func (s *Store) PutDocumentBlob(context.Context, string, []byte, string) error {
	return store.ErrUnsupported
}

// GetDocumentBlob is unsupported in fallback mode.
func (s *Store) GetDocumentBlob(context.Context, string) (*store.DocumentBlob, error) {
	return nil, store.ErrUnsupported
}

// DeleteDocumentBlob is unsupported in fallback mode.
func (s *Store) DeleteDocumentBlob(context.Context, string) error {
	return store.ErrUnsupported
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
