// Package store provides durable persistence for the workspace: a primary
// Badger backend with full blob support, a reduced sqlite fallback, and the
// Adapter that wraps the two with capability flags and a degraded save path.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Key layout for the Badger backend. Tabs are individual records so a rename
// or a notes edit rewrites one small value, not the whole workspace.
const (
	metaKey        = "workspace:meta"
	tabPrefix      = "tab:"
	blobPrefix     = "blob:"
	blobMetaPrefix = "blobmeta:"
)

// Store is the primary Badger-backed persistence backend.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the Badger database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Badger's own logging is noise here
	opts.SyncWrites = true       // survive crashes without torn workspaces
	opts.CompactL0OnClose = true // faster startup next time

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("badger store opened", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Name implements Backend.
func (s *Store) Name() string { return "badger" }

// Capabilities implements Backend. Badger holds document blobs.
func (s *Store) Capabilities() Capabilities {
	return Capabilities{DocumentBlobs: true}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing badger store")
	}
	return s.db.Close()
}

// Helper methods shared by the snapshot and blob files.

// get retrieves and unmarshals a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// exists checks whether a key is present.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
