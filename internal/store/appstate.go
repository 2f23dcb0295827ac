package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

// workspaceMeta is the small record holding tab order and the active tab.
// Individual papers live under their own tab: keys.
type workspaceMeta struct {
	ActiveTabID string   `json:"active_tab_id"`
	TabOrder    []string `json:"tab_order"`
}

// LoadAppState implements Backend. Returns (nil, nil) when no snapshot has
// been written yet. A tab listed in the meta record but missing its own key
// is skipped rather than failing the whole load.
func (s *Store) LoadAppState(ctx context.Context) (*domain.AppState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meta workspaceMeta
	if err := s.get([]byte(metaKey), &meta); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace meta: %w", err)
	}

	state := domain.NewAppState()
	state.ActiveTabID = meta.ActiveTabID

	for _, id := range meta.TabOrder {
		var paper domain.Paper
		if err := s.get([]byte(tabPrefix+id), &paper); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				if s.logger != nil {
					s.logger.Warn("tab record missing, skipping", "tab_id", id)
				}
				continue
			}
			return nil, fmt.Errorf("get tab %s: %w", id, err)
		}
		state.Tabs = append(state.Tabs, &paper)
	}

	return state, nil
}

// SaveAppState implements Backend. Writes the meta record and every tab in a
// single transaction, and reconciles: tab keys no longer present in the
// snapshot are deleted.
func (s *Store) SaveAppState(ctx context.Context, state *domain.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	meta := workspaceMeta{
		ActiveTabID: state.ActiveTabID,
		TabOrder:    make([]string, 0, len(state.Tabs)),
	}
	keep := make(map[string]bool, len(state.Tabs))
	for _, p := range state.Tabs {
		meta.TabOrder = append(meta.TabOrder, p.ID)
		keep[p.ID] = true
	}

	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal workspace meta: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// Collect stale tab keys before writing the new set.
		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Seek([]byte(tabPrefix)); it.ValidForPrefix([]byte(tabPrefix)); it.Next() {
			key := it.Item().KeyCopy(nil)
			id := string(key[len(tabPrefix):])
			if !keep[id] {
				stale = append(stale, key)
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete stale tab: %w", err)
			}
		}

		for _, p := range state.Tabs {
			data, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshal tab %s: %w", p.ID, err)
			}
			if err := txn.Set([]byte(tabPrefix+p.ID), data); err != nil {
				return fmt.Errorf("set tab %s: %w", p.ID, err)
			}
		}

		return txn.Set([]byte(metaKey), metaData)
	})
}
