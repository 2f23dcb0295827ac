package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// blobMeta is stored alongside the raw bytes under its own key so the file
// name can be read without loading the document.
type blobMeta struct {
	FileName   string    `json:"file_name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PutDocumentBlob implements Backend. Overwrites any existing blob for the
// paper; a tab holds at most one document.
func (s *Store) PutDocumentBlob(ctx context.Context, paperID string, data []byte, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	meta := blobMeta{
		FileName:   fileName,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal blob meta: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(blobPrefix+paperID), data); err != nil {
			return fmt.Errorf("set blob: %w", err)
		}
		return txn.Set([]byte(blobMetaPrefix+paperID), metaData)
	})
}

// GetDocumentBlob implements Backend. Returns ErrNotFound when the paper has
// no stored document.
func (s *Store) GetDocumentBlob(ctx context.Context, paperID string) (*DocumentBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var blob DocumentBlob
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(blobPrefix + paperID))
		if err != nil {
			return err
		}
		blob.Data, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		metaItem, err := txn.Get([]byte(blobMetaPrefix + paperID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			// Blob without meta still loads; the name is just unknown.
			return nil
		}
		if err != nil {
			return err
		}
		return metaItem.Value(func(val []byte) error {
			var meta blobMeta
			if err := json.Unmarshal(val, &meta); err != nil {
				return err
			}
			blob.FileName = meta.FileName
			blob.UploadedAt = meta.UploadedAt
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", paperID, err)
	}

	return &blob, nil
}

// DeleteDocumentBlob implements Backend. Deleting an absent blob is a no-op.
func (s *Store) DeleteDocumentBlob(ctx context.Context, paperID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(blobPrefix + paperID)); err != nil {
			return fmt.Errorf("delete blob: %w", err)
		}
		return txn.Delete([]byte(blobMetaPrefix + paperID))
	})
}
