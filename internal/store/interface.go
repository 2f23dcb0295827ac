package store

import (
	"context"
	"time"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

// Capabilities advertises which operations a backend supports. Callers branch
// on these flags instead of discovering missing features through failed
// writes; in particular the sqlite fallback cannot hold document blobs, so
// papers behave as if they have no document while it is active.
type Capabilities struct {
	DocumentBlobs bool
}

// DocumentBlob is a stored PDF plus its original upload name.
type DocumentBlob struct {
	Data       []byte
	FileName   string
	UploadedAt time.Time
}

// Backend is a durable store for the workspace snapshot and document blobs.
// Blobs are keyed by the owning paper's ID.
type Backend interface {
	// Name identifies the backend in logs ("badger", "sqlite-fallback").
	Name() string

	Capabilities() Capabilities

	// LoadAppState returns the persisted snapshot, or (nil, nil) when the
	// store holds none yet.
	LoadAppState(ctx context.Context) (*domain.AppState, error)
	SaveAppState(ctx context.Context, state *domain.AppState) error

	// Blob operations return ErrUnsupported on backends whose Capabilities
	// exclude DocumentBlobs, and ErrNotFound for absent blobs.
	PutDocumentBlob(ctx context.Context, paperID string, data []byte, fileName string) error
	GetDocumentBlob(ctx context.Context, paperID string) (*DocumentBlob, error)
	DeleteDocumentBlob(ctx context.Context, paperID string) error

	Close() error
}
