package store

import (
	"context"
	"encoding/json/v2"
	"sync"
	"time"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

// MemoryBackend is an in-memory Backend for testing. It round-trips the
// snapshot through JSON so tests exercise the same serialization path as the
// real backends, counts writes, and can be told to fail.
type MemoryBackend struct {
	mu    sync.Mutex
	state []byte
	blobs map[string]DocumentBlob

	Caps      Capabilities
	SaveErr   error // returned by SaveAppState when set
	LoadErr   error // returned by LoadAppState when set
	SaveCalls int
}

// NewMemoryBackend creates a memory backend with full capabilities.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		blobs: make(map[string]DocumentBlob),
		Caps:  Capabilities{DocumentBlobs: true},
	}
}

// Name implements Backend.
func (m *MemoryBackend) Name() string { return "memory" }

// Capabilities implements Backend.
func (m *MemoryBackend) Capabilities() Capabilities { return m.Caps }

// LoadAppState implements Backend.
func (m *MemoryBackend) LoadAppState(_ context.Context) (*domain.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.state == nil {
		return nil, nil
	}
	var state domain.AppState
	if err := json.Unmarshal(m.state, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveAppState implements Backend.
func (m *MemoryBackend) SaveAppState(_ context.Context, state *domain.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.state = data
	return nil
}

// PutDocumentBlob implements Backend.
func (m *MemoryBackend) PutDocumentBlob(_ context.Context, paperID string, data []byte, fileName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Caps.DocumentBlobs {
		return ErrUnsupported
	}
	m.blobs[paperID] = DocumentBlob{
		Data:       append([]byte(nil), data...),
		FileName:   fileName,
		UploadedAt: time.Now(),
	}
	return nil
}

// GetDocumentBlob implements Backend.
func (m *MemoryBackend) GetDocumentBlob(_ context.Context, paperID string) (*DocumentBlob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Caps.DocumentBlobs {
		return nil, ErrUnsupported
	}
	blob, ok := m.blobs[paperID]
	if !ok {
		return nil, ErrNotFound
	}
	return &blob, nil
}

// DeleteDocumentBlob implements Backend.
func (m *MemoryBackend) DeleteDocumentBlob(_ context.Context, paperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Caps.DocumentBlobs {
		return ErrUnsupported
	}
	delete(m.blobs, paperID)
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error { return nil }

// SaveCount reports how many saves were attempted, for test assertions.
// Unlike reading SaveCalls directly, this is safe while a background
// save may be running.
func (m *MemoryBackend) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveCalls
}

// BlobCount reports how many blobs are stored, for test assertions.
func (m *MemoryBackend) BlobCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
