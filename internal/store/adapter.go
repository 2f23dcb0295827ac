package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

// Adapter wraps the active backend plus an optional spare used only for the
// app-state save path: when a primary write fails, one attempt is made on the
// spare before the failure is reported. Backend selection happens once at
// startup and is fixed for the process lifetime; callers see only the active
// backend's capabilities.
type Adapter struct {
	primary Backend
	spare   Backend // nil when the process already runs degraded
	logger  *slog.Logger
}

// NewAdapter wraps primary with an optional spare backend.
func NewAdapter(primary, spare Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{primary: primary, spare: spare, logger: logger}
}

// Name returns the active backend's name.
func (a *Adapter) Name() string { return a.primary.Name() }

// Capabilities returns the active backend's capabilities.
func (a *Adapter) Capabilities() Capabilities { return a.primary.Capabilities() }

// LoadAppState reads the snapshot from the active backend, falling back to
// the spare when the primary read fails outright.
func (a *Adapter) LoadAppState(ctx context.Context) (*domain.AppState, error) {
	state, err := a.primary.LoadAppState(ctx)
	if err == nil {
		return state, nil
	}
	if a.spare == nil {
		return nil, err
	}

	a.logger.Warn("primary app state read failed, trying fallback",
		"backend", a.primary.Name(), "error", err)
	return a.spare.LoadAppState(ctx)
}

// SaveAppState writes the snapshot to the active backend. On failure one
// write is attempted on the spare; an error is returned only when every
// attempt failed. Callers treat that error as report-and-continue; the
// in-memory state is already committed.
func (a *Adapter) SaveAppState(ctx context.Context, state *domain.AppState) error {
	primaryErr := a.primary.SaveAppState(ctx, state)
	if primaryErr == nil {
		return nil
	}

	a.logger.Warn("primary app state write failed",
		"backend", a.primary.Name(), "error", primaryErr)

	if a.spare == nil {
		return primaryErr
	}

	if spareErr := a.spare.SaveAppState(ctx, state); spareErr != nil {
		return fmt.Errorf("primary write failed (%v); fallback write failed: %w", primaryErr, spareErr)
	}

	a.logger.Info("app state saved via fallback backend", "backend", a.spare.Name())
	return nil
}

// PutDocumentBlob stores a document on the active backend.
func (a *Adapter) PutDocumentBlob(ctx context.Context, paperID string, data []byte, fileName string) error {
	return a.primary.PutDocumentBlob(ctx, paperID, data, fileName)
}

// GetDocumentBlob reads a document from the active backend.
func (a *Adapter) GetDocumentBlob(ctx context.Context, paperID string) (*DocumentBlob, error) {
	return a.primary.GetDocumentBlob(ctx, paperID)
}

// DeleteDocumentBlob removes a document from the active backend.
func (a *Adapter) DeleteDocumentBlob(ctx context.Context, paperID string) error {
	return a.primary.DeleteDocumentBlob(ctx, paperID)
}

// Close closes both backends.
func (a *Adapter) Close() error {
	err := a.primary.Close()
	if a.spare != nil {
		if spareErr := a.spare.Close(); err == nil {
			err = spareErr
		}
	}
	return err
}
