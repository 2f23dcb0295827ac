package service

import (
	"context"
	"strings"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
	"github.com/paperdeskapp/paperdesk-server/internal/errors"
	"github.com/paperdeskapp/paperdesk-server/internal/id"
	"github.com/paperdeskapp/paperdesk-server/internal/store"
)

// Papers returns all open papers in tab order.
func (w *Workspace) Papers() []*domain.Paper {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]*domain.Paper, len(w.state.Tabs))
	copy(out, w.state.Tabs)
	return out
}

// ActivePaper returns the currently active paper. The workspace always
// has one.
func (w *Workspace) ActivePaper() *domain.Paper {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Active()
}

// ActiveTabID returns the ID of the active paper.
func (w *Workspace) ActiveTabID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.ActiveTabID
}

// Paper returns one paper by ID.
func (w *Workspace) Paper(paperID string) (*domain.Paper, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paperLocked(paperID)
}

func (w *Workspace) paperLocked(paperID string) (*domain.Paper, error) {
	p, _ := w.state.Find(paperID)
	if p == nil {
		return nil, errors.NotFoundf("paper %s not found", paperID)
	}
	return p, nil
}

// CreatePaper opens a new empty paper and makes it active. Pending edits
// on the previous active paper are committed first.
func (w *Workspace) CreatePaper(ctx context.Context, name string) (*domain.Paper, error) {
	w.CommitPendingEdits()

	w.mu.Lock()
	defer w.mu.Unlock()

	p := domain.NewPaper(id.MustGenerate(id.PrefixTab), strings.TrimSpace(name))
	w.state.Append(p)

	if err := w.index.IndexPaper(p); err != nil {
		w.logger.Warn("failed to index new paper", "paper_id", p.ID, "error", err)
	}

	w.persistNowLocked(ctx)
	w.logger.Info("paper created", "paper_id", p.ID, "name", p.Name)
	return p, nil
}

// SwitchTo makes another paper active. The outgoing paper's buffered
// edits are committed before the switch so nothing rides across tabs.
func (w *Workspace) SwitchTo(ctx context.Context, paperID string) (*domain.Paper, error) {
	w.CommitPendingEdits()

	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}
	if w.state.ActiveTabID == paperID {
		return p, nil
	}

	w.state.ActiveTabID = paperID
	w.persistNowLocked(ctx)
	return p, nil
}

// ClosePaper removes a paper. Closing the last paper replaces it with a
// fresh empty one so the workspace is never without a tab. When the
// closed paper was active, the paper now occupying the same tab position
// becomes active (or the new last tab if the closed one was rightmost).
func (w *Workspace) ClosePaper(ctx context.Context, paperID string) error {
	w.CommitPendingEdits()

	w.mu.Lock()
	defer w.mu.Unlock()

	p, index := w.state.Find(paperID)
	if p == nil {
		return errors.NotFoundf("paper %s not found", paperID)
	}

	wasActive := w.state.ActiveTabID == paperID
	w.state.Remove(index)

	if doc, ok := w.docs[paperID]; ok {
		if err := doc.Close(); err != nil {
			w.logger.Warn("failed to close document", "paper_id", paperID, "error", err)
		}
		delete(w.docs, paperID)
	}

	if err := w.backend.DeleteDocumentBlob(ctx, paperID); err != nil && !errors.Is(err, store.ErrUnsupported) {
		w.logger.Warn("failed to delete document blob", "paper_id", paperID, "error", err)
	}

	if err := w.index.RemovePaper(paperID); err != nil {
		w.logger.Warn("failed to deindex paper", "paper_id", paperID, "error", err)
	}

	if len(w.state.Tabs) == 0 {
		fresh := domain.NewPaper(id.MustGenerate(id.PrefixTab), domain.DefaultPaperName)
		w.state.Append(fresh)
		if err := w.index.IndexPaper(fresh); err != nil {
			w.logger.Warn("failed to index replacement paper", "paper_id", fresh.ID, "error", err)
		}
	} else if wasActive {
		if index >= len(w.state.Tabs) {
			index = len(w.state.Tabs) - 1
		}
		w.state.ActiveTabID = w.state.Tabs[index].ID
	}

	w.persistNowLocked(ctx)
	w.logger.Info("paper closed", "paper_id", paperID, "active", w.state.ActiveTabID)
	return nil
}

// RenamePaper changes a paper's display name.
func (w *Workspace) RenamePaper(ctx context.Context, paperID, name string) (*domain.Paper, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("paper name cannot be empty")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.Touch()

	if err := w.index.IndexPaper(p); err != nil {
		w.logger.Warn("failed to reindex renamed paper", "paper_id", paperID, "error", err)
	}

	w.persistNowLocked(ctx)
	return p, nil
}

// UpdateNotes replaces a paper's notes. Saves are debounced: a burst of
// keystrokes produces one write after the quiet period.
func (w *Workspace) UpdateNotes(_ context.Context, paperID, notes string) (*domain.Paper, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}

	p.Notes = notes
	p.Touch()

	if err := w.index.IndexPaper(p); err != nil {
		w.logger.Warn("failed to reindex notes", "paper_id", paperID, "error", err)
	}

	w.scheduleSave()
	return p, nil
}
