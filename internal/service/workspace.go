// Package service implements the workspace: the set of open papers, the
// active tab, viewport memory, notes, and highlights. The in-memory state
// is authoritative; persistence is best-effort and never fails a user
// operation.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
	"github.com/paperdeskapp/paperdesk-server/internal/id"
	"github.com/paperdeskapp/paperdesk-server/internal/render"
	"github.com/paperdeskapp/paperdesk-server/internal/search"
	"github.com/paperdeskapp/paperdesk-server/internal/store"
)

// Indexer maintains the full-text index alongside workspace mutations.
// This avoids a hard dependency on a real Bleve index in tests.
type Indexer interface {
	IndexPaper(p *domain.Paper) error
	IndexPages(p *domain.Paper, pageTexts []string) error
	RemovePaper(paperID string) error
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
}

// NoopIndexer is an Indexer that does nothing.
type NoopIndexer struct{}

// NewNoopIndexer creates a no-op indexer for tests and degraded mode.
func NewNoopIndexer() *NoopIndexer { return &NoopIndexer{} }

func (NoopIndexer) IndexPaper(*domain.Paper) error              { return nil }
func (NoopIndexer) IndexPages(*domain.Paper, []string) error    { return nil }
func (NoopIndexer) RemovePaper(string) error                    { return nil }
func (NoopIndexer) Search(_ context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return &search.SearchResult{Query: params.Query, Hits: []search.SearchHit{}}, nil
}

// AlertSink receives persistence failure notices so the frontend can show
// the user their work is no longer being saved. Alerts fire on failure,
// not per retry.
type AlertSink interface {
	PersistenceDegraded(backend string, err error)
}

// NoopAlerts is an AlertSink that drops notices.
type NoopAlerts struct{}

func (NoopAlerts) PersistenceDegraded(string, error) {}

// Options configures a Workspace.
type Options struct {
	// AutosaveDelay is the quiet period before buffered edits persist.
	// Zero uses a default suited to interactive typing.
	AutosaveDelay time.Duration
	Logger        *slog.Logger
	Alerts        AlertSink
}

const defaultAutosaveDelay = 800 * time.Millisecond

// Workspace is the single mutable session: all open papers plus which one
// is active. One instance serves all requests; the mutex serializes
// mutations the way the browser's event loop did for the original
// single-user tool.
type Workspace struct {
	mu    sync.Mutex
	state *domain.AppState

	backend  store.Backend
	renderer render.Renderer
	index    Indexer
	logger   *slog.Logger
	alerts   AlertSink
	autosave *Debouncer

	// docs caches open documents by paper ID so repeated page renders
	// don't reparse the PDF.
	docs map[string]render.Document
}

// New creates a workspace over the given backend and renderer. Call Load
// before serving requests.
func New(backend store.Backend, renderer render.Renderer, index Indexer, opts Options) *Workspace {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Alerts == nil {
		opts.Alerts = NoopAlerts{}
	}
	if opts.AutosaveDelay <= 0 {
		opts.AutosaveDelay = defaultAutosaveDelay
	}
	if index == nil {
		index = NewNoopIndexer()
	}

	w := &Workspace{
		backend:  backend,
		renderer: renderer,
		index:    index,
		logger:   opts.Logger,
		alerts:   opts.Alerts,
		docs:     make(map[string]render.Document),
	}
	w.autosave = NewDebouncer(opts.AutosaveDelay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.persistLocked(context.Background())
	})
	return w
}

// Load restores the persisted snapshot, or bootstraps a fresh workspace
// with one empty paper when none exists. The workspace is never empty
// after Load returns.
func (w *Workspace) Load(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	state, err := w.backend.LoadAppState(ctx)
	if err != nil {
		// Unreadable snapshot: start fresh rather than refuse to boot.
		// The old data stays on disk untouched until the next save.
		w.logger.Error("failed to load workspace, starting empty", "error", err)
		state = nil
	}

	if state == nil {
		state = domain.NewAppState()
	}

	if len(state.Tabs) == 0 {
		p := domain.NewPaper(id.MustGenerate(id.PrefixTab), domain.DefaultPaperName)
		state.Append(p)
		w.logger.Info("bootstrapped empty workspace", "paper_id", p.ID)
	}

	// Heal a dangling active reference from a partial old save.
	if _, i := state.Find(state.ActiveTabID); i < 0 {
		state.ActiveTabID = state.Tabs[0].ID
	}

	w.state = state

	for _, p := range state.Tabs {
		if err := w.index.IndexPaper(p); err != nil {
			w.logger.Warn("failed to index paper on load", "paper_id", p.ID, "error", err)
		}
	}

	w.logger.Info("workspace loaded",
		"papers", len(state.Tabs),
		"active", state.ActiveTabID,
		"backend", w.backend.Name(),
	)
	return nil
}

// Search runs a full-text query across paper names, notes, highlight
// text, and extracted page text.
func (w *Workspace) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return w.index.Search(ctx, params)
}

// BackendName reports which persistence backend is active.
func (w *Workspace) BackendName() string { return w.backend.Name() }

// BackendCapabilities reports what the active backend supports.
func (w *Workspace) BackendCapabilities() store.Capabilities { return w.backend.Capabilities() }

// Shutdown flushes pending edits, persists a final snapshot, and closes
// cached documents. The backend itself is closed by its owner.
func (w *Workspace) Shutdown(ctx context.Context) error {
	w.autosave.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.persistLocked(ctx)

	for paperID, doc := range w.docs {
		if err := doc.Close(); err != nil {
			w.logger.Warn("failed to close document", "paper_id", paperID, "error", err)
		}
		delete(w.docs, paperID)
	}

	w.logger.Info("workspace shut down")
	return nil
}

// scheduleSave buffers a persist for high-frequency edits (typing).
func (w *Workspace) scheduleSave() {
	w.autosave.Schedule()
}

// CommitPendingEdits persists any buffered edits immediately.
func (w *Workspace) CommitPendingEdits() {
	w.autosave.Flush()
}

// persistLocked writes the snapshot. Failures are reported through the
// alert sink and logged, never returned: the in-memory state is already
// committed, and losing a save must not fail the user action that
// triggered it.
func (w *Workspace) persistLocked(ctx context.Context) {
	if w.state == nil {
		return
	}
	if err := w.backend.SaveAppState(ctx, w.state); err != nil {
		w.logger.Error("workspace save failed on all backends", "error", err)
		w.alerts.PersistenceDegraded(w.backend.Name(), err)
	}
}

// persistNowLocked cancels any pending autosave and writes immediately.
// Structural changes (create, close, attach) always persist right away.
func (w *Workspace) persistNowLocked(ctx context.Context) {
	w.autosave.Stop()
	w.persistLocked(ctx)
}
