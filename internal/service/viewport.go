package service

import (
	"context"
	"image"
	"math"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
	"github.com/paperdeskapp/paperdesk-server/internal/errors"
	"github.com/paperdeskapp/paperdesk-server/internal/render"
	"github.com/paperdeskapp/paperdesk-server/internal/store"
)

// Zoom bounds. Scale moves in quarter steps between 25% and 300%.
const (
	MinScale  = 0.25
	MaxScale  = 3.0
	ScaleStep = 0.25
)

// GoToPage navigates a paper's viewport to the given page, clamped to
// the document's page range. Navigating to the current page is a no-op
// and does not persist.
func (w *Workspace) GoToPage(ctx context.Context, paperID string, page int) (*domain.Paper, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}

	if page < domain.DefaultPage {
		page = domain.DefaultPage
	}
	// The upper bound needs the document; without one, only the lower
	// bound applies. A stale out-of-range LastPage from an older longer
	// document is corrected here, on navigation, not on load.
	if doc, docErr := w.documentLocked(ctx, p); docErr == nil {
		if n := doc.PageCount(); page > n {
			page = n
		}
	}

	if page == p.LastPage {
		return p, nil
	}

	p.LastPage = page
	p.Touch()
	w.persistNowLocked(ctx)
	return p, nil
}

// SetZoom sets a paper's zoom scale, clamped to [MinScale, MaxScale] and
// snapped to the quarter-step grid. Setting the current scale is a no-op
// and does not persist.
func (w *Workspace) SetZoom(ctx context.Context, paperID string, scale float64) (*domain.Paper, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}

	scale = clampScale(scale)
	if scale == p.LastScale {
		return p, nil
	}

	p.LastScale = scale
	p.Touch()
	w.persistNowLocked(ctx)
	return p, nil
}

// ZoomIn increases the zoom by one step.
func (w *Workspace) ZoomIn(ctx context.Context, paperID string) (*domain.Paper, error) {
	return w.zoomBy(ctx, paperID, ScaleStep)
}

// ZoomOut decreases the zoom by one step.
func (w *Workspace) ZoomOut(ctx context.Context, paperID string) (*domain.Paper, error) {
	return w.zoomBy(ctx, paperID, -ScaleStep)
}

func (w *Workspace) zoomBy(ctx context.Context, paperID string, delta float64) (*domain.Paper, error) {
	w.mu.Lock()
	current := 0.0
	if p, _ := w.state.Find(paperID); p != nil {
		current = p.LastScale
	}
	w.mu.Unlock()

	return w.SetZoom(ctx, paperID, current+delta)
}

// clampScale snaps to the quarter-step grid inside [MinScale, MaxScale].
func clampScale(scale float64) float64 {
	scale = math.Round(scale/ScaleStep) * ScaleStep
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}

// AttachDocument validates and stores an uploaded PDF for a paper. The
// upload is rejected outright when the bytes are not a readable PDF;
// nothing about the paper changes in that case. On backends without blob
// support the document serves the current session only and a restart
// loses it.
func (w *Workspace) AttachDocument(ctx context.Context, paperID string, data []byte, fileName string) (*domain.Paper, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}

	doc, err := w.renderer.Open(data)
	if err != nil {
		return nil, errors.Validation("file is not a readable PDF").WithCause(err)
	}

	if w.backend.Capabilities().DocumentBlobs {
		if err := w.backend.PutDocumentBlob(ctx, paperID, data, fileName); err != nil {
			doc.Close()
			return nil, errors.InternalWithCause("failed to store document", err)
		}
	} else {
		w.logger.Warn("backend cannot store documents, upload is session-only",
			"backend", w.backend.Name(), "paper_id", paperID)
	}

	if old, ok := w.docs[paperID]; ok {
		old.Close()
	}
	w.docs[paperID] = doc

	p.AttachDocument(fileName)

	w.indexDocumentTextLocked(p, doc)
	if err := w.index.IndexPaper(p); err != nil {
		w.logger.Warn("failed to reindex paper after upload", "paper_id", paperID, "error", err)
	}

	w.persistNowLocked(ctx)
	w.logger.Info("document attached",
		"paper_id", paperID, "file", fileName, "pages", doc.PageCount())
	return p, nil
}

// indexDocumentTextLocked extracts every page's text and feeds the
// search index. Extraction failures degrade search, nothing else.
func (w *Workspace) indexDocumentTextLocked(p *domain.Paper, doc render.Document) {
	n := doc.PageCount()
	texts := make([]string, n)
	for page := 1; page <= n; page++ {
		text, err := doc.PageText(page)
		if err != nil {
			w.logger.Warn("failed to extract page text",
				"paper_id", p.ID, "page", page, "error", err)
			continue
		}
		texts[page-1] = text
	}
	if err := w.index.IndexPages(p, texts); err != nil {
		w.logger.Warn("failed to index page text", "paper_id", p.ID, "error", err)
	}
}

// PageCount reports the page count of a paper's document.
func (w *Workspace) PageCount(ctx context.Context, paperID string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return 0, err
	}
	doc, err := w.documentLocked(ctx, p)
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// RenderPage rasterizes one page of a paper's document at the given
// scale. A non-positive scale uses the paper's remembered zoom. The page
// is clamped to the document's range.
func (w *Workspace) RenderPage(ctx context.Context, paperID string, page int, scale float64) (image.Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}
	doc, err := w.documentLocked(ctx, p)
	if err != nil {
		return nil, err
	}

	if scale <= 0 {
		scale = p.LastScale
	}
	scale = clampScale(scale)

	if page < 1 {
		page = 1
	}
	if n := doc.PageCount(); page > n {
		page = n
	}

	return doc.PageImage(page, scale)
}

// documentLocked returns the open document for a paper, loading it from
// the blob store on first use.
func (w *Workspace) documentLocked(ctx context.Context, p *domain.Paper) (render.Document, error) {
	if doc, ok := w.docs[p.ID]; ok {
		return doc, nil
	}
	if !p.HasPDF {
		return nil, errors.NotFoundf("paper %s has no document", p.ID)
	}

	blob, err := w.backend.GetDocumentBlob(ctx, p.ID)
	if err != nil {
		if errors.Is(err, store.ErrUnsupported) {
			return nil, errors.Unsupported("document storage unavailable on fallback backend")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("document for paper %s not found", p.ID)
		}
		return nil, errors.InternalWithCause("failed to load document", err)
	}

	doc, err := w.renderer.Open(blob.Data)
	if err != nil {
		return nil, errors.InternalWithCause("stored document is unreadable", err)
	}
	w.docs[p.ID] = doc
	return doc, nil
}
