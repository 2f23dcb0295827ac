package service

import (
	"context"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
	"github.com/paperdeskapp/paperdesk-server/internal/errors"
	"github.com/paperdeskapp/paperdesk-server/internal/id"
	"github.com/paperdeskapp/paperdesk-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// NewHighlightInput describes a highlight captured by the viewer: the
// selected text, the page, the selection rectangles in page-pixel
// coordinates, and the zoom scale those rectangles were measured at.
type NewHighlightInput struct {
	Text  string        `json:"text"`
	Page  int           `json:"page" validate:"gte=1"`
	Rects []domain.Rect `json:"rects" validate:"required,min=1"`
	Color string        `json:"color"`
}

// ProjectedHighlight is a highlight with its rectangles converted to the
// caller's current zoom scale.
type ProjectedHighlight struct {
	domain.Highlight
	ProjectedRects []domain.Rect `json:"projectedRects"`
}

// AddHighlight records a highlight on a paper. The rectangles are stored
// at the paper's current zoom so later projections can rescale them.
// Selections whose every rectangle is sub-pixel noise are rejected.
func (w *Workspace) AddHighlight(ctx context.Context, paperID string, input NewHighlightInput) (*domain.Highlight, error) {
	if err := validate.Validate(input); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}

	h, err := domain.NewHighlight(
		id.MustGenerate(id.PrefixHighlight),
		input.Text,
		input.Page,
		input.Rects,
		input.Color,
		p.LastScale,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoUsableRects):
			return nil, errors.Validation("selection has no usable rectangles")
		case errors.Is(err, domain.ErrInvalidColor):
			return nil, errors.Validationf("color must be one of %v", domain.HighlightColors)
		default:
			return nil, err
		}
	}

	p.Highlights = append(p.Highlights, *h)
	p.Touch()

	if err := w.index.IndexPaper(p); err != nil {
		w.logger.Warn("failed to reindex highlights", "paper_id", paperID, "error", err)
	}

	w.persistNowLocked(ctx)
	w.logger.Debug("highlight added", "paper_id", paperID, "highlight_id", h.ID, "page", h.Page)
	return h, nil
}

// DeleteHighlight removes a highlight. Deleting an unknown highlight is
// a no-op, not an error: the panel may issue the same delete twice.
func (w *Workspace) DeleteHighlight(ctx context.Context, paperID, highlightID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return err
	}

	if !p.RemoveHighlight(highlightID) {
		return nil
	}

	if err := w.index.IndexPaper(p); err != nil {
		w.logger.Warn("failed to reindex highlights", "paper_id", paperID, "error", err)
	}

	w.persistNowLocked(ctx)
	return nil
}

// HighlightsOnPage returns the highlights on one page with rectangles
// projected to the given zoom scale.
func (w *Workspace) HighlightsOnPage(paperID string, page int, scale float64) ([]ProjectedHighlight, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}

	if scale <= 0 {
		scale = p.LastScale
	}

	highlights := p.HighlightsOnPage(page)
	out := make([]ProjectedHighlight, 0, len(highlights))
	for _, h := range highlights {
		out = append(out, ProjectedHighlight{
			Highlight:      h,
			ProjectedRects: domain.ProjectRects(h, scale),
		})
	}
	return out, nil
}

// PanelHighlights returns a paper's highlights for the side panel:
// non-empty text only, page ascending.
func (w *Workspace) PanelHighlights(paperID string) ([]domain.Highlight, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.paperLocked(paperID)
	if err != nil {
		return nil, err
	}
	return p.PanelHighlights(), nil
}

// Palette reports the colors a highlight may use.
func (w *Workspace) Palette() []string {
	out := make([]string, len(domain.HighlightColors))
	copy(out, domain.HighlightColors)
	return out
}
