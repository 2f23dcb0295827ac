package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
	domainerrors "github.com/paperdeskapp/paperdesk-server/internal/errors"
)

func addTestHighlight(t *testing.T, w *Workspace, paperID string) *domain.Highlight {
	t.Helper()

	h, err := w.AddHighlight(t.Context(), paperID, NewHighlightInput{
		Text:  "important finding",
		Page:  2,
		Rects: []domain.Rect{{Left: 40, Top: 80, Width: 200, Height: 16}},
		Color: domain.ColorGreen,
	})
	require.NoError(t, err)
	return h
}

func TestAddHighlightCapturesCurrentScale(t *testing.T) {
	w, _ := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0]
	_, err := w.SetZoom(ctx, p.ID, 1.5)
	require.NoError(t, err)

	h := addTestHighlight(t, w, p.ID)
	assert.Equal(t, 1.5, h.Scale)
	assert.Equal(t, domain.ColorGreen, h.Color)
}

func TestAddHighlightDefaultsColor(t *testing.T) {
	w, _ := setupTestWorkspace(t)

	p := w.Papers()[0]
	h, err := w.AddHighlight(t.Context(), p.ID, NewHighlightInput{
		Text:  "plain",
		Page:  1,
		Rects: []domain.Rect{{Left: 0, Top: 0, Width: 50, Height: 12}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultColor, h.Color)
}

func TestAddHighlightRejectsNoiseOnlySelection(t *testing.T) {
	w, _ := setupTestWorkspace(t)

	p := w.Papers()[0]
	_, err := w.AddHighlight(t.Context(), p.ID, NewHighlightInput{
		Text:  "ghost",
		Page:  1,
		Rects: []domain.Rect{{Left: 5, Top: 5, Width: 0.5, Height: 0.5}},
	})
	assert.Error(t, err)

	got, _ := w.Paper(p.ID)
	assert.Empty(t, got.Highlights)
}

func TestAddHighlightRejectsUnknownColor(t *testing.T) {
	w, _ := setupTestWorkspace(t)

	p := w.Papers()[0]
	_, err := w.AddHighlight(t.Context(), p.ID, NewHighlightInput{
		Text:  "x",
		Page:  1,
		Rects: []domain.Rect{{Left: 0, Top: 0, Width: 50, Height: 12}},
		Color: "mauve",
	})
	assert.Error(t, err)
}

func TestDeleteHighlightIsIdempotent(t *testing.T) {
	w, backend := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0]
	h := addTestHighlight(t, w, p.ID)

	require.NoError(t, w.DeleteHighlight(ctx, p.ID, h.ID))
	saves := backend.SaveCount()

	// Second delete of the same ID is a silent no-op and does not persist.
	require.NoError(t, w.DeleteHighlight(ctx, p.ID, h.ID))
	assert.Equal(t, saves, backend.SaveCount())

	got, _ := w.Paper(p.ID)
	assert.Empty(t, got.Highlights)
}

func TestHighlightsOnPageProjects(t *testing.T) {
	w, _ := setupTestWorkspace(t)

	p := w.Papers()[0]
	h := addTestHighlight(t, w, p.ID) // captured at scale 1.0

	// Viewing at double the captured scale doubles every rectangle.
	projected, err := w.HighlightsOnPage(p.ID, 2, 2.0)
	require.NoError(t, err)
	require.Len(t, projected, 1)
	assert.Equal(t, h.ID, projected[0].ID)

	orig := h.Rects[0]
	proj := projected[0].ProjectedRects[0]
	assert.Equal(t, orig.Left*2, proj.Left)
	assert.Equal(t, orig.Width*2, proj.Width)

	// Stored rects are untouched.
	got, _ := w.Paper(p.ID)
	assert.Equal(t, orig, got.Highlights[0].Rects[0])
}

func TestHighlightsOnPageFiltersByPage(t *testing.T) {
	w, _ := setupTestWorkspace(t)

	p := w.Papers()[0]
	addTestHighlight(t, w, p.ID) // page 2

	none, err := w.HighlightsOnPage(p.ID, 1, 1.0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPanelHighlightsOrder(t *testing.T) {
	w, _ := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0]

	for _, in := range []NewHighlightInput{
		{Text: "late chapter", Page: 9, Rects: []domain.Rect{{Width: 50, Height: 12}}},
		{Text: "", Page: 1, Rects: []domain.Rect{{Width: 50, Height: 12}}},
		{Text: "early chapter", Page: 2, Rects: []domain.Rect{{Width: 50, Height: 12}}},
	} {
		_, err := w.AddHighlight(ctx, p.ID, in)
		require.NoError(t, err)
	}

	panel, err := w.PanelHighlights(p.ID)
	require.NoError(t, err)
	require.Len(t, panel, 2)
	assert.Equal(t, "early chapter", panel[0].Text)
	assert.Equal(t, "late chapter", panel[1].Text)
}

func TestPalette(t *testing.T) {
	w, _ := setupTestWorkspace(t)

	palette := w.Palette()
	assert.Equal(t, domain.HighlightColors, palette)
	assert.Equal(t, domain.DefaultColor, palette[0])
}

func TestAddHighlightRejectsMissingRects(t *testing.T) {
	w, backend := setupTestWorkspace(t)
	p := w.ActivePaper()
	saves := backend.SaveCount()

	_, err := w.AddHighlight(t.Context(), p.ID, NewHighlightInput{Text: "x", Page: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))

	_, err = w.AddHighlight(t.Context(), p.ID, NewHighlightInput{
		Text:  "x",
		Page:  0,
		Rects: []domain.Rect{{Width: 50, Height: 12}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))

	assert.Equal(t, saves, backend.SaveCount())
}
