package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
	"github.com/paperdeskapp/paperdesk-server/internal/render"
	"github.com/paperdeskapp/paperdesk-server/internal/store"
)

// attachTestDocument uploads a three page document to the paper.
func attachTestDocument(t *testing.T, w *Workspace, paperID string) {
	t.Helper()
	_, err := w.AttachDocument(t.Context(), paperID, []byte("%PDF-1.7 test"), "paper.pdf")
	require.NoError(t, err)
}

func TestAttachDocumentResetsViewport(t *testing.T) {
	w, backend := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0]
	attachTestDocument(t, w, p.ID)

	_, err := w.GoToPage(ctx, p.ID, 3)
	require.NoError(t, err)

	attachTestDocument(t, w, p.ID)

	got, err := w.Paper(p.ID)
	require.NoError(t, err)
	assert.True(t, got.HasPDF)
	assert.Equal(t, "paper.pdf", got.PDFName)
	assert.Equal(t, domain.DefaultPage, got.LastPage)
	assert.Equal(t, 1, backend.BlobCount())
}

func TestAttachDocumentRejectsUnreadable(t *testing.T) {
	backend := store.NewMemoryBackend()
	renderer := render.NewFakeRenderer("page")
	renderer.OpenErr = render.ErrBadDocument

	w := New(backend, renderer, nil, Options{})
	require.NoError(t, w.Load(t.Context()))

	p := w.Papers()[0]
	_, err := w.AttachDocument(t.Context(), p.ID, []byte("not a pdf"), "junk.bin")
	require.Error(t, err)

	// Nothing about the paper changed.
	got, _ := w.Paper(p.ID)
	assert.False(t, got.HasPDF)
	assert.Equal(t, 0, backend.BlobCount())
}

func TestAttachDocumentOnBlobLessBackend(t *testing.T) {
	backend := store.NewMemoryBackend()
	backend.Caps = store.Capabilities{DocumentBlobs: false}

	w := New(backend, render.NewFakeRenderer("page"), nil, Options{})
	require.NoError(t, w.Load(t.Context()))

	p := w.Papers()[0]

	// The upload still works for the session; it just isn't stored.
	_, err := w.AttachDocument(t.Context(), p.ID, []byte("%PDF"), "paper.pdf")
	require.NoError(t, err)

	got, _ := w.Paper(p.ID)
	assert.True(t, got.HasPDF)
	assert.Equal(t, 0, backend.BlobCount())

	// The cached document serves renders until restart.
	img, err := w.RenderPage(t.Context(), p.ID, 1, 1.0)
	require.NoError(t, err)
	assert.NotNil(t, img)
}

func TestGoToPageClamps(t *testing.T) {
	w, _ := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0]
	attachTestDocument(t, w, p.ID) // 3 pages

	got, err := w.GoToPage(ctx, p.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 3, got.LastPage)

	got, err = w.GoToPage(ctx, p.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LastPage)
}

func TestGoToPageSamePageDoesNotPersist(t *testing.T) {
	w, backend := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0]
	attachTestDocument(t, w, p.ID)

	_, err := w.GoToPage(ctx, p.ID, 2)
	require.NoError(t, err)
	saves := backend.SaveCount()

	_, err = w.GoToPage(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, saves, backend.SaveCount())
}

func TestSetZoomClampsAndSnaps(t *testing.T) {
	w, _ := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0]

	got, err := w.SetZoom(ctx, p.ID, 10.0)
	require.NoError(t, err)
	assert.Equal(t, MaxScale, got.LastScale)

	got, err = w.SetZoom(ctx, p.ID, 0.01)
	require.NoError(t, err)
	assert.Equal(t, MinScale, got.LastScale)

	got, err = w.SetZoom(ctx, p.ID, 1.13)
	require.NoError(t, err)
	assert.Equal(t, 1.25, got.LastScale)
}

func TestSetZoomSameScaleDoesNotPersist(t *testing.T) {
	w, backend := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0]
	saves := backend.SaveCount()

	_, err := w.SetZoom(ctx, p.ID, p.LastScale)
	require.NoError(t, err)
	assert.Equal(t, saves, backend.SaveCount())
}

func TestZoomSteps(t *testing.T) {
	w, _ := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0] // starts at 1.0

	got, err := w.ZoomIn(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.25, got.LastScale)

	got, err = w.ZoomOut(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.LastScale)

	// Stepping past the bounds pins to them.
	for range 20 {
		_, err = w.ZoomOut(ctx, p.ID)
		require.NoError(t, err)
	}
	got, _ = w.Paper(p.ID)
	assert.Equal(t, MinScale, got.LastScale)
}

func TestRenderPageUsesRememberedZoom(t *testing.T) {
	w, _ := setupTestWorkspace(t)
	ctx := t.Context()

	p := w.Papers()[0]
	attachTestDocument(t, w, p.ID)

	_, err := w.SetZoom(ctx, p.ID, 2.0)
	require.NoError(t, err)

	img, err := w.RenderPage(ctx, p.ID, 1, 0)
	require.NoError(t, err)

	base, err := w.RenderPage(ctx, p.ID, 1, 1.0)
	require.NoError(t, err)
	assert.Equal(t, base.Bounds().Dx()*2, img.Bounds().Dx())
}

func TestRenderPageWithoutDocument(t *testing.T) {
	w, _ := setupTestWorkspace(t)

	p := w.Papers()[0]
	_, err := w.RenderPage(t.Context(), p.ID, 1, 1.0)
	assert.Error(t, err)
}

func TestDocumentReloadsFromBlobAfterRestart(t *testing.T) {
	backend := store.NewMemoryBackend()
	renderer := render.NewFakeRenderer("alpha", "beta")

	w := New(backend, renderer, nil, Options{})
	require.NoError(t, w.Load(t.Context()))
	p := w.Papers()[0]
	attachTestDocument(t, w, p.ID)
	require.NoError(t, w.Shutdown(t.Context()))

	// Fresh workspace over the same backend: the blob feeds the renderer.
	w2 := New(backend, renderer, nil, Options{})
	require.NoError(t, w2.Load(t.Context()))

	count, err := w2.PageCount(t.Context(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
