package render

import (
	"fmt"
	"image"
)

// FakeRenderer is a Renderer for tests. Every opened document reports
// the configured pages without touching MuPDF.
type FakeRenderer struct {
	// PageTexts is the per-page text of documents this renderer opens,
	// index 0 holding page 1.
	PageTexts []string

	// OpenErr, when set, fails every Open call.
	OpenErr error
}

// NewFakeRenderer creates a fake whose documents have one page per entry.
func NewFakeRenderer(pageTexts ...string) *FakeRenderer {
	if len(pageTexts) == 0 {
		pageTexts = []string{""}
	}
	return &FakeRenderer{PageTexts: pageTexts}
}

// Open implements Renderer.
func (r *FakeRenderer) Open(_ []byte) (Document, error) {
	if r.OpenErr != nil {
		return nil, r.OpenErr
	}
	texts := make([]string, len(r.PageTexts))
	copy(texts, r.PageTexts)
	return &FakeDocument{texts: texts}, nil
}

// FakeDocument is the Document produced by FakeRenderer.
type FakeDocument struct {
	texts  []string
	closed bool
}

// PageCount implements Document.
func (d *FakeDocument) PageCount() int { return len(d.texts) }

// PageText implements Document.
func (d *FakeDocument) PageText(page int) (string, error) {
	if page < 1 || page > len(d.texts) {
		return "", fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, len(d.texts))
	}
	return d.texts[page-1], nil
}

// PageImage implements Document. The raster is a blank image whose
// dimensions scale like a real page so size assertions work.
func (d *FakeDocument) PageImage(page int, scale float64) (image.Image, error) {
	if page < 1 || page > len(d.texts) {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, len(d.texts))
	}
	if scale <= 0 {
		scale = 1.0
	}
	w := int(612 * scale) // US Letter at 72 DPI
	h := int(792 * scale)
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

// Close implements Document.
func (d *FakeDocument) Close() error {
	d.closed = true
	return nil
}

// Closed reports whether Close was called, for test assertions.
func (d *FakeDocument) Closed() bool { return d.closed }
