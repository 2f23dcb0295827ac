package domain

import "time"

// DefaultPaperName is used when a paper is created without an explicit name.
const DefaultPaperName = "Untitled Paper"

// Viewport defaults for a freshly created paper.
const (
	DefaultPage  = 1
	DefaultScale = 1.0
)

// Paper is one open tab in the workspace: a PDF document reference, free-text
// notes, positional highlights, and viewport memory (last page and zoom).
//
// The document bytes are never part of the paper itself; they live in the
// store's blob space keyed by the paper's own ID. JSON field names follow the
// persisted snapshot schema the browser frontend already writes, so snapshots
// from older installs keep loading.
type Paper struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// PDFName is the original upload file name. PDFPath is a legacy field
	// from old snapshots; it is round-tripped but never interpreted.
	PDFName string `json:"pdfName,omitempty"`
	PDFPath string `json:"pdfPath,omitempty"`
	HasPDF  bool   `json:"hasPdf"`

	Notes      string      `json:"notes"`
	Highlights []Highlight `json:"highlights"`

	// LastPage and LastScale restore the viewport when the tab is activated.
	// LastPage may exceed the current document's page count after a shorter
	// document replaces a longer one; it is clamped on the next navigation,
	// never rewritten on load.
	LastPage  int     `json:"lastPage"`
	LastScale float64 `json:"lastScale"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// NewPaper creates an empty paper with default viewport memory.
func NewPaper(id, name string) *Paper {
	if name == "" {
		name = DefaultPaperName
	}
	now := time.Now()
	return &Paper{
		ID:         id,
		Name:       name,
		Highlights: []Highlight{},
		LastPage:   DefaultPage,
		LastScale:  DefaultScale,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch updates the modification timestamp.
func (p *Paper) Touch() {
	p.UpdatedAt = time.Now()
}

// AttachDocument records an uploaded document and resets viewport memory to
// the first page. The blob itself is stored separately under the paper's ID.
func (p *Paper) AttachDocument(fileName string) {
	p.PDFName = fileName
	p.PDFPath = ""
	p.HasPDF = true
	p.LastPage = DefaultPage
	p.Touch()
}

// HighlightsOnPage returns all highlights on the given page in storage order.
func (p *Paper) HighlightsOnPage(page int) []Highlight {
	var out []Highlight
	for _, h := range p.Highlights {
		if h.Page == page {
			out = append(out, h)
		}
	}
	return out
}

// PanelHighlights returns the highlights shown in the side panel: only those
// with non-empty text, sorted by page ascending. The sort is stable so
// highlights on the same page keep their creation order.
func (p *Paper) PanelHighlights() []Highlight {
	out := make([]Highlight, 0, len(p.Highlights))
	for _, h := range p.Highlights {
		if h.Text != "" {
			out = append(out, h)
		}
	}
	// Insertion sort keeps equal pages in original relative order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Page > out[j].Page; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// RemoveHighlight deletes a highlight by ID. Returns false when no highlight
// with that ID exists; callers treat that as a no-op, not an error.
func (p *Paper) RemoveHighlight(highlightID string) bool {
	for i, h := range p.Highlights {
		if h.ID == highlightID {
			p.Highlights = append(p.Highlights[:i], p.Highlights[i+1:]...)
			p.Touch()
			return true
		}
	}
	return false
}
