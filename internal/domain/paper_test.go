package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaper_Defaults(t *testing.T) {
	p := NewPaper("tab-1", "")

	assert.Equal(t, "tab-1", p.ID)
	assert.Equal(t, DefaultPaperName, p.Name)
	assert.Empty(t, p.Highlights)
	assert.Equal(t, 1, p.LastPage)
	assert.Equal(t, 1.0, p.LastScale)
	assert.False(t, p.HasPDF)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestPaper_AttachDocument(t *testing.T) {
	p := NewPaper("tab-1", "Alpha")
	p.LastPage = 42

	p.AttachDocument("paper.pdf")

	assert.True(t, p.HasPDF)
	assert.Equal(t, "paper.pdf", p.PDFName)
	assert.Equal(t, 1, p.LastPage, "attaching a document resets to the first page")
}

func TestPaper_HighlightsOnPage(t *testing.T) {
	p := NewPaper("tab-1", "Alpha")
	p.Highlights = []Highlight{
		{ID: "a", Page: 1},
		{ID: "b", Page: 2},
		{ID: "c", Page: 1},
	}

	on1 := p.HighlightsOnPage(1)
	require.Len(t, on1, 2)
	assert.Equal(t, "a", on1[0].ID)
	assert.Equal(t, "c", on1[1].ID)

	assert.Empty(t, p.HighlightsOnPage(3))
}

func TestPaper_PanelHighlights_StableOrder(t *testing.T) {
	p := NewPaper("tab-1", "Alpha")
	p.Highlights = []Highlight{
		{ID: "p3-first", Page: 3, Text: "x"},
		{ID: "p1", Page: 1, Text: "y"},
		{ID: "p3-second", Page: 3, Text: "z"},
		{ID: "untexted", Page: 2, Text: ""},
	}

	panel := p.PanelHighlights()

	require.Len(t, panel, 3, "highlights without text are hidden from the panel")
	assert.Equal(t, "p1", panel[0].ID)
	assert.Equal(t, "p3-first", panel[1].ID)
	assert.Equal(t, "p3-second", panel[2].ID, "same-page highlights keep creation order")
}

func TestPaper_RemoveHighlight(t *testing.T) {
	p := NewPaper("tab-1", "Alpha")
	p.Highlights = []Highlight{{ID: "a"}, {ID: "b"}}

	assert.True(t, p.RemoveHighlight("a"))
	require.Len(t, p.Highlights, 1)
	assert.Equal(t, "b", p.Highlights[0].ID)

	assert.False(t, p.RemoveHighlight("missing"))
	assert.Len(t, p.Highlights, 1)
}
