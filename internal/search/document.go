// Package search provides full-text search over the workspace using Bleve.
// Paper names, notes, highlight text, and extracted page text are indexed
// so a query can jump straight to the paper and page it matches.
package search

import (
	"fmt"
	"strings"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	// DocTypePaper carries a paper's name, notes, and highlight text.
	DocTypePaper DocType = "paper"
	// DocTypePage carries the extracted text of one PDF page.
	DocTypePage DocType = "page"
)

// SearchDocument is the unified document structure for the Bleve index.
//
// Design note: each paper produces one paper document plus one document per
// PDF page. Page text is kept out of the paper document so a hit can name
// the exact page, and so re-annotating a paper does not reindex its
// (immutable) page text.
type SearchDocument struct {
	ID      string  `json:"id"`
	Type    DocType `json:"type"`
	PaperID string  `json:"paper_id"`

	// Name is the paper's display name, denormalized onto page docs so
	// every hit can be labeled without a second lookup.
	Name string `json:"name"`

	// Paper-only fields.
	Notes      string `json:"notes,omitempty"`
	Highlights string `json:"highlights,omitempty"` // concatenated highlight text

	// Page-only fields.
	Text string `json:"text,omitempty"`
	Page int    `json:"page,omitempty"`
}

// PaperDocument builds the paper-level document.
func PaperDocument(p *domain.Paper) *SearchDocument {
	var hl strings.Builder
	for _, h := range p.Highlights {
		if h.Text == "" {
			continue
		}
		if hl.Len() > 0 {
			hl.WriteString("\n")
		}
		hl.WriteString(h.Text)
	}

	return &SearchDocument{
		ID:         p.ID,
		Type:       DocTypePaper,
		PaperID:    p.ID,
		Name:       p.Name,
		Notes:      p.Notes,
		Highlights: hl.String(),
	}
}

// PageDocument builds the document for one PDF page.
func PageDocument(p *domain.Paper, page int, text string) *SearchDocument {
	return &SearchDocument{
		ID:      PageDocID(p.ID, page),
		Type:    DocTypePage,
		PaperID: p.ID,
		Name:    p.Name,
		Text:    text,
		Page:    page,
	}
}

// PageDocID is the index ID for a page document.
func PageDocID(paperID string, page int) string {
	return fmt.Sprintf("%s#page-%d", paperID, page)
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":       d.ID,
		"type":     string(d.Type),
		"paper_id": d.PaperID,
		"name":     d.Name,
	}
	if d.Notes != "" {
		m["notes"] = d.Notes
	}
	if d.Highlights != "" {
		m["highlights"] = d.Highlights
	}
	if d.Text != "" {
		m["text"] = d.Text
	}
	if d.Page > 0 {
		m["page"] = d.Page
	}
	return m
}
