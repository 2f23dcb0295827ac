// Package render abstracts PDF document access: page counts, rasterized
// pages for the viewer, and per-page text for the search index.
package render

import (
	"errors"
	"image"
)

// Errors returned by Document implementations.
var (
	// ErrBadDocument indicates the uploaded bytes are not a readable PDF.
	ErrBadDocument = errors.New("unreadable document")

	// ErrPageOutOfRange indicates a page outside [1, PageCount].
	ErrPageOutOfRange = errors.New("page out of range")
)

// Renderer opens uploaded PDF bytes into a Document.
type Renderer interface {
	Open(data []byte) (Document, error)
}

// Document is an open PDF. Pages are 1-indexed, matching what the
// viewer shows. Implementations are not safe for concurrent use;
// callers serialize access.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageText extracts the text of one page, for indexing.
	PageText(page int) (string, error)

	// PageImage rasterizes one page at the given zoom scale, where
	// scale 1.0 corresponds to 72 DPI.
	PageImage(page int, scale float64) (image.Image, error)

	Close() error
}
