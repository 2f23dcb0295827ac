package render

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

const baseDPI = 72

// FitzRenderer opens documents with MuPDF via go-fitz.
type FitzRenderer struct{}

// NewFitzRenderer creates the MuPDF-backed renderer.
func NewFitzRenderer() *FitzRenderer {
	return &FitzRenderer{}
}

// Open parses the PDF bytes in memory.
func (r *FitzRenderer) Open(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

// PageText extracts the text of one page. go-fitz pages are 0-indexed.
func (d *fitzDocument) PageText(page int) (string, error) {
	if page < 1 || page > d.doc.NumPage() {
		return "", fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, d.doc.NumPage())
	}
	text, err := d.doc.Text(page - 1)
	if err != nil {
		return "", fmt.Errorf("extract text for page %d: %w", page, err)
	}
	return text, nil
}

// PageImage rasterizes one page. Scale 1.0 renders at the PDF's native
// 72 DPI; higher scales render proportionally more pixels so the viewer
// never upscales a blurry raster.
func (d *fitzDocument) PageImage(page int, scale float64) (image.Image, error) {
	if page < 1 || page > d.doc.NumPage() {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, d.doc.NumPage())
	}
	if scale <= 0 {
		scale = 1.0
	}
	img, err := d.doc.ImageDPI(page-1, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("rasterize page %d: %w", page, err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
