package domain

import (
	"encoding/json"
	"errors"
)

// Highlight colors form a fixed palette; anything else is rejected at creation.
const (
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorBlue   = "blue"
	ColorPink   = "pink"
	ColorOrange = "orange"
)

// DefaultColor is applied when a highlight is created without a color.
const DefaultColor = ColorYellow

// HighlightColors lists the palette in display order.
var HighlightColors = []string{ColorYellow, ColorGreen, ColorBlue, ColorPink, ColorOrange}

// ErrNoUsableRects is returned when every rect of a would-be highlight is
// filtered out as selection noise.
var ErrNoUsableRects = errors.New("highlight has no usable rects")

// ErrInvalidColor is returned for colors outside the palette.
var ErrInvalidColor = errors.New("highlight color not in palette")

// Rect is one selection rectangle in page-render pixel coordinates, measured
// at the zoom level that was active when the highlight was created.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Highlight is a saved text selection: one or more page-relative rectangles
// plus the selected text and a palette color. Highlights are immutable once
// created; they are deleted, never edited.
type Highlight struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
	Rects []Rect `json:"rects"`
	Color string `json:"color"`

	// Scale is the viewport zoom at creation time. On-screen geometry at any
	// other zoom is derived purely by ratio; see ProjectRects.
	Scale float64 `json:"scale"`
}

// NewHighlight builds a highlight from a selection event. Rects narrower or
// shorter than one pixel are dropped as selection noise; if nothing survives
// the filter the highlight is rejected. An empty color falls back to the
// default, an unknown color is an error.
func NewHighlight(id, text string, page int, rects []Rect, color string, scale float64) (*Highlight, error) {
	if color == "" {
		color = DefaultColor
	}
	if !ValidColor(color) {
		return nil, ErrInvalidColor
	}

	kept := make([]Rect, 0, len(rects))
	for _, r := range rects {
		if r.Width > 1 && r.Height > 1 {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoUsableRects
	}

	return &Highlight{
		ID:    id,
		Text:  text,
		Page:  page,
		Rects: kept,
		Color: color,
		Scale: scale,
	}, nil
}

// ValidColor reports whether color is part of the palette.
func ValidColor(color string) bool {
	for _, c := range HighlightColors {
		if c == color {
			return true
		}
	}
	return false
}

// ProjectRects re-derives the highlight's rectangles at the given zoom level.
// Geometry is captured once at creation scale and projected everywhere else by
// a single ratio; the document is never re-measured. When currentScale equals
// the creation scale this is the identity transform.
func ProjectRects(h Highlight, currentScale float64) []Rect {
	if h.Scale <= 0 {
		return append([]Rect(nil), h.Rects...)
	}
	r := currentScale / h.Scale
	out := make([]Rect, len(h.Rects))
	for i, rect := range h.Rects {
		out[i] = Rect{
			Left:   rect.Left * r,
			Top:    rect.Top * r,
			Width:  rect.Width * r,
			Height: rect.Height * r,
		}
	}
	return out
}

// highlightJSON mirrors Highlight on the wire plus the legacy singular "rect"
// field written by early snapshots.
type highlightJSON struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Page  int     `json:"page"`
	Rects []Rect  `json:"rects"`
	Rect  *Rect   `json:"rect"`
	Color string  `json:"color"`
	Scale float64 `json:"scale"`
}

// UnmarshalJSON accepts both the current schema and legacy records that carry
// a singular "rect" instead of a "rects" list.
func (h *Highlight) UnmarshalJSON(data []byte) error {
	var aux highlightJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	h.ID = aux.ID
	h.Text = aux.Text
	h.Page = aux.Page
	h.Rects = aux.Rects
	h.Color = aux.Color
	h.Scale = aux.Scale

	if len(h.Rects) == 0 && aux.Rect != nil {
		h.Rects = []Rect{*aux.Rect}
	}
	return nil
}
