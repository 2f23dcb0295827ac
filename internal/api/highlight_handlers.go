package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
	"github.com/paperdeskapp/paperdesk-server/internal/service"
)

func (s *Server) registerHighlightRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addHighlight",
		Method:      http.MethodPost,
		Path:        "/api/v1/papers/{id}/highlights",
		Summary:     "Add highlight",
		Description: "Records a text selection at the paper's current zoom scale",
		Tags:        []string{"Highlights"},
	}, s.handleAddHighlight)

	huma.Register(s.api, huma.Operation{
		OperationID: "listHighlights",
		Method:      http.MethodGet,
		Path:        "/api/v1/papers/{id}/highlights",
		Summary:     "List highlights",
		Description: "Returns the annotation panel view: highlights with text, ordered by page",
		Tags:        []string{"Highlights"},
	}, s.handleListHighlights)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteHighlight",
		Method:      http.MethodDelete,
		Path:        "/api/v1/papers/{id}/highlights/{highlightId}",
		Summary:     "Delete highlight",
		Description: "Removes a highlight. Deleting an absent ID is not an error.",
		Tags:        []string{"Highlights"},
	}, s.handleDeleteHighlight)

	huma.Register(s.api, huma.Operation{
		OperationID: "pageHighlights",
		Method:      http.MethodGet,
		Path:        "/api/v1/papers/{id}/pages/{page}/highlights",
		Summary:     "Highlights on page",
		Description: "Returns highlights on one page with rectangles projected to the requested zoom scale",
		Tags:        []string{"Highlights"},
	}, s.handlePageHighlights)

	huma.Register(s.api, huma.Operation{
		OperationID: "highlightPalette",
		Method:      http.MethodGet,
		Path:        "/api/v1/highlights/palette",
		Summary:     "Highlight palette",
		Description: "Returns the supported highlight colors, default first",
		Tags:        []string{"Highlights"},
	}, s.handleHighlightPalette)
}

// === DTOs ===

// RectDTO is a selection rectangle in page-render pixel coordinates.
type RectDTO struct {
	Left   float64 `json:"left" doc:"Left edge in pixels"`
	Top    float64 `json:"top" doc:"Top edge in pixels"`
	Width  float64 `json:"width" doc:"Width in pixels"`
	Height float64 `json:"height" doc:"Height in pixels"`
}

// HighlightResponse contains highlight data in API responses.
type HighlightResponse struct {
	ID             string    `json:"id" doc:"Highlight ID"`
	Text           string    `json:"text" doc:"Selected text"`
	Page           int       `json:"page" doc:"Page the selection is on"`
	Color          string    `json:"color" doc:"Palette color"`
	Scale          float64   `json:"scale" doc:"Zoom scale the rectangles were captured at"`
	Rects          []RectDTO `json:"rects" doc:"Stored rectangles at capture scale"`
	ProjectedRects []RectDTO `json:"projected_rects,omitempty" doc:"Rectangles projected to the requested scale"`
}

type AddHighlightInput struct {
	ID   string `path:"id" doc:"Paper ID"`
	Body struct {
		Text  string    `json:"text" doc:"Selected text"`
		Page  int       `json:"page" minimum:"1" doc:"Page the selection is on"`
		Rects []RectDTO `json:"rects" minItems:"1" doc:"Selection rectangles at the current zoom"`
		Color string    `json:"color,omitempty" doc:"Palette color. Empty uses the default."`
	}
}

type HighlightOutput struct {
	Body HighlightResponse
}

type HighlightListOutput struct {
	Body struct {
		Highlights []HighlightResponse `json:"highlights"`
	}
}

type DeleteHighlightInput struct {
	ID          string `path:"id" doc:"Paper ID"`
	HighlightID string `path:"highlightId" doc:"Highlight ID"`
}

type PageHighlightsInput struct {
	ID    string  `path:"id" doc:"Paper ID"`
	Page  int     `path:"page" doc:"Page number, 1-based"`
	Scale float64 `query:"scale" doc:"Zoom scale to project rectangles to. Omit for the paper's current zoom."`
}

type PaletteOutput struct {
	Body struct {
		Colors  []string `json:"colors" doc:"Supported colors, default first"`
		Default string   `json:"default" doc:"Default color"`
	}
}

func toRectDTOs(rects []domain.Rect) []RectDTO {
	out := make([]RectDTO, 0, len(rects))
	for _, r := range rects {
		out = append(out, RectDTO{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height})
	}
	return out
}

func toDomainRects(rects []RectDTO) []domain.Rect {
	out := make([]domain.Rect, 0, len(rects))
	for _, r := range rects {
		out = append(out, domain.Rect{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height})
	}
	return out
}

func toHighlightResponse(h domain.Highlight) HighlightResponse {
	return HighlightResponse{
		ID:    h.ID,
		Text:  h.Text,
		Page:  h.Page,
		Color: h.Color,
		Scale: h.Scale,
		Rects: toRectDTOs(h.Rects),
	}
}

// === Handlers ===

func (s *Server) handleAddHighlight(ctx context.Context, input *AddHighlightInput) (*HighlightOutput, error) {
	h, err := s.workspace.AddHighlight(ctx, input.ID, service.NewHighlightInput{
		Text:  input.Body.Text,
		Page:  input.Body.Page,
		Rects: toDomainRects(input.Body.Rects),
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}
	return &HighlightOutput{Body: toHighlightResponse(*h)}, nil
}

func (s *Server) handleListHighlights(_ context.Context, input *PaperIDInput) (*HighlightListOutput, error) {
	highlights, err := s.workspace.PanelHighlights(input.ID)
	if err != nil {
		return nil, err
	}
	out := &HighlightListOutput{}
	out.Body.Highlights = make([]HighlightResponse, 0, len(highlights))
	for _, h := range highlights {
		out.Body.Highlights = append(out.Body.Highlights, toHighlightResponse(h))
	}
	return out, nil
}

func (s *Server) handleDeleteHighlight(ctx context.Context, input *DeleteHighlightInput) (*struct{}, error) {
	if err := s.workspace.DeleteHighlight(ctx, input.ID, input.HighlightID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handlePageHighlights(_ context.Context, input *PageHighlightsInput) (*HighlightListOutput, error) {
	projected, err := s.workspace.HighlightsOnPage(input.ID, input.Page, input.Scale)
	if err != nil {
		return nil, err
	}
	out := &HighlightListOutput{}
	out.Body.Highlights = make([]HighlightResponse, 0, len(projected))
	for _, p := range projected {
		resp := toHighlightResponse(p.Highlight)
		resp.ProjectedRects = toRectDTOs(p.ProjectedRects)
		out.Body.Highlights = append(out.Body.Highlights, resp)
	}
	return out, nil
}

func (s *Server) handleHighlightPalette(_ context.Context, _ *struct{}) (*PaletteOutput, error) {
	out := &PaletteOutput{}
	out.Body.Colors = s.workspace.Palette()
	out.Body.Default = domain.DefaultColor
	return out, nil
}
