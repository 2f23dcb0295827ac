package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/service"
)

func (s *Server) registerViewportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "goToPage",
		Method:      http.MethodPost,
		Path:        "/api/v1/papers/{id}/page",
		Summary:     "Navigate to page",
		Description: "Moves the paper's remembered page. Out-of-range targets are clamped, not rejected.",
		Tags:        []string{"Viewport"},
	}, s.handleGoToPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "setZoom",
		Method:      http.MethodPost,
		Path:        "/api/v1/papers/{id}/zoom",
		Summary:     "Set zoom scale",
		Description: "Sets the zoom scale, snapped to the nearest step and clamped to the supported range",
		Tags:        []string{"Viewport"},
	}, s.handleSetZoom)

	huma.Register(s.api, huma.Operation{
		OperationID: "zoomIn",
		Method:      http.MethodPost,
		Path:        "/api/v1/papers/{id}/zoom/in",
		Summary:     "Zoom in one step",
		Tags:        []string{"Viewport"},
	}, s.handleZoomIn)

	huma.Register(s.api, huma.Operation{
		OperationID: "zoomOut",
		Method:      http.MethodPost,
		Path:        "/api/v1/papers/{id}/zoom/out",
		Summary:     "Zoom out one step",
		Tags:        []string{"Viewport"},
	}, s.handleZoomOut)
}

// === DTOs ===

type GoToPageInput struct {
	ID   string `path:"id" doc:"Paper ID"`
	Body struct {
		Page int `json:"page" doc:"Target page, 1-based"`
	}
}

type SetZoomInput struct {
	ID   string `path:"id" doc:"Paper ID"`
	Body struct {
		Scale float64 `json:"scale" doc:"Target zoom scale, snapped and clamped server-side"`
	}
}

// ViewportResponse reports the paper's viewport after a navigation or zoom.
type ViewportResponse struct {
	PaperID  string  `json:"paper_id" doc:"Paper ID"`
	Page     int     `json:"page" doc:"Current page"`
	Scale    float64 `json:"scale" doc:"Current zoom scale"`
	MinScale float64 `json:"min_scale" doc:"Smallest supported zoom"`
	MaxScale float64 `json:"max_scale" doc:"Largest supported zoom"`
}

type ViewportOutput struct {
	Body ViewportResponse
}

// === Handlers ===

func (s *Server) handleGoToPage(ctx context.Context, input *GoToPageInput) (*ViewportOutput, error) {
	p, err := s.workspace.GoToPage(ctx, input.ID, input.Body.Page)
	if err != nil {
		return nil, err
	}
	return viewportOutput(p.ID, p.LastPage, p.LastScale), nil
}

func (s *Server) handleSetZoom(ctx context.Context, input *SetZoomInput) (*ViewportOutput, error) {
	p, err := s.workspace.SetZoom(ctx, input.ID, input.Body.Scale)
	if err != nil {
		return nil, err
	}
	return viewportOutput(p.ID, p.LastPage, p.LastScale), nil
}

func (s *Server) handleZoomIn(ctx context.Context, input *PaperIDInput) (*ViewportOutput, error) {
	p, err := s.workspace.ZoomIn(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return viewportOutput(p.ID, p.LastPage, p.LastScale), nil
}

func (s *Server) handleZoomOut(ctx context.Context, input *PaperIDInput) (*ViewportOutput, error) {
	p, err := s.workspace.ZoomOut(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return viewportOutput(p.ID, p.LastPage, p.LastScale), nil
}

func viewportOutput(paperID string, page int, scale float64) *ViewportOutput {
	return &ViewportOutput{
		Body: ViewportResponse{
			PaperID:  paperID,
			Page:     page,
			Scale:    scale,
			MinScale: service.MinScale,
			MaxScale: service.MaxScale,
		},
	}
}
