package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

func (s *Server) registerPaperRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPapers",
		Method:      http.MethodGet,
		Path:        "/api/v1/papers",
		Summary:     "List open papers",
		Description: "Returns all open tabs in display order plus the active tab ID",
		Tags:        []string{"Papers"},
	}, s.handleListPapers)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPaper",
		Method:      http.MethodPost,
		Path:        "/api/v1/papers",
		Summary:     "Open a new paper",
		Description: "Opens a new tab and makes it active",
		Tags:        []string{"Papers"},
	}, s.handleCreatePaper)

	huma.Register(s.api, huma.Operation{
		OperationID: "getActivePaper",
		Method:      http.MethodGet,
		Path:        "/api/v1/papers/active",
		Summary:     "Get active paper",
		Description: "Returns the currently active tab",
		Tags:        []string{"Papers"},
	}, s.handleGetActivePaper)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPaper",
		Method:      http.MethodGet,
		Path:        "/api/v1/papers/{id}",
		Summary:     "Get paper",
		Tags:        []string{"Papers"},
	}, s.handleGetPaper)

	huma.Register(s.api, huma.Operation{
		OperationID: "renamePaper",
		Method:      http.MethodPatch,
		Path:        "/api/v1/papers/{id}",
		Summary:     "Rename paper",
		Tags:        []string{"Papers"},
	}, s.handleRenamePaper)

	huma.Register(s.api, huma.Operation{
		OperationID: "closePaper",
		Method:      http.MethodDelete,
		Path:        "/api/v1/papers/{id}",
		Summary:     "Close paper",
		Description: "Closes a tab. Closing the last tab replaces it with a fresh untitled paper.",
		Tags:        []string{"Papers"},
	}, s.handleClosePaper)

	huma.Register(s.api, huma.Operation{
		OperationID: "activatePaper",
		Method:      http.MethodPost,
		Path:        "/api/v1/papers/{id}/activate",
		Summary:     "Switch to paper",
		Description: "Makes the given tab active, committing any pending edits on the current one first",
		Tags:        []string{"Papers"},
	}, s.handleActivatePaper)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNotes",
		Method:      http.MethodPut,
		Path:        "/api/v1/papers/{id}/notes",
		Summary:     "Update notes",
		Description: "Replaces the free-text notes. Saves are debounced; the snapshot is written shortly after typing stops.",
		Tags:        []string{"Papers"},
	}, s.handleUpdateNotes)
}

// === DTOs ===

// PaperResponse contains paper data in API responses.
type PaperResponse struct {
	ID             string    `json:"id" doc:"Paper ID"`
	Name           string    `json:"name" doc:"Display name"`
	PDFName        string    `json:"pdf_name,omitempty" doc:"Original upload file name"`
	HasPDF         bool      `json:"has_pdf" doc:"Whether a document is attached"`
	Notes          string    `json:"notes" doc:"Free-text notes"`
	HighlightCount int       `json:"highlight_count" doc:"Number of saved highlights"`
	LastPage       int       `json:"last_page" doc:"Remembered page"`
	LastScale      float64   `json:"last_scale" doc:"Remembered zoom scale"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// WorkspaceResponse is the tab strip: all open papers plus the active tab.
type WorkspaceResponse struct {
	ActiveTabID string          `json:"active_tab_id" doc:"ID of the active tab"`
	Papers      []PaperResponse `json:"papers" doc:"Open tabs in display order"`
}

type ListPapersOutput struct {
	Body WorkspaceResponse
}

type CreatePaperInput struct {
	Body struct {
		Name string `json:"name,omitempty" doc:"Display name. Empty uses the default name."`
	}
}

type PaperIDInput struct {
	ID string `path:"id" doc:"Paper ID"`
}

type PaperOutput struct {
	Body PaperResponse
}

type RenamePaperInput struct {
	ID   string `path:"id" doc:"Paper ID"`
	Body struct {
		Name string `json:"name" minLength:"1" doc:"New display name"`
	}
}

type UpdateNotesInput struct {
	ID   string `path:"id" doc:"Paper ID"`
	Body struct {
		Notes string `json:"notes" doc:"Replacement notes text"`
	}
}

func toPaperResponse(p *domain.Paper) PaperResponse {
	return PaperResponse{
		ID:             p.ID,
		Name:           p.Name,
		PDFName:        p.PDFName,
		HasPDF:         p.HasPDF,
		Notes:          p.Notes,
		HighlightCount: len(p.Highlights),
		LastPage:       p.LastPage,
		LastScale:      p.LastScale,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (s *Server) workspaceResponse() WorkspaceResponse {
	papers := s.workspace.Papers()
	resp := WorkspaceResponse{
		ActiveTabID: s.workspace.ActiveTabID(),
		Papers:      make([]PaperResponse, 0, len(papers)),
	}
	for _, p := range papers {
		resp.Papers = append(resp.Papers, toPaperResponse(p))
	}
	return resp
}

// === Handlers ===

func (s *Server) handleListPapers(_ context.Context, _ *struct{}) (*ListPapersOutput, error) {
	return &ListPapersOutput{Body: s.workspaceResponse()}, nil
}

func (s *Server) handleCreatePaper(ctx context.Context, input *CreatePaperInput) (*PaperOutput, error) {
	p, err := s.workspace.CreatePaper(ctx, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &PaperOutput{Body: toPaperResponse(p)}, nil
}

func (s *Server) handleGetActivePaper(_ context.Context, _ *struct{}) (*PaperOutput, error) {
	p := s.workspace.ActivePaper()
	if p == nil {
		return nil, huma.Error404NotFound("no active paper")
	}
	return &PaperOutput{Body: toPaperResponse(p)}, nil
}

func (s *Server) handleGetPaper(_ context.Context, input *PaperIDInput) (*PaperOutput, error) {
	p, err := s.workspace.Paper(input.ID)
	if err != nil {
		return nil, err
	}
	return &PaperOutput{Body: toPaperResponse(p)}, nil
}

func (s *Server) handleRenamePaper(ctx context.Context, input *RenamePaperInput) (*PaperOutput, error) {
	p, err := s.workspace.RenamePaper(ctx, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &PaperOutput{Body: toPaperResponse(p)}, nil
}

func (s *Server) handleClosePaper(ctx context.Context, input *PaperIDInput) (*ListPapersOutput, error) {
	if err := s.workspace.ClosePaper(ctx, input.ID); err != nil {
		return nil, err
	}
	return &ListPapersOutput{Body: s.workspaceResponse()}, nil
}

func (s *Server) handleActivatePaper(ctx context.Context, input *PaperIDInput) (*PaperOutput, error) {
	p, err := s.workspace.SwitchTo(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PaperOutput{Body: toPaperResponse(p)}, nil
}

func (s *Server) handleUpdateNotes(ctx context.Context, input *UpdateNotesInput) (*PaperOutput, error) {
	p, err := s.workspace.UpdateNotes(ctx, input.ID, input.Body.Notes)
	if err != nil {
		return nil, err
	}
	return &PaperOutput{Body: toPaperResponse(p)}, nil
}
