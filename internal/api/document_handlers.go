package api

import (
	"context"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/paperdeskapp/paperdesk-server/internal/http/response"
)

func (s *Server) registerDocumentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDocumentInfo",
		Method:      http.MethodGet,
		Path:        "/api/v1/papers/{id}/document",
		Summary:     "Get document info",
		Description: "Returns the attached document's file name and page count",
		Tags:        []string{"Documents"},
	}, s.handleGetDocumentInfo)

	// Upload and page rasters use chi directly: multipart forms and binary
	// bodies don't fit huma's typed request model.
	s.router.Post("/api/v1/papers/{id}/document", withExtendedTimeout(s.handleUploadDocument, 5*time.Minute))
	s.router.Get("/api/v1/papers/{id}/pages/{page}/image", s.handleRenderPage)
}

// === DTOs ===

// DocumentInfoResponse describes the attached PDF.
type DocumentInfoResponse struct {
	PaperID   string `json:"paper_id" doc:"Paper ID"`
	FileName  string `json:"file_name" doc:"Original upload file name"`
	PageCount int    `json:"page_count" doc:"Number of pages"`
}

type DocumentInfoOutput struct {
	Body DocumentInfoResponse
}

// === Handlers ===

func (s *Server) handleGetDocumentInfo(ctx context.Context, input *PaperIDInput) (*DocumentInfoOutput, error) {
	p, err := s.workspace.Paper(input.ID)
	if err != nil {
		return nil, err
	}

	count, err := s.workspace.PageCount(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &DocumentInfoOutput{
		Body: DocumentInfoResponse{
			PaperID:   p.ID,
			FileName:  p.PDFName,
			PageCount: count,
		},
	}, nil
}

// handleUploadDocument handles multipart PDF uploads.
// This is a chi handler (not Huma) because Huma doesn't easily support multipart forms.
// Note: Must be wrapped with withExtendedTimeout when registering the route.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded, use 'file' field in multipart form", s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("Failed to read uploaded document", "error", err, "paper_id", paperID)
		response.BadRequest(w, "failed to read upload: "+err.Error(), s.logger)
		return
	}

	p, err := s.workspace.AttachDocument(r.Context(), paperID, data, header.Filename)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("Document uploaded",
		"paper_id", p.ID,
		"file_name", header.Filename,
		"size_bytes", len(data),
	)

	response.Success(w, toPaperResponse(p), s.logger)
}

// handleRenderPage streams one page as a PNG at the requested zoom scale.
// This is a chi handler for binary output; huma would base64 the image.
func (s *Server) handleRenderPage(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "id")

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		response.BadRequest(w, "page must be an integer", s.logger)
		return
	}

	scale := 0.0
	if raw := r.URL.Query().Get("scale"); raw != "" {
		scale, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(w, "scale must be a number", s.logger)
			return
		}
	}

	img, err := s.workspace.RenderPage(r.Context(), paperID, page, scale)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		s.logger.Error("Failed to encode page image", "error", err, "paper_id", paperID, "page", page)
	}
}
