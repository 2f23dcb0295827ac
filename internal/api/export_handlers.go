package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paperdeskapp/paperdesk-server/internal/export"
	"github.com/paperdeskapp/paperdesk-server/internal/http/response"
)

func (s *Server) registerExportRoutes() {
	// Plain-text download, chi direct.
	s.router.Get("/api/v1/papers/{id}/export", s.handleExportPaper)
}

// handleExportPaper serves the paper's notes and highlights as a text
// attachment named after the paper.
func (s *Server) handleExportPaper(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "id")

	p, err := s.workspace.Paper(paperID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	report := export.Report(p)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(p)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(report)); err != nil {
		s.logger.Error("Failed to write export", "error", err, "paper_id", paperID)
	}
}
