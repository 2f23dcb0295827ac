package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search workspace",
		Description: "Full-text search across paper names, notes, highlights, and document text",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the workspace.
type SearchInput struct {
	Query   string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Search query"`
	PaperID string `query:"paper" maxLength:"64" doc:"Restrict results to one paper"`
	Types   string `query:"types" maxLength:"50" doc:"Comma-separated types to search (paper,page). Omit for all."`
	Limit   int    `query:"limit" minimum:"1" maximum:"100" doc:"Max results (default 20)"`
	Offset  int    `query:"offset" minimum:"0" doc:"Pagination offset (default 0)"`
}

// SearchHitResult contains a single search result (paper or page).
type SearchHitResult struct {
	ID         string            `json:"id" doc:"Document ID"`
	Type       string            `json:"type" doc:"Type: paper or page"`
	Score      float64           `json:"score" doc:"Search relevance score"`
	PaperID    string            `json:"paper_id" doc:"Owning paper ID"`
	PaperName  string            `json:"paper_name" doc:"Owning paper name"`
	Page       int               `json:"page,omitempty" doc:"Page number (for page hits)"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted matches per field"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string            `json:"query" doc:"Original search query"`
	Total  int64             `json:"total" doc:"Total matches"`
	TookMs int64             `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult `json:"hits" doc:"Search results"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.PaperID = input.PaperID
	params.Offset = input.Offset
	if input.Limit > 0 {
		params.Limit = input.Limit
	}

	if input.Types != "" {
		for t := range strings.SplitSeq(input.Types, ",") {
			switch strings.TrimSpace(t) {
			case "paper":
				params.Types = append(params.Types, string(search.DocTypePaper))
			case "page":
				params.Types = append(params.Types, string(search.DocTypePage))
			}
		}
	}

	result, err := s.workspace.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	resp := SearchResponse{
		Query:  result.Query,
		Total:  int64(result.Total),
		TookMs: result.TookMs,
		Hits:   make([]SearchHitResult, 0, len(result.Hits)),
	}
	for _, hit := range result.Hits {
		resp.Hits = append(resp.Hits, SearchHitResult{
			ID:         hit.ID,
			Type:       string(hit.Type),
			Score:      hit.Score,
			PaperID:    hit.PaperID,
			PaperName:  hit.PaperName,
			Page:       hit.Page,
			Highlights: hit.Fragments,
		})
	}

	return &SearchOutput{Body: resp}, nil
}
