package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string // User's search query

	// PaperID restricts results to one paper (empty = whole workspace).
	PaperID string

	// Types restricts the document types returned (empty = all).
	Types []string

	// Pagination
	Limit  int
	Offset int
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:  20,
		Offset: 0,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"tookMs"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID        string            `json:"id"`
	Type      DocType           `json:"type"`
	Score     float64           `json:"score"`
	PaperID   string            `json:"paperId"`
	PaperName string            `json:"paperName"`
	Page      int               `json:"page,omitempty"`
	Fragments map[string]string `json:"fragments,omitempty"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	searchRequest.Highlight = bleve.NewHighlight()
	searchRequest.Highlight.AddField("name")
	searchRequest.Highlight.AddField("notes")
	searchRequest.Highlight.AddField("highlights")
	searchRequest.Highlight.AddField("text")

	searchRequest.Fields = []string{"type", "paper_id", "name", "page"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["type"].(string); ok {
			searchHit.Type = DocType(t)
		}
		if pid, ok := hit.Fields["paper_id"].(string); ok {
			searchHit.PaperID = pid
		}
		if n, ok := hit.Fields["name"].(string); ok {
			searchHit.PaperName = n
		}
		if p, ok := hit.Fields["page"].(float64); ok {
			searchHit.Page = int(p)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Fragments = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Fragments[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		// Paper name match with highest boost
		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		// Notes and highlight text
		notesMatch := bleve.NewMatchQuery(params.Query)
		notesMatch.SetField("notes")
		notesMatch.SetBoost(2.0)
		textQueries = append(textQueries, notesMatch)

		hlMatch := bleve.NewMatchQuery(params.Query)
		hlMatch.SetField("highlights")
		hlMatch.SetBoost(2.0)
		textQueries = append(textQueries, hlMatch)

		// Page text
		textMatch := bleve.NewMatchQuery(params.Query)
		textMatch.SetField("text")
		textQueries = append(textQueries, textMatch)

		// Fuzzy matching for typo tolerance on name
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for incremental typing (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.PaperID != "" {
		pq := bleve.NewTermQuery(params.PaperID)
		pq.SetField("paper_id")
		queries = append(queries, pq)
	}

	if len(params.Types) > 0 {
		typeQueries := make([]query.Query, len(params.Types))
		for i, t := range params.Types {
			tq := bleve.NewTermQuery(t)
			tq.SetField("type")
			typeQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(typeQueries...))
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewConjunctionQuery(queries...)
}
