package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// Priorities:
//  1. Full-text search on paper names with English stemming
//  2. Notes, highlight text, and page text searchable with highlighting
//  3. Exact keyword matching on type and paper_id for filtering
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Name field - primary search target
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// Notes - searchable, stored for match fragments
	notesFieldMapping := bleve.NewTextFieldMapping()
	notesFieldMapping.Analyzer = en.AnalyzerName
	notesFieldMapping.Store = true
	notesFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("notes", notesFieldMapping)

	// Highlight text - searchable, stored for match fragments
	highlightsFieldMapping := bleve.NewTextFieldMapping()
	highlightsFieldMapping.Analyzer = en.AnalyzerName
	highlightsFieldMapping.Store = true
	highlightsFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("highlights", highlightsFieldMapping)

	// Page text - searchable, stored for match fragments
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName
	textFieldMapping.Store = true
	textFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("text", textFieldMapping)

	// --- Keyword fields (exact match) ---

	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	typeFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	paperIDFieldMapping := bleve.NewTextFieldMapping()
	paperIDFieldMapping.Analyzer = keyword.Name
	paperIDFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("paper_id", paperIDFieldMapping)

	// --- Numeric fields ---

	pageFieldMapping := bleve.NewNumericFieldMapping()
	pageFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("page", pageFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
