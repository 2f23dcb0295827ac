package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

// SearchIndex wraps a Bleve index with workspace-specific operations.
//
// Thread safety: all public methods are safe for concurrent use.
type SearchIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	IndexPath string       // Directory for index storage
	Logger    *slog.Logger // Logger for operations (uses discard if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// This triggers an automatic rebuild on startup when the version doesn't match.
const mappingVersion = "1"

// NewSearchIndex creates or opens a search index.
// If the existing index is corrupted or has an outdated mapping, it's removed and recreated.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	indexPath := opts.IndexPath
	versionPath := indexPath + ".version"

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil || string(existingVersion) != mappingVersion {
			logger.Info("search index mapping outdated, will rebuild",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
			return nil, fmt.Errorf("create index dir: %w", mkErr)
		}
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &SearchIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexPaper indexes a paper's metadata document. Page documents are
// managed separately via IndexPages because annotations change far more
// often than the underlying PDF.
func (s *SearchIndex) IndexPaper(p *domain.Paper) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := PaperDocument(p)
	// Convert to map to ensure field names match the mapping (lowercase)
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexPages indexes the extracted text of a paper's PDF, one document
// per page, replacing any previously indexed pages.
func (s *SearchIndex) IndexPages(p *domain.Paper, pageTexts []string) error {
	if err := s.RemovePages(p.ID); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for i, text := range pageTexts {
		if text == "" {
			continue
		}
		doc := PageDocument(p, i+1, text)
		if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("commit page batch: %w", err)
	}
	return nil
}

// RemovePaper removes a paper and all its page documents from the index.
func (s *SearchIndex) RemovePaper(paperID string) error {
	if err := s.RemovePages(paperID); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(paperID)
}

// RemovePages removes all page documents belonging to a paper.
func (s *SearchIndex) RemovePages(paperID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Find every page doc for this paper before deleting; page count is
	// not tracked here.
	tq := bleve.NewTermQuery(paperID)
	tq.SetField("paper_id")
	pageType := bleve.NewTermQuery(string(DocTypePage))
	pageType.SetField("type")

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(tq, pageType), 10000, 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return fmt.Errorf("find page docs: %w", err)
	}

	batch := s.index.NewBatch()
	for _, hit := range res.Hits {
		batch.Delete(hit.ID)
	}
	return s.index.Batch(batch)
}

// DocumentCount returns the total number of indexed documents.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the existing index and creates a new one.
//
// This acquires an exclusive lock and blocks all other operations.
func (s *SearchIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	index, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt search index", "path", s.path)

	return nil
}
