package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

func TestReportWithContent(t *testing.T) {
	p := domain.NewPaper("tab-one", "Sorting Networks")
	p.Notes = "compare against batcher merge"
	p.Highlights = []domain.Highlight{
		{ID: "hl-2", Text: "zero-one principle", Page: 7, Scale: 1.0},
		{ID: "hl-1", Text: "bitonic sequences", Page: 2, Scale: 1.0},
	}

	report := Report(p)

	assert.True(t, strings.HasPrefix(report, "# Sorting Networks\n"))
	assert.Contains(t, report, "compare against batcher merge")
	assert.Contains(t, report, `Page 2: "bitonic sequences"`)
	assert.Contains(t, report, `Page 7: "zero-one principle"`)

	// Page order, not insertion order.
	assert.Less(t,
		strings.Index(report, "Page 2:"),
		strings.Index(report, "Page 7:"),
	)
}

func TestReportEmptyPaper(t *testing.T) {
	p := domain.NewPaper("tab-one", "Untitled Paper")

	report := Report(p)

	assert.Contains(t, report, "(no notes)")
	assert.Contains(t, report, "(no highlights)")
}

func TestReportSkipsEmptyHighlightText(t *testing.T) {
	p := domain.NewPaper("tab-one", "Sparse")
	p.Highlights = []domain.Highlight{
		{ID: "hl-1", Text: "", Page: 1, Scale: 1.0},
	}

	assert.Contains(t, Report(p), "(no highlights)")
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sorting Networks", "Sorting-Networks-annotations.txt"},
		{"a/b\\c:d", "abcd-annotations.txt"},
		{"???", "paper-annotations.txt"},
		{"  trimmed  ", "trimmed-annotations.txt"},
	}

	for _, tt := range tests {
		p := domain.NewPaper("tab-x", tt.name)
		assert.Equal(t, tt.want, Filename(p))
	}
}
