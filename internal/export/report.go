// Package export renders a paper's annotations as a plain-text report
// the user can download and keep outside the app.
package export

import (
	"fmt"
	"strings"

	"github.com/paperdeskapp/paperdesk-server/internal/domain"
)

// Report renders the notes and highlights of a paper as plain text.
// Highlights appear in ascending page order; empty-text highlights are
// skipped, matching the annotations panel.
func Report(p *domain.Paper) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Name)

	b.WriteString("## Notes\n\n")
	if notes := strings.TrimSpace(p.Notes); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	} else {
		b.WriteString("(no notes)\n")
	}

	b.WriteString("\n## Highlights\n\n")
	highlights := p.PanelHighlights()
	if len(highlights) == 0 {
		b.WriteString("(no highlights)\n")
	} else {
		for _, h := range highlights {
			fmt.Fprintf(&b, "Page %d: %q\n", h.Page, h.Text)
		}
	}

	return b.String()
}

// Filename derives a download filename from the paper's name, keeping
// only characters that are safe across filesystems.
func Filename(p *domain.Paper) string {
	var b strings.Builder
	for _, r := range p.Name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "paper"
	}
	return name + "-annotations.txt"
}
