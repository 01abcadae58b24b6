// Package tui renders entries and banners for terminals.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/docu/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
// Styling follows the terminal background.
func NewRenderer(width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// EntryMarkdown lays an entry out as one markdown document: a header built
// from its front-matter, the body and the navigation links.
func EntryMarkdown(e domain.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Data.Title)
	fmt.Fprintf(&b, "> %s\n\n", e.Data.Description)
	fmt.Fprintf(&b, "`%s` · #%v · %s\n\n", e.Data.URL, e.Data.Number, e.Data.Icon)
	b.WriteString(strings.TrimSpace(e.Body))
	b.WriteString("\n")

	prev, hasPrev := e.Data.PreviousURL.Get()
	next, hasNext := e.Data.NextURL.Get()
	if hasPrev || hasNext {
		b.WriteString("\n---\n\n")
		if hasPrev {
			fmt.Fprintf(&b, "← %s  ", prev)
		}
		if hasNext {
			fmt.Fprintf(&b, "→ %s", next)
		}
		b.WriteString("\n")
	}
	return b.String()
}
