package collection

import (
	"path"
	"strings"
	"unicode"

	"github.com/aretw0/docu/pkg/domain"
)

// ResolveID is EntryID with the front-matter override applied: a non-empty
// "slug" string in data replaces the path-derived ID.
func ResolveID(relPath string, data map[string]any) string {
	if slug, ok := data[domain.FieldSlug].(string); ok && slug != "" {
		return slug
	}
	return EntryID(relPath)
}

// EntryID derives the ID of a document from its relative path.
// The extension is dropped and every segment is slugified. A nested
// "index" document takes its directory's ID, so "guides/index.md" is
// "guides"; a top-level "index.md" stays "index".
func EntryID(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, path.Ext(relPath))
	segs := strings.Split(trimmed, "/")
	out := segs[:0]
	for _, s := range segs {
		if slug := Slugify(s); slug != "" {
			out = append(out, slug)
		}
	}
	if n := len(out); n > 1 && out[n-1] == "index" {
		out = out[:n-1]
	}
	return strings.Join(out, "/")
}

// Slugify lowercases s, turns whitespace into "-" and drops every rune that
// is not a letter, digit, "-" or "_".
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}
	return b.String()
}
