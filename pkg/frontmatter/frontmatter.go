// Package frontmatter splits markdown documents into their YAML metadata
// block and body.
package frontmatter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/aretw0/loam/pkg/adapters/fs"
)

// ParseError reports a malformed front-matter block.
type ParseError struct {
	Line int // Line of the opening delimiter, 1-based
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("front-matter at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var bom = []byte("\xef\xbb\xbf")

// Parse reads a markdown document and returns its front-matter and body.
//
// The front-matter is a YAML mapping between two "---" delimiters at the very
// start of the document (a UTF-8 BOM is tolerated). A document without such a
// block yields an empty map and the whole input as body.
func Parse(r io.Reader) (map[string]any, []byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read document: %w", err)
	}
	return ParseBytes(src)
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(src []byte) (map[string]any, []byte, error) {
	src = bytes.TrimPrefix(src, bom)

	// Non-strict keeps YAML numbers as int and float64.
	doc, err := fs.NewMarkdownSerializer(false).Parse(bytes.NewReader(src), "")
	if err != nil {
		return nil, nil, &ParseError{Line: 1, Err: err}
	}

	data := map[string]any(doc.Metadata)
	if data == nil {
		data = map[string]any{}
	}
	return data, []byte(doc.Content), nil
}
