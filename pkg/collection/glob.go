package collection

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/docu/pkg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every markdown file below the base directory.
const DefaultPattern = "**/*.md"

// GlobLoader discovers the files of a collection with a doublestar pattern.
// Files and directories whose name starts with "_" or "." are skipped.
type GlobLoader struct {
	Base    string
	Pattern string
	fsys    fs.FS
}

// NewGlobLoader creates a loader rooted at the base directory.
func NewGlobLoader(base, pattern string) *GlobLoader {
	return &GlobLoader{
		Base:    base,
		Pattern: pattern,
		fsys:    os.DirFS(base),
	}
}

// NewFSLoader creates a loader over an arbitrary file system.
func NewFSLoader(fsys fs.FS, pattern string) *GlobLoader {
	return &GlobLoader{Pattern: pattern, fsys: fsys}
}

// Discover implements ports.DocumentSource.
func (l *GlobLoader) Discover(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pattern := l.pattern()
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	if _, err := fs.Stat(l.fsys, "."); err != nil {
		return nil, fmt.Errorf("content base %q: %w", l.Base, err)
	}

	var paths []string
	err := doublestar.GlobWalk(l.fsys, pattern, func(p string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || ignored(p) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Open implements ports.DocumentSource.
func (l *GlobLoader) Open(p string) (io.ReadCloser, error) {
	return l.fsys.Open(path.Clean(p))
}

// ResolveID returns the entry ID of the document at p, reading its slug
// when it has one. ok is false for paths Discover would not return. A
// document that cannot be read or parsed keeps its path-derived ID.
func (l *GlobLoader) ResolveID(p string) (id string, ok bool) {
	p = path.Clean(p)
	if ignored(p) {
		return "", false
	}
	if matched, err := doublestar.Match(l.pattern(), p); err != nil || !matched {
		return "", false
	}
	src, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return EntryID(p), true
	}
	data, _, err := frontmatter.ParseBytes(src)
	if err != nil {
		return EntryID(p), true
	}
	return ResolveID(p, data), true
}

func (l *GlobLoader) pattern() string {
	if l.Pattern == "" {
		return DefaultPattern
	}
	return l.Pattern
}

func ignored(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, "_") || strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
