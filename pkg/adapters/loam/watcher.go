// Package loam watches content directories through the Loam repository.
package loam

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aretw0/docu/pkg/collection"
	"github.com/aretw0/loam"
	"github.com/bmatcuk/doublestar/v4"
)

// EntryMetadata is the subset of front-matter the watcher decodes.
type EntryMetadata struct {
	URL   string `json:"url" mapstructure:"url"`
	Title string `json:"title" mapstructure:"title"`
}

// Resolver maps a document path relative to the base directory to its entry
// ID. ok is false for paths that are not part of the collection.
type Resolver func(relPath string) (id string, ok bool)

// Watcher reports changes below a collection base directory.
type Watcher struct {
	Repo    *loam.TypedRepository[EntryMetadata]
	Base    string
	Pattern string
	Resolve Resolver
}

// New opens a read-only Loam repository at base. Changed paths are resolved
// to entry IDs the same way a collection built from base and pattern does.
func New(base, pattern string) (*Watcher, error) {
	absPath, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if pattern == "" {
		pattern = collection.DefaultPattern
	}

	// Strict mode keeps numeric front-matter as json.Number; ReadOnly keeps
	// Loam from writing into the content tree.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return &Watcher{
		Repo:    loam.NewTypedRepository[EntryMetadata](repo),
		Base:    absPath,
		Pattern: pattern,
		Resolve: collection.NewGlobLoader(absPath, pattern).ResolveID,
	}, nil
}

// Watch implements ports.Watchable. It emits the entry ID of each changed
// document; a document with a slug is reported under its slug unless it was
// deleted.
//
// Directories created after Watch starts are not watched: Loam registers the
// directory tree once. Restart the watch to pick them up.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	events, err := w.Repo.Watch(ctx, w.Pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				id, ok := w.Resolve(w.relPath(evt.ID))
				if !ok {
					continue
				}
				select {
				case ch <- id:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// relPath recovers the file behind a Loam ID, which has its extension
// trimmed. A file that no longer exists gets the pattern's extension.
func (w *Watcher) relPath(id string) string {
	id = filepath.ToSlash(id)
	dir, name := path.Split(id)

	entries, err := os.ReadDir(filepath.Join(w.Base, filepath.FromSlash(dir)))
	if err == nil {
		for _, e := range entries {
			n := e.Name()
			if e.IsDir() || strings.TrimSuffix(n, path.Ext(n)) != name {
				continue
			}
			if ok, _ := doublestar.Match(w.Pattern, dir+n); ok {
				return dir + n
			}
		}
	}
	return id + patternExt(w.Pattern)
}

func patternExt(pattern string) string {
	ext := path.Ext(pattern)
	if strings.ContainsAny(ext, "*?[{\\") {
		return ""
	}
	return ext
}
