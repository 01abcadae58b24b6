package docu

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	loamAdapter "github.com/aretw0/docu/pkg/adapters/loam"
	"github.com/aretw0/docu/pkg/collection"
	"github.com/aretw0/docu/pkg/domain"
	"github.com/aretw0/docu/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Version is the release of the library and its CLI.
var Version = "0.1.0"

// DefaultContentDir is the content directory, relative to the site root, of
// the default docu collection.
const DefaultContentDir = "src/content"

// Site is the high-level entry point: a set of validated collections.
type Site struct {
	Name string

	dir         string
	defs        []collection.Definition
	logger      *slog.Logger
	hooks       collection.Hooks
	failFast    bool
	concurrency int

	mu          sync.RWMutex
	collections map[string]*collection.Collection
}

// Option configures a Site.
type Option func(*Site)

// WithLogger sets a structured logger for the site and its builds.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Site) {
		s.logger = logger
	}
}

// WithMetrics registers build observers, typically from internal/metrics.
func WithMetrics(hooks collection.Hooks) Option {
	return func(s *Site) {
		s.hooks = hooks
	}
}

// WithFailFast makes New and Reload fail on the first rejected document.
func WithFailFast() Option {
	return func(s *Site) {
		s.failFast = true
	}
}

// WithCollections replaces the default docu collection.
func WithCollections(defs ...collection.Definition) Option {
	return func(s *Site) {
		s.defs = defs
	}
}

// WithConcurrency bounds the documents validated at once per collection.
func WithConcurrency(n int) Option {
	return func(s *Site) {
		s.concurrency = n
	}
}

// New builds every collection of the site rooted at dir.
// Without WithCollections the site holds the docu collection read from
// <dir>/src/content.
func New(dir string, opts ...Option) (*Site, error) {
	s := &Site{}
	for _, opt := range opts {
		opt(s)
	}

	if dir != "" {
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		s.dir = absPath
		s.Name = filepath.Base(absPath)
	}

	if len(s.defs) == 0 {
		if s.dir == "" {
			return nil, fmt.Errorf("dir is required when no collections are provided")
		}
		s.defs = []collection.Definition{collection.Docu(filepath.Join(s.dir, DefaultContentDir))}
	}

	if err := validateDefinitions(s.defs); err != nil {
		return nil, err
	}

	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.Name != "" {
		s.logger = s.logger.With("site", s.Name)
	}

	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func validateDefinitions(defs []collection.Definition) error {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("collection name is required")
		}
		if seen[def.Name] {
			return fmt.Errorf("duplicate collection %q", def.Name)
		}
		seen[def.Name] = true
	}
	return nil
}

// Reload rebuilds every collection and swaps them in at once. On error the
// previous collections stay in place.
func (s *Site) Reload(ctx context.Context) error {
	built := make([]*collection.Collection, len(s.defs))
	opts := []collection.Option{
		collection.WithLogger(s.logger),
		collection.WithHooks(s.hooks),
		collection.WithConcurrency(s.concurrency),
	}
	if s.failFast {
		opts = append(opts, collection.WithFailFast())
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, def := range s.defs {
		g.Go(func() error {
			c, err := collection.Build(gctx, def, opts...)
			if err != nil {
				return err
			}
			built[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	next := make(map[string]*collection.Collection, len(built))
	for _, c := range built {
		next[c.Name()] = c
	}

	s.mu.Lock()
	s.collections = next
	s.mu.Unlock()
	return nil
}

// Collection returns the named collection, or domain.ErrCollectionNotFound.
func (s *Site) Collection(name string) (*collection.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	return c, nil
}

// Collections returns every collection sorted by name.
func (s *Site) Collections() []*collection.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*collection.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Dir returns the absolute site directory, empty for sites built only from
// WithCollections.
func (s *Site) Dir() string { return s.dir }

// Definitions returns the collection definitions of the site.
func (s *Site) Definitions() []collection.Definition {
	return append([]collection.Definition(nil), s.defs...)
}

// Watch merges change notifications of every watchable collection source.
// Directory sources are watched through Loam and report the entry ID a build
// would assign, slug included; directories created after Watch starts are not
// observed. The channel is closed once every source has stopped, which for
// directory sources happens when ctx is done.
func (s *Site) Watch(ctx context.Context) (<-chan string, error) {
	var sources []ports.Watchable
	for _, def := range s.defs {
		w, err := watcherFor(def)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", def.Name, err)
		}
		if w != nil {
			sources = append(sources, w)
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no collection source supports watching")
	}

	out := make(chan string, len(sources))
	var wg sync.WaitGroup
	for _, src := range sources {
		ch, err := src.Watch(ctx)
		if err != nil {
			return nil, err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ch {
				select {
				case out <- id:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out, nil
}

func watcherFor(def collection.Definition) (ports.Watchable, error) {
	if w, ok := def.Source.(ports.Watchable); ok {
		return w, nil
	}
	g, ok := def.Source.(*collection.GlobLoader)
	if !ok || g.Base == "" {
		return nil, nil
	}
	return loamAdapter.New(g.Base, g.Pattern)
}
