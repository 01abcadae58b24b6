package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/aretw0/docu/pkg/domain"
	"github.com/aretw0/docu/pkg/frontmatter"
	"github.com/aretw0/docu/pkg/schema"
	"golang.org/x/sync/errgroup"
)

// Hooks observe a build. Every hook is optional.
type Hooks struct {
	OnEntry func(collection string, entry domain.Entry)
	OnIssue func(issue Issue)
	OnBuilt func(collection string, entries, issues int, elapsed time.Duration)
}

type buildOptions struct {
	logger      *slog.Logger
	failFast    bool
	concurrency int
	hooks       Hooks
}

// Option configures Build.
type Option func(*buildOptions)

// WithLogger sets the logger used to report progress and issues.
func WithLogger(logger *slog.Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithFailFast aborts the build on the first rejected document.
func WithFailFast() Option {
	return func(o *buildOptions) {
		o.failFast = true
	}
}

// WithConcurrency bounds the number of documents processed at once.
// Values below 1 select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *buildOptions) {
		o.concurrency = n
	}
}

// WithHooks registers build observers.
func WithHooks(h Hooks) Option {
	return func(o *buildOptions) {
		o.hooks = h
	}
}

type result struct {
	entry *domain.Entry
	issue *Issue
}

// Build discovers, validates and decodes every document of the definition.
//
// Documents are processed in parallel and independently. Rejected documents
// are returned as Issues of the collection, unless WithFailFast is set, in
// which case the first one is returned as a *BuildError. Errors from the
// source itself (discovery) and context cancellation always abort.
func Build(ctx context.Context, def Definition, opts ...Option) (*Collection, error) {
	o := buildOptions{concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.concurrency < 1 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
	if def.Source == nil {
		return nil, fmt.Errorf("collection %s: no source", def.Name)
	}

	logger := o.logger.With("collection", def.Name)
	start := time.Now()

	paths, err := def.Source.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("collection %s: discover: %w", def.Name, err)
	}
	logger.Debug("Documents discovered", "count", len(paths))

	results := make([]result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, issue := loadEntry(def, p)
			if issue != nil {
				if o.failFast {
					return &BuildError{Issue: *issue}
				}
				results[i].issue = issue
				return nil
			}
			results[i].entry = &entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var be *BuildError
		if errors.As(err, &be) {
			logger.Error("Build aborted", "path", be.Issue.FilePath, "err", be.Issue.Err)
			if o.hooks.OnIssue != nil {
				o.hooks.OnIssue(be.Issue)
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	entries, issues := assemble(def.Name, results)
	for _, e := range entries {
		logger.Debug("Entry loaded", "id", e.ID, "path", e.FilePath)
		if o.hooks.OnEntry != nil {
			o.hooks.OnEntry(def.Name, e)
		}
	}
	for _, issue := range issues {
		logger.Warn("Document rejected", "path", issue.FilePath, "kind", issue.Kind, "err", issue.Err)
		if o.hooks.OnIssue != nil {
			o.hooks.OnIssue(issue)
		}
	}

	elapsed := time.Since(start)
	logger.Info("Collection built", "entries", len(entries), "issues", len(issues), "elapsed", elapsed)
	if o.hooks.OnBuilt != nil {
		o.hooks.OnBuilt(def.Name, len(entries), len(issues), elapsed)
	}

	return newCollection(def.Name, entries, issues), nil
}

// assemble keeps results in discovery (path) order so that, on duplicate
// IDs, the lexicographically first path wins.
func assemble(name string, results []result) ([]domain.Entry, []Issue) {
	var entries []domain.Entry
	var issues []Issue
	owner := make(map[string]string, len(results))

	for _, r := range results {
		switch {
		case r.issue != nil:
			issues = append(issues, *r.issue)
		case r.entry != nil:
			if first, dup := owner[r.entry.ID]; dup {
				issues = append(issues, Issue{
					Collection: name,
					FilePath:   r.entry.FilePath,
					ID:         r.entry.ID,
					Kind:       IssueDuplicate,
					Err:        fmt.Errorf("id %q already defined by %s", r.entry.ID, first),
				})
				continue
			}
			owner[r.entry.ID] = r.entry.FilePath
			entries = append(entries, *r.entry)
		}
	}

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].FilePath < issues[j].FilePath })
	return entries, issues
}

// loadEntry reads one document. It never touches shared state.
func loadEntry(def Definition, p string) (domain.Entry, *Issue) {
	fail := func(kind IssueKind, err error) (domain.Entry, *Issue) {
		return domain.Entry{}, &Issue{Collection: def.Name, FilePath: p, Kind: kind, Err: err}
	}

	rc, err := def.Source.Open(p)
	if err != nil {
		return fail(IssueRead, err)
	}
	src, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fail(IssueRead, err)
	}
	return parseEntry(def, p, src)
}

// ParseEntry validates a single document of the definition without a source.
// A rejected document is returned as an Issue.
func ParseEntry(def Definition, p string, src []byte) (domain.Entry, error) {
	entry, issue := parseEntry(def, p, src)
	if issue != nil {
		return domain.Entry{}, *issue
	}
	return entry, nil
}

func parseEntry(def Definition, p string, src []byte) (domain.Entry, *Issue) {
	fail := func(kind IssueKind, err error) (domain.Entry, *Issue) {
		return domain.Entry{}, &Issue{Collection: def.Name, FilePath: p, Kind: kind, Err: err}
	}

	data, body, err := frontmatter.ParseBytes(src)
	if err != nil {
		return fail(IssueParse, err)
	}

	if err := schema.Validate(def.Schema, data); err != nil {
		return fail(IssueInvalid, err)
	}

	declared, extra := splitFields(def.Schema, data)
	doc, err := Decode(declared)
	if err != nil {
		return fail(IssueInvalid, err)
	}

	return domain.Entry{
		ID:         ResolveID(p, data),
		Collection: def.Name,
		FilePath:   p,
		Data:       doc,
		Fields:     extra,
		Body:       string(body),
	}, nil
}
