package collection

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/docu/pkg/domain"
)

// Collection is an immutable set of validated entries.
type Collection struct {
	name    string
	entries map[string]domain.Entry
	order   []string
	byURL   map[string]string
	issues  []Issue
	builtAt time.Time
}

func newCollection(name string, entries []domain.Entry, issues []Issue) *Collection {
	c := &Collection{
		name:    name,
		entries: make(map[string]domain.Entry, len(entries)),
		order:   make([]string, 0, len(entries)),
		byURL:   make(map[string]string, len(entries)),
		issues:  issues,
		builtAt: time.Now(),
	}
	for _, e := range entries {
		c.entries[e.ID] = e
		c.order = append(c.order, e.ID)
	}

	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.entries[c.order[i]], c.entries[c.order[j]]
		if a.Data.Number != b.Data.Number {
			return a.Data.Number < b.Data.Number
		}
		return a.ID < b.ID
	})

	for _, id := range c.order {
		key := normalizeURL(c.entries[id].Data.URL)
		if _, taken := c.byURL[key]; !taken {
			c.byURL[key] = id
		}
	}
	return c
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// BuiltAt returns when the collection was assembled.
func (c *Collection) BuiltAt() time.Time { return c.builtAt }

// Len returns the number of entries.
func (c *Collection) Len() int { return len(c.entries) }

// Get returns the entry with the given ID.
func (c *Collection) Get(id string) (domain.Entry, error) {
	e, ok := c.entries[id]
	if !ok {
		return domain.Entry{}, fmt.Errorf("%s/%s: %w", c.name, id, domain.ErrEntryNotFound)
	}
	return e, nil
}

// Entries returns every entry ordered by number, then ID.
func (c *Collection) Entries() []domain.Entry {
	out := make([]domain.Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

// IDs returns the entry IDs in the order of Entries.
func (c *Collection) IDs() []string {
	return append([]string(nil), c.order...)
}

// Issues returns the documents rejected during the build, ordered by file path.
func (c *Collection) Issues() []Issue {
	return append([]Issue(nil), c.issues...)
}

// ByURL finds the entry whose url matches. A trailing slash is not significant.
// When several entries share a url the first in order wins.
func (c *Collection) ByURL(url string) (domain.Entry, bool) {
	id, ok := c.byURL[normalizeURL(url)]
	if !ok {
		return domain.Entry{}, false
	}
	return c.entries[id], true
}

// Neighbors resolves the previousUrl and nextUrl of an entry.
// A link that is unset, or that matches no entry, yields Absent.
func (c *Collection) Neighbors(id string) (prev, next domain.Optional[domain.Entry], err error) {
	e, err := c.Get(id)
	if err != nil {
		return prev, next, err
	}
	return c.resolve(e.Data.PreviousURL), c.resolve(e.Data.NextURL), nil
}

func (c *Collection) resolve(link domain.Optional[string]) domain.Optional[domain.Entry] {
	url, ok := link.Get()
	if !ok {
		return domain.Absent[domain.Entry]()
	}
	if target, found := c.ByURL(url); found {
		return domain.Present(target)
	}
	return domain.Absent[domain.Entry]()
}

// Link is a navigation link that points at no entry.
type Link struct {
	EntryID string `json:"entryId"`
	Field   string `json:"field"`
	URL     string `json:"url"`
}

func (l Link) String() string {
	return fmt.Sprintf("%s: %s %q matches no entry", l.EntryID, l.Field, l.URL)
}

// DanglingLinks reports previousUrl/nextUrl values that resolve to no entry.
// The report is informational; such entries remain part of the collection.
func (c *Collection) DanglingLinks() []Link {
	var out []Link
	for _, id := range c.order {
		e := c.entries[id]
		for _, f := range []struct {
			name string
			link domain.Optional[string]
		}{
			{domain.FieldPreviousURL, e.Data.PreviousURL},
			{domain.FieldNextURL, e.Data.NextURL},
		} {
			url, ok := f.link.Get()
			if !ok {
				continue
			}
			if _, found := c.ByURL(url); !found {
				out = append(out, Link{EntryID: id, Field: f.name, URL: url})
			}
		}
	}
	return out
}

func normalizeURL(u string) string {
	if len(u) > 1 {
		return strings.TrimSuffix(u, "/")
	}
	return u
}
