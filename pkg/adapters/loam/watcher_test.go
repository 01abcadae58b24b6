package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, base, name, body string) {
	t.Helper()
	p := filepath.Join(base, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func TestNew(t *testing.T) {
	w, err := New(t.TempDir(), "")
	require.NoError(t, err)
	assert.NotNil(t, w.Repo)
	assert.NotNil(t, w.Resolve)
	assert.Equal(t, "**/*.md", w.Pattern)
}

func TestRelPath(t *testing.T) {
	base := t.TempDir()
	write(t, base, "Getting Started/First Steps.md", "# hi\n")
	write(t, base, "notes.v2.md", "# v2\n")
	write(t, base, "guides/setup.txt", "not markdown")

	w, err := New(base, "**/*.md")
	require.NoError(t, err)

	assert.Equal(t, "Getting Started/First Steps.md", w.relPath("Getting Started/First Steps"))
	assert.Equal(t, "notes.v2.md", w.relPath("notes.v2"))
	assert.Equal(t, "guides/setup.md", w.relPath("guides/setup"), "only pattern matches count")
	assert.Equal(t, "gone.md", w.relPath("gone"))
	assert.Equal(t, "", patternExt("**/*.{md,mdx}"))
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	write(t, base, "Getting Started.md", "# hi\n")
	write(t, base, "custom.md", "---\nslug: my/custom-id\n---\n")
	write(t, base, "guides/index.md", "# guides\n")
	write(t, base, "_drafts/wip.md", "# wip\n")

	w, err := New(base, "**/*.md")
	require.NoError(t, err)

	tests := []struct {
		loamID string
		want   string
		ok     bool
	}{
		{"Getting Started", "getting-started", true},
		{"custom", "my/custom-id", true},
		{"guides/index", "guides", true},
		{"Deleted Page", "deleted-page", true},
		{"_drafts/wip", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.loamID, func(t *testing.T) {
			id, ok := w.Resolve(w.relPath(tt.loamID))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestWatch_EmitsEntryIDs(t *testing.T) {
	base := t.TempDir()
	w, err := New(base, "**/*.md")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := w.Watch(ctx)
	require.NoError(t, err)

	write(t, base, "Getting Started.md", "---\ntitle: x\n---\n")

	select {
	case id := <-ch:
		assert.Equal(t, "getting-started", id)
	case <-ctx.Done():
		t.Fatal("timeout waiting for watch event")
	}
}
