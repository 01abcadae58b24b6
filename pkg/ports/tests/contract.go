package tests

import (
	"context"
	"io"
	"sort"
	"testing"

	"github.com/aretw0/docu/pkg/ports"
)

// DocumentSourceContractTest is a reusable test suite that verifies if an
// adapter complies with ports.DocumentSource. files maps the expected
// relative paths to their content.
func DocumentSourceContractTest(t *testing.T, source ports.DocumentSource, files map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Discover", func(t *testing.T) {
		paths, err := source.Discover(ctx)
		if err != nil {
			t.Fatalf("unexpected error discovering documents: %v", err)
		}
		if len(paths) != len(files) {
			t.Errorf("expected %d paths, got %d (%v)", len(files), len(paths), paths)
		}
		if !sort.StringsAreSorted(paths) {
			t.Errorf("paths are not sorted: %v", paths)
		}
		for _, p := range paths {
			if _, ok := files[p]; !ok {
				t.Errorf("unexpected path %s", p)
			}
		}
	})

	t.Run("Open", func(t *testing.T) {
		for p, want := range files {
			rc, err := source.Open(p)
			if err != nil {
				t.Fatalf("unexpected error opening %s: %v", p, err)
			}
			got, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("unexpected error reading %s: %v", p, err)
			}
			if string(got) != want {
				t.Errorf("content mismatch for %s. got %q, want %q", p, got, want)
			}
		}
	})

	t.Run("Open_NotFound", func(t *testing.T) {
		if _, err := source.Open("does/not/exist.md"); err == nil {
			t.Error("expected error for missing file, got nil")
		}
	})

	t.Run("Discover_Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := source.Discover(cctx); err == nil {
			t.Error("expected error for cancelled context, got nil")
		}
	})
}
