package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Document returns a markdown file whose front-matter carries every required
// docu field plus the extra YAML lines.
func Document(url string, number any, extra ...string) string {
	fm := fmt.Sprintf("url: %s\nnumber: %v\ntitle: Title %v\ndescription: About %v\nicon: book\n",
		url, number, number, number)
	for _, line := range extra {
		fm += line + "\n"
	}
	return "---\n" + fm + "---\n# Heading\n\nBody of " + url + ".\n"
}

// SetupContent creates a site in a temporary directory and writes files,
// keyed by their path relative to src/content. It returns the absolute site
// directory and fails the test immediately on error.
func SetupContent(t *testing.T, files map[string]string) string {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	content := filepath.Join(dir, "src", "content")
	require.NoError(t, os.MkdirAll(content, 0755))

	for name, body := range files {
		WriteFile(t, content, name, body)
	}
	return dir
}

// WriteFile writes body to base/name, creating parent directories.
func WriteFile(t *testing.T, base, name, body string) {
	t.Helper()
	p := filepath.Join(base, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0644), "Failed to write %s", name)
}
