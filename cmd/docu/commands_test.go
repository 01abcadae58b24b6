package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/aretw0/docu/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func site(t *testing.T) string {
	return testutils.SetupContent(t, map[string]string{
		"b.md": testutils.Document("/docs/b", 2, "previousUrl: /docs/a", "nextUrl: /docs/gone"),
		"a.md": testutils.Document("/docs/a", 1, "nextUrl: /docs/b"),
	})
}

func TestListCommand(t *testing.T) {
	out := execute(t, "list", "--dir", site(t), "--json=false")

	assert.Contains(t, out, "NUMBER")
	assert.Less(t, bytes.Index([]byte(out), []byte("/docs/a")), bytes.Index([]byte(out), []byte("/docs/b")))
}

func TestListCommand_JSON(t *testing.T) {
	out := execute(t, "list", "--dir", site(t), "--json=true")

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0]["id"])
}

func TestValidateCommand(t *testing.T) {
	out := execute(t, "validate", "--dir", site(t))

	assert.Contains(t, out, "docu: 2 entries, 0 issues")
	assert.Contains(t, out, `nextUrl "/docs/gone" matches no entry`)
}

func TestShowCommand(t *testing.T) {
	out := execute(t, "show", "b", "--dir", site(t), "--raw")

	assert.Contains(t, out, "# Title 2")
	assert.Contains(t, out, "← /docs/a")
	assert.Contains(t, out, "→ /docs/gone")
}
