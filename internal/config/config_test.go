package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/docu/pkg/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.Len(t, cfg.Collections, 1)
	assert.Equal(t, "docu", cfg.Collections[0].Name)
	assert.Equal(t, "**/*.md", cfg.Collections[0].Pattern)
}

func TestLoad_ExplicitMissing(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `
collections:
  - name: docu
    base: content
  - name: guides
    base: /abs/guides
    pattern: "**/*.markdown"
server:
  port: "9090"
redis:
  url: redis://localhost:6379/0
  ttl: 30m
fail_fast: true
concurrency: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	require.Len(t, cfg.Collections, 2)
	assert.Equal(t, "content", cfg.Collections[0].Base)
	assert.Equal(t, collection.DefaultPattern, cfg.Collections[0].Pattern)
	assert.Equal(t, "**/*.markdown", cfg.Collections[1].Pattern)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, 4, cfg.Concurrency)

	defs, err := cfg.Definitions(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, filepath.Join(dir, "content"), defs[0].Source.(*collection.GlobLoader).Base)
	assert.Equal(t, "/abs/guides", defs[1].Source.(*collection.GlobLoader).Base)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"no name":     "collections:\n  - base: x\n",
		"duplicate":   "collections:\n  - name: a\n  - name: a\n",
		"negative":    "concurrency: -1\n",
		"yaml":        "collections: [\n",
		"two schemas": "collections:\n  - name: a\n    schema_file: a.json\n    schema:\n      title: string\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
			_, err := Load(dir, "")
			assert.Error(t, err)
		})
	}
}

func TestDefinitions_Schema(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blog.json"),
		[]byte(`{"title": "string", "date": "date", "draft": "bool?"}`), 0644))
	content := `
collections:
  - name: docu
  - name: notes
    base: notes
    schema:
      title: string
      number: int?
      tags: "[string]?"
  - name: blog
    base: blog
    schema_file: blog.json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	defs, err := cfg.Definitions(dir)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.Equal(t, collection.DocuSchema().Fields(), defs[0].Schema.Fields())
	assert.Equal(t, []string{"number", "tags", "title"}, defs[1].Schema.Fields())
	assert.Equal(t, "[string]?", defs[1].Schema["tags"].Name())
	assert.Equal(t, []string{"title"}, defs[2].Schema.Required())
	assert.Equal(t, "date", defs[2].Schema["date"].Name())
}

func TestDefinitions_SchemaErrors(t *testing.T) {
	tests := map[string]Collection{
		"unknown type":   {Name: "a", Schema: map[string]string{"title": "text"}},
		"document clash": {Name: "a", Schema: map[string]string{"url": "int"}},
		"missing file":   {Name: "a", SchemaFile: "nope.json"},
		"malformed file": {Name: "a", SchemaFile: "bad.json"},
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`["title"]`), 0644))

	for name, col := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Config{Collections: []Collection{col}}
			_, err := cfg.Definitions(dir)
			assert.Error(t, err)
		})
	}
}
