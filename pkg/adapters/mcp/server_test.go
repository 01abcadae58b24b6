package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/docu"
	"github.com/aretw0/docu/internal/testutils"
	"github.com/aretw0/docu/pkg/adapters/memory"
	"github.com/aretw0/docu/pkg/domain"
	"github.com/aretw0/docu/pkg/widget"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := testutils.SetupContent(t, map[string]string{
		"intro.md": testutils.Document("/docs/intro", 1, "nextUrl: /docs/next"),
		"next.md":  testutils.Document("/docs/next", 2, "previousUrl: /docs/intro"),
		"bad.md":   "---\nurl: /bad\n---\n",
	})
	site, err := docu.New(dir)
	require.NoError(t, err)
	return NewServer(site, widget.NewManager(memory.NewStore()))
}

func TestListEntries(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.handleListEntries(context.Background(), mcp.CallToolRequest{}, listEntriesArgs{})
	require.NoError(t, err)

	assert.Equal(t, "docu", resp.Collection)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "intro", resp.Entries[0].ID)
	assert.Empty(t, resp.Entries[0].Body)
	assert.Equal(t, 1, resp.Issues)

	_, err = s.handleListEntries(context.Background(), mcp.CallToolRequest{}, listEntriesArgs{Collection: "blog"})
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func TestGetEntry(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.handleGetEntry(context.Background(), mcp.CallToolRequest{}, getEntryArgs{ID: "intro"})
	require.NoError(t, err)

	assert.Contains(t, resp.Entry.Body, "# Heading")
	assert.Nil(t, resp.Previous)
	require.NotNil(t, resp.Next)
	assert.Equal(t, "next", resp.Next.ID)

	_, err = s.handleGetEntry(context.Background(), mcp.CallToolRequest{}, getEntryArgs{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestValidateDocument(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleValidateDocument(ctx, mcp.CallToolRequest{}, validateArgs{
		Markdown: testutils.Document("/docs/new", 7, "previousUrl: /a", "nextUrl: /b"),
		Path:     "guides/new.md",
	})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, "guides/new", resp.ID)
	require.NotNil(t, resp.Document)
	assert.Equal(t, 7.0, resp.Document.Number)
	assert.Equal(t, "/a", resp.Document.PreviousURL.OrElse(""))

	resp, err = s.handleValidateDocument(ctx, mcp.CallToolRequest{}, validateArgs{
		Markdown: "---\nurl: /x\nnumber: \"1\"\n---\n",
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)

	keys := make([]string, 0, len(resp.Errors))
	for _, fe := range resp.Errors {
		keys = append(keys, fe.Key)
	}
	assert.Equal(t, []string{"description", "icon", "number", "title"}, keys)

	resp, err = s.handleValidateDocument(ctx, mcp.CallToolRequest{}, validateArgs{Markdown: "---\nurl: [\n---\n"})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Message)
	assert.Empty(t, resp.Errors)
}

func TestValidateDocument_Fields(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	draft := "---\nurl: /docs/draft\nnumber: .inf\nslug: wip\n---\n"

	resp, err := s.handleValidateDocument(ctx, mcp.CallToolRequest{}, validateArgs{
		Markdown: draft,
		Fields:   []string{"url", "nextUrl"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Valid, resp.Message)
	assert.Equal(t, "wip", resp.ID)
	assert.Nil(t, resp.Document)

	resp, err = s.handleValidateDocument(ctx, mcp.CallToolRequest{}, validateArgs{
		Markdown: draft,
		Fields:   []string{"number", "tags"},
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "number", resp.Errors[0].Key)
	assert.Equal(t, "tags", resp.Errors[1].Key)
	assert.Equal(t, "not defined in schema", resp.Errors[1].Reason)
}

func TestIncrementCounter(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	var resp CounterResponse
	var err error
	for i := 0; i < 3; i++ {
		resp, err = s.handleIncrementCounter(ctx, mcp.CallToolRequest{}, counterArgs{ID: "c"})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), resp.Count)
	assert.Equal(t, "Contador: 3", resp.Label)

	_, err = s.handleIncrementCounter(ctx, mcp.CallToolRequest{}, counterArgs{})
	assert.ErrorIs(t, err, widget.ErrInvalidID)
}
