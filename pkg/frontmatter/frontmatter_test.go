package frontmatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `---
url: /docs/intro
number: 1
title: Intro
nextUrl: /docs/setup
---
# Intro

Welcome.
`
	data, body, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "/docs/intro", data["url"])
	assert.Equal(t, 1, data["number"])
	assert.Equal(t, "Intro", data["title"])
	assert.Equal(t, "/docs/setup", data["nextUrl"])
	assert.Equal(t, "# Intro\n\nWelcome.\n", string(body))
}

func TestParse_CRLFAndBOM(t *testing.T) {
	src := "\xef\xbb\xbf---\r\ntitle: Windows\r\nnumber: 2.5\r\n---\r\nbody\r\n"

	data, body, err := ParseBytes([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "Windows", data["title"])
	assert.Equal(t, 2.5, data["number"])
	assert.Equal(t, "body\r\n", string(body))
}

func TestParse_NoFrontMatter(t *testing.T) {
	src := "# Just markdown\n\n--- not a delimiter at start\n"

	data, body, err := ParseBytes([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, src, string(body))
}

func TestParse_EmptyBlock(t *testing.T) {
	data, body, err := ParseBytes([]byte("---\n---\nbody"))
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)
	assert.Equal(t, "body", string(body))
}

func TestParse_DelimiterOnlyIsBody(t *testing.T) {
	data, body, err := ParseBytes([]byte("---"))
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, "---", string(body))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated", "---\ntitle: Intro\nbody without closing\n"},
		{"not a mapping", "---\n- a\n- b\n---\n"},
		{"broken yaml", "---\ntitle: [unclosed\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseBytes([]byte(tt.src))
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.Equal(t, 1, pe.Line)
		})
	}
}
