package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	r := New()

	out, err := r.HTML("# Getting Started\n\nSome *text* and a [link](/docs/next).\n")
	require.NoError(t, err)

	assert.Contains(t, out, `<h1 id="getting-started">Getting Started</h1>`)
	assert.Contains(t, out, "<em>text</em>")
	assert.Contains(t, out, `href="/docs/next"`)
}

func TestHTML_Sanitizes(t *testing.T) {
	r := New()

	out, err := r.HTML("hello <script>alert(1)</script>\n\n<a href=\"javascript:alert(1)\">x</a>\n")
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}
