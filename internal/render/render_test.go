package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	html, err := Markdown("# Title\n\nbody text\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<p>body text</p>")
}

func TestMarkdownEmpty(t *testing.T) {
	html, err := Markdown("")
	require.NoError(t, err)
	assert.Equal(t, "", html)
}
