package diagnostic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamplate/internal/document"
	jerrors "jamplate/internal/errors"
	"jamplate/internal/tree"
)

func TestRenderForeignError(t *testing.T) {
	out := NewPlain().Render(errors.New("boom"))
	assert.Equal(t, "boom", out)
}

func TestRenderWithoutPosition(t *testing.T) {
	out := NewPlain().Render(jerrors.NewCompile("bad input", nil))
	assert.Equal(t, "CompileError: bad input\n", out)
}

func TestRenderWithSourceLine(t *testing.T) {
	doc := document.New("greet.jam", "hello\n#boom here\nbye\n")
	ref := document.NewReference(doc, 6, 10)
	offending := tree.New(ref, "command:boom", 0)

	out := NewPlain().Render(jerrors.NewExecution("it broke", offending))

	require.Contains(t, out, "ExecutionError: it broke")
	assert.Contains(t, out, "at greet.jam:2:1")
	assert.Contains(t, out, "2 | #boom here")
	assert.Contains(t, out, "^")
}

func TestRenderShellDocumentDegradesGracefully(t *testing.T) {
	doc := document.Shell("ghost")
	ref := document.NewReference(doc, 3, 1)
	offending := tree.New(ref, "x", 0)

	out := NewPlain().Render(jerrors.NewExecution("gone", offending))
	assert.Contains(t, out, "ExecutionError: gone")
	assert.Contains(t, out, "ghost")
}
