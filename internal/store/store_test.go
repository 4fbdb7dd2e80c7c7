package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamplate/internal/document"
	"jamplate/internal/engine"
	"jamplate/internal/spec"
)

func TestRoundTrip(t *testing.T) {
	env := engine.New(spec.Default())
	_, err := env.Process(document.New("greet", "#define NAME world\nhello [NAME]\n"))
	require.NoError(t, err)

	data, err := Marshal(env)
	require.NoError(t, err)

	restored, err := Unmarshal(data, spec.Default())
	require.NoError(t, err)

	comp, ok := restored.Compilation("greet")
	require.True(t, ok)
	require.NotNil(t, comp.Instruction())

	out, err := restored.Execute(comp, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestRestoredDocumentsAreShells(t *testing.T) {
	env := engine.New(spec.Default())
	_, err := env.Process(document.New("doc", "text"))
	require.NoError(t, err)

	data, err := Marshal(env)
	require.NoError(t, err)
	restored, err := Unmarshal(data, spec.Default())
	require.NoError(t, err)

	comp, ok := restored.Compilation("doc")
	require.True(t, ok)
	_, cerr := comp.Document().Content()
	assert.ErrorIs(t, cerr, document.ErrShell)
	assert.Equal(t, "doc", comp.Document().Name())
}

func TestRoundTripPreservesImports(t *testing.T) {
	env := engine.New(spec.Default())
	_, err := env.Process(document.New("lib", "lib says hi\n"))
	require.NoError(t, err)
	_, err = env.Process(document.New("main", "#include 'lib'\n"))
	require.NoError(t, err)

	data, err := Marshal(env)
	require.NoError(t, err)
	restored, err := Unmarshal(data, spec.Default())
	require.NoError(t, err)

	comp, ok := restored.Compilation("main")
	require.True(t, ok)
	out, err := restored.Execute(comp, nil)
	require.NoError(t, err)
	assert.Equal(t, "lib says hi\n", out)
}

func TestDeterministicSnapshots(t *testing.T) {
	build := func() []byte {
		env := engine.New(spec.Default())
		_, err := env.Process(document.New("b", "two"))
		require.NoError(t, err)
		_, err = env.Process(document.New("a", "one"))
		require.NoError(t, err)
		data, err := Marshal(env)
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, string(build()), string(build()))
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	_, err := Decode(&Record{Opcode: "teleport"})
	assert.Error(t, err)
}

func TestDecodeRejectsMissingChildren(t *testing.T) {
	_, err := Decode(&Record{Opcode: "branch"})
	assert.Error(t, err)
}
