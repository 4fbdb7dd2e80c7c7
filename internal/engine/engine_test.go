package engine

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamplate/internal/compiler"
	"jamplate/internal/document"
	"jamplate/internal/instruction"
	"jamplate/internal/parser"
	"jamplate/internal/tree"
)

// toy dialect: digits become nodes that print doubled
func toyRegistry() *Registry {
	return NewRegistry(
		Spec{
			Name:   "digit",
			Parser: parser.Hierarchy(parser.NewPattern("digit", regexp.MustCompile(`\d`)), nil),
			Compiler: compiler.Kind("digit", compiler.Func(
				func(_ compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
					text, err := t.Text()
					if err != nil {
						return nil, err
					}
					return instruction.NewPushText(t, text+text), nil
				})),
		},
		Spec{
			Name: "document",
			Compiler: compiler.Kind("document", compiler.Func(
				func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
					block, err := compiler.Flatten(compiler.ToPushConst(), nil).Compile(self, t)
					if err != nil {
						return nil, err
					}
					return instruction.NewConsole(t, block), nil
				})),
		},
	)
}

func TestProcessAndExecute(t *testing.T) {
	env := New(toyRegistry())
	comp, err := env.Process(document.New("doc", "a1b2"))
	require.NoError(t, err)
	require.NotNil(t, comp.Instruction())

	out, err := env.Execute(comp, nil)
	require.NoError(t, err)
	assert.Equal(t, "a11b22", out)
}

func TestParseReachesFixedPoint(t *testing.T) {
	env := New(toyRegistry())
	comp, err := env.Process(document.New("doc", "123"))
	require.NoError(t, err)

	// every digit claimed exactly once
	children := comp.Root().Children()
	assert.Len(t, children, 3)
}

func TestProcessorHookRuns(t *testing.T) {
	ran := false
	registry := toyRegistry()
	registry.Add(Spec{
		Name: "hook",
		Processor: func(c *Compilation) (bool, error) {
			ran = true
			return false, nil
		},
	})
	env := New(registry)
	_, err := env.Process(document.New("doc", "x"))
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestInstructionLookup(t *testing.T) {
	env := New(toyRegistry())
	_, err := env.Process(document.New("lib", "7"))
	require.NoError(t, err)

	instr, ok := env.Instruction("lib")
	assert.True(t, ok)
	assert.NotNil(t, instr)

	_, ok = env.Instruction("missing")
	assert.False(t, ok)
}

func TestExecuteSeedsDefinitions(t *testing.T) {
	env := New(toyRegistry())
	comp, err := env.Process(document.New("doc", "x"))
	require.NoError(t, err)

	out, err := env.Execute(comp, map[string]string{"NAME": "zed"})
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestShellDocumentFailsProcessing(t *testing.T) {
	env := New(toyRegistry())
	_, err := env.Process(document.Shell("ghost"))
	require.Error(t, err)
}

func TestRegistryOrderAndLookup(t *testing.T) {
	r := NewRegistry(Spec{Name: "a"}, Spec{Name: "b"})
	r.Add(Spec{Name: "c"})

	names := []string{}
	for _, s := range r.Specs() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	_, ok := r.Get("b")
	assert.True(t, ok)
	_, ok = r.Get("z")
	assert.False(t, ok)
}
