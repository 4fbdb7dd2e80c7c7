package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamplate/internal/document"
	"jamplate/internal/tree"
)

func build(t *testing.T, content string) *tree.Tree {
	t.Helper()
	doc := document.New("test", content)
	ref, err := document.Whole(doc)
	require.NoError(t, err)
	return tree.New(ref, "document", -1)
}

func child(t *testing.T, parent *tree.Tree, pos, length int, kind string) *tree.Tree {
	t.Helper()
	n := tree.New(document.NewReference(parent.Document(), pos, length), kind, 0)
	_, err := parent.Root().Offer(n)
	require.NoError(t, err)
	return n
}

func TestQueries(t *testing.T) {
	r := build(t, "1+2")
	num := child(t, r, 0, 1, "value:number")

	assert.True(t, Is("value:number")(num))
	assert.False(t, Is("value")(num))
	assert.True(t, Kin("value")(num))
	assert.True(t, Kin("value:number")(num))
	assert.False(t, Kin("val")(num))
	assert.True(t, Parent(Is("document"))(num))
	assert.False(t, Parent(Is("other"))(num))
	assert.True(t, Ancestor(Is("document"))(num))
	assert.True(t, And(Is("value:number"), Parent(Is("document")))(num))
	assert.True(t, Or(Is("nope"), Is("value:number"))(num))
	assert.True(t, Not(Is("nope"))(num))
}

func TestBinaryOperatorWrapsNeighbors(t *testing.T) {
	r := build(t, "1+2 rest")
	left := child(t, r, 0, 1, "value:number")
	sign := child(t, r, 1, 1, "sign:plus")
	right := child(t, r, 2, 1, "value:number")
	child(t, r, 4, 4, "other")

	a := Hierarchy(BinaryOperator(Is("sign:plus"), "operator:sum"))
	modified, err := a.Analyze(r)
	require.NoError(t, err)
	assert.True(t, modified)

	wrapper := sign.Parent()
	require.NotNil(t, wrapper)
	assert.Equal(t, "operator:sum", wrapper.Kind())
	assert.Equal(t, 0, wrapper.Reference().Position())
	assert.Equal(t, 3, wrapper.Reference().Length())
	assert.Same(t, left.Sketch(), wrapper.Sketch().Get("left"))
	assert.Same(t, right.Sketch(), wrapper.Sketch().Get("right"))
	assert.Same(t, sign.Sketch(), wrapper.Sketch().Get("sign"))

	// second pass leaves the tree alone
	modified, err = a.Analyze(r)
	require.NoError(t, err)
	assert.False(t, modified)
}

func TestBinaryOperatorSkipsLonelySign(t *testing.T) {
	r := build(t, "+2")
	child(t, r, 0, 1, "sign:plus")
	child(t, r, 1, 1, "value:number")

	a := Hierarchy(BinaryOperator(Is("sign:plus"), "operator:sum"))
	modified, err := a.Analyze(r)
	require.NoError(t, err)
	assert.False(t, modified)
}

func TestBinaryOperatorChainsLeftAssociative(t *testing.T) {
	r := build(t, "1+2+3")
	child(t, r, 0, 1, "value:number")
	first := child(t, r, 1, 1, "sign:plus")
	child(t, r, 2, 1, "value:number")
	second := child(t, r, 3, 1, "sign:plus")
	child(t, r, 4, 1, "value:number")

	a := Hierarchy(BinaryOperator(Is("sign:plus"), "operator:sum"))
	for i := 0; i < 4; i++ {
		if _, err := a.Analyze(r); err != nil {
			t.Fatal(err)
		}
	}

	inner := first.Parent()
	require.NotNil(t, inner)
	outer := second.Parent()
	require.NotNil(t, outer)
	assert.Equal(t, "operator:sum", inner.Kind())
	assert.Equal(t, "operator:sum", outer.Kind())
	// the first sum is the left operand of the second
	assert.Same(t, inner.Sketch(), outer.Sketch().Get("left"))
}

func TestSequenceStopsReportingAccurately(t *testing.T) {
	calls := 0
	a := Sequence(
		Func(func(*tree.Tree) (bool, error) { calls++; return false, nil }),
		Func(func(*tree.Tree) (bool, error) { calls++; return true, nil }),
	)
	modified, err := a.Analyze(build(t, "x"))
	require.NoError(t, err)
	assert.True(t, modified)
	assert.Equal(t, 2, calls)
}
