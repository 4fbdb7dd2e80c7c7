// internal/parser/parser.go
package parser

import (
	"jamplate/internal/document"
	"jamplate/internal/interval"
	"jamplate/internal/tree"
)

// Parser extracts new sub-trees from a tree. The returned trees are
// detached; the pipeline offers them back into the hierarchy and repeats
// until a full pass produces nothing new.
type Parser interface {
	Parse(t *tree.Tree) ([]*tree.Tree, error)
}

// Func adapts a function to the Parser interface.
type Func func(t *tree.Tree) ([]*tree.Tree, error)

func (f Func) Parse(t *tree.Tree) ([]*tree.Tree, error) { return f(t) }

// Hierarchy applies the inner parser to every node of the subtree. Nodes
// matched by skip are not visited and not descended into; opaque regions
// such as quote bodies prune there.
func Hierarchy(inner Parser, skip func(*tree.Tree) bool) Parser {
	return Func(func(t *tree.Tree) ([]*tree.Tree, error) {
		var out []*tree.Tree
		var walk func(n *tree.Tree) error
		walk = func(n *tree.Tree) error {
			if skip != nil && skip(n) {
				return nil
			}
			found, err := inner.Parse(n)
			if err != nil {
				return err
			}
			out = append(out, found...)
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if err := walk(c); err != nil {
					return err
				}
			}
			return nil
		}
		if err := walk(t); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Gated applies the inner parser only to trees accepted by pred.
func Gated(pred func(*tree.Tree) bool, inner Parser) Parser {
	return Func(func(t *tree.Tree) ([]*tree.Tree, error) {
		if !pred(t) {
			return nil, nil
		}
		return inner.Parse(t)
	})
}

// Free reports whether the interval [position, position+length) is not
// claimed by any child of t, and is not t's own span being re-matched as
// the same kind. A match spanning t exactly under a different kind is
// allowed; it attaches by outweighing t.
func Free(t *tree.Tree, position, length int, kind string) bool {
	candidate := document.NewReference(t.Document(), position, length)
	if t.Reference().Dominance(candidate) == interval.Exact && t.Kind() == kind {
		return false
	}
	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Reference().Dominance(candidate) != interval.None {
			return false
		}
	}
	return true
}

// WeightOver returns the weight a new tree over ref needs to attach below
// t: the tree's own weight, or one above t's when the spans are equal.
func WeightOver(t *tree.Tree, ref document.Reference, weight int) int {
	if t.Reference().Dominance(ref) == interval.Exact {
		return t.Weight() + 1
	}
	return weight
}
