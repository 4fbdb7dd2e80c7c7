// internal/analyzer/analyzer.go
package analyzer

import (
	"strings"

	"jamplate/internal/tree"
)

// Analyzer rewrites or enriches a tree after parsing. It reports whether
// it modified anything; the pipeline repeats all analyzers until a full
// pass changes nothing.
type Analyzer interface {
	Analyze(t *tree.Tree) (bool, error)
}

// Func adapts a function to the Analyzer interface.
type Func func(t *tree.Tree) (bool, error)

func (f Func) Analyze(t *tree.Tree) (bool, error) { return f(t) }

// Query is a predicate over trees used to target analyzers.
type Query func(*tree.Tree) bool

// Is matches trees of exactly the given kind.
func Is(kind string) Query {
	return func(t *tree.Tree) bool { return t.Kind() == kind }
}

// Kin matches trees whose kind is the given kind or a sub-kind of it
// (separated by a colon).
func Kin(kind string) Query {
	prefix := kind + ":"
	return func(t *tree.Tree) bool {
		return t.Kind() == kind || strings.HasPrefix(t.Kind(), prefix)
	}
}

// Parent matches trees whose parent matches q.
func Parent(q Query) Query {
	return func(t *tree.Tree) bool {
		p := t.Parent()
		return p != nil && q(p)
	}
}

// Ancestor matches trees with any ancestor matching q.
func Ancestor(q Query) Query {
	return func(t *tree.Tree) bool {
		for p := t.Parent(); p != nil; p = p.Parent() {
			if q(p) {
				return true
			}
		}
		return false
	}
}

// Not negates a query.
func Not(q Query) Query {
	return func(t *tree.Tree) bool { return !q(t) }
}

// And matches when every query matches.
func And(qs ...Query) Query {
	return func(t *tree.Tree) bool {
		for _, q := range qs {
			if !q(t) {
				return false
			}
		}
		return true
	}
}

// Or matches when any query matches.
func Or(qs ...Query) Query {
	return func(t *tree.Tree) bool {
		for _, q := range qs {
			if q(t) {
				return true
			}
		}
		return false
	}
}

// Hierarchy applies the inner analyzer to every node of the subtree. The
// node list is snapshotted up front so rewrites during the pass do not
// upset the walk; the pass reports modified and the fixed point loop
// takes another look.
func Hierarchy(inner Analyzer) Analyzer {
	return Func(func(t *tree.Tree) (bool, error) {
		modified := false
		for _, n := range tree.Collect(t) {
			m, err := inner.Analyze(n)
			if err != nil {
				return modified, err
			}
			modified = modified || m
		}
		return modified, nil
	})
}

// Filter applies the inner analyzer only to trees accepted by q.
func Filter(q Query, inner Analyzer) Analyzer {
	return Func(func(t *tree.Tree) (bool, error) {
		if !q(t) {
			return false, nil
		}
		return inner.Analyze(t)
	})
}

// Sequence runs analyzers in order, reporting whether any modified.
func Sequence(analyzers ...Analyzer) Analyzer {
	return Func(func(t *tree.Tree) (bool, error) {
		modified := false
		for _, a := range analyzers {
			m, err := a.Analyze(t)
			if err != nil {
				return modified, err
			}
			modified = modified || m
		}
		return modified, nil
	})
}
