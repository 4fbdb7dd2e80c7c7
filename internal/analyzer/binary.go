// internal/analyzer/binary.go
package analyzer

import (
	"jamplate/internal/document"
	"jamplate/internal/interval"
	"jamplate/internal/tree"
)

// BinaryOperator wraps an operator sign together with its two sibling
// neighbors into a container of the given kind, assigning the sign, left
// and right sub-components. A sign with a missing neighbor, or one that
// is already the sign of its container, is left alone.
func BinaryOperator(sign Query, kind string) Analyzer {
	return Func(func(t *tree.Tree) (bool, error) {
		if !sign(t) {
			return false, nil
		}
		parent := t.Parent()
		if parent == nil {
			return false, nil
		}
		if parent.Kind() == kind && parent.Sketch().Get("sign") == t.Sketch() {
			return false, nil
		}
		left := t.PreviousSibling()
		right := t.NextSibling()
		if left == nil || right == nil {
			return false, nil
		}

		start := left.Reference().Position()
		end := right.Reference().End()
		ref := document.NewReference(t.Document(), start, end-start)

		// a wrapper that spans its parent exactly must outweigh it to be
		// pushed in between the parent and the operands
		weight := t.Weight()
		if parent.Reference().Dominance(ref) == interval.Exact {
			weight = parent.Weight() + 1
		}
		wrapper := tree.New(ref, kind, weight)
		wrapper.Sketch().Set("sign", t.Sketch())
		wrapper.Sketch().Set("left", left.Sketch())
		wrapper.Sketch().Set("right", right.Sketch())

		attached, err := parent.Offer(wrapper)
		if err != nil {
			return false, err
		}
		return attached, nil
	})
}
