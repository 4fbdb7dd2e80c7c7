// internal/tree/tree.go
package tree

import (
	"fmt"

	"jamplate/internal/document"
	"jamplate/internal/errors"
	"jamplate/internal/interval"
)

// Tree is a node of the overlay hierarchy over a document: a reference
// interval, a sketch, and links to its relatives. The structure keeps two
// invariants at all times: a parent's interval dominates every child as
// PART (or EXACT with a higher child weight), and siblings are pairwise
// disjoint.
type Tree struct {
	reference document.Reference
	sketch    *Sketch
	weight    int

	parent      *Tree
	firstChild  *Tree
	nextSibling *Tree
	prevSibling *Tree
}

// New returns a detached tree over reference labeled with a fresh sketch
// of the given kind.
func New(reference document.Reference, kind string, weight int) *Tree {
	t := &Tree{reference: reference, weight: weight}
	t.setSketch(NewSketch(kind))
	return t
}

func (t *Tree) setSketch(s *Sketch) {
	if t.sketch != nil {
		t.sketch.tree = nil
	}
	t.sketch = s
	s.tree = t
}

// Reference is nil-safe so a missing source tree still renders in
// diagnostics.
func (t *Tree) Reference() document.Reference {
	if t == nil {
		return document.Reference{}
	}
	return t.reference
}

func (t *Tree) Document() document.Document {
	if t == nil {
		return nil
	}
	return t.reference.Document()
}
func (t *Tree) Sketch() *Sketch               { return t.sketch }
func (t *Tree) Kind() string                  { return t.sketch.Kind() }
func (t *Tree) Weight() int                   { return t.weight }
func (t *Tree) Parent() *Tree                 { return t.parent }
func (t *Tree) FirstChild() *Tree             { return t.firstChild }
func (t *Tree) NextSibling() *Tree            { return t.nextSibling }
func (t *Tree) PreviousSibling() *Tree        { return t.prevSibling }

// Text returns the characters the tree covers.
func (t *Tree) Text() (string, error) {
	return t.reference.Text()
}

// Root walks up to the top of the hierarchy.
func (t *Tree) Root() *Tree {
	r := t
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Children returns a snapshot of the immediate children in document order.
func (t *Tree) Children() []*Tree {
	var out []*Tree
	for c := t.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c)
	}
	return out
}

// Collect returns the subtree rooted at t in depth-first pre-order.
func Collect(t *Tree) []*Tree {
	out := []*Tree{t}
	for c := t.firstChild; c != nil; c = c.nextSibling {
		out = append(out, Collect(c)...)
	}
	return out
}

// Offer inserts child somewhere in the subtree of t, re-parenting existing
// descendants as needed. It reports whether the child was attached: a
// child whose interval exactly matches an occupied slot without a higher
// weight is quietly rejected. Overlapping intervals and wrong call sites
// are errors.
func (t *Tree) Offer(child *Tree) (bool, error) {
	if child.parent != nil {
		return false, errors.NewCompile("offered tree is already attached", child)
	}
	switch t.reference.Dominance(child.reference) {
	case interval.Exact:
		if child.weight <= t.weight {
			return false, nil
		}
		t.interpose(child)
		return true, nil
	case interval.Part:
		return t.place(child)
	case interval.Share:
		return false, errors.NewCompile("overlapping trees", child)
	default:
		return false, errors.NewCompilef(child,
			"tree %s offered outside %s", child.reference, t.reference)
	}
}

// interpose pushes child between t and t's current children: child adopts
// every current child of t and becomes t's only child.
func (t *Tree) interpose(child *Tree) {
	child.firstChild = t.firstChild
	for c := t.firstChild; c != nil; c = c.nextSibling {
		c.parent = child
	}
	child.parent = t
	child.nextSibling = nil
	child.prevSibling = nil
	t.firstChild = child
}

// place attaches child below t, where child is a strict PART of t. It
// either recurses into an existing child that can hold it, swallows the
// run of existing children the new child contains, or slots the child in
// between disjoint siblings.
func (t *Tree) place(child *Tree) (bool, error) {
	var contained []*Tree
	for c := t.firstChild; c != nil; c = c.nextSibling {
		switch c.reference.Dominance(child.reference) {
		case interval.Exact, interval.Part:
			if len(contained) > 0 {
				// A node cannot both contain one sibling and fit
				// inside another; the intervals are inconsistent.
				return false, errors.NewCompile("overlapping trees", child)
			}
			return c.Offer(child)
		case interval.Contain:
			contained = append(contained, c)
		case interval.Share:
			return false, errors.NewCompile("overlapping trees", child)
		case interval.None:
			// keep scanning
		}
	}

	if len(contained) > 0 {
		t.adopt(child, contained)
		return true, nil
	}

	t.insert(child)
	return true, nil
}

// adopt replaces the run of children swallowed by child with child itself
// and hangs the run under it.
func (t *Tree) adopt(child *Tree, contained []*Tree) {
	first := contained[0]
	last := contained[len(contained)-1]

	child.prevSibling = first.prevSibling
	child.nextSibling = last.nextSibling
	if first.prevSibling != nil {
		first.prevSibling.nextSibling = child
	} else {
		t.firstChild = child
	}
	if last.nextSibling != nil {
		last.nextSibling.prevSibling = child
	}

	first.prevSibling = nil
	last.nextSibling = nil
	child.firstChild = first
	for _, c := range contained {
		c.parent = child
	}
	child.parent = t
}

// insert links child among t's children in document order, tie-breaking
// equal positions by ascending weight.
func (t *Tree) insert(child *Tree) {
	var prev *Tree
	next := t.firstChild
	for next != nil {
		if child.reference.Position() < next.reference.Position() {
			break
		}
		if child.reference.Position() == next.reference.Position() &&
			child.weight < next.weight {
			break
		}
		prev = next
		next = next.nextSibling
	}

	child.prevSibling = prev
	child.nextSibling = next
	if prev != nil {
		prev.nextSibling = child
	} else {
		t.firstChild = child
	}
	if next != nil {
		next.prevSibling = child
	}
	child.parent = t
}

// Pop detaches t from its parent, lifting t's children into its place.
func (t *Tree) Pop() {
	parent := t.parent
	if parent == nil {
		return
	}
	children := t.Children()
	first, last := t.prevSibling, t.nextSibling

	for _, c := range children {
		c.parent = parent
	}

	var head, tail *Tree
	if len(children) > 0 {
		head = children[0]
		tail = children[len(children)-1]
	}

	if head == nil {
		// no children, just unlink
		if first != nil {
			first.nextSibling = last
		} else {
			parent.firstChild = last
		}
		if last != nil {
			last.prevSibling = first
		}
	} else {
		head.prevSibling = first
		tail.nextSibling = last
		if first != nil {
			first.nextSibling = head
		} else {
			parent.firstChild = head
		}
		if last != nil {
			last.prevSibling = tail
		}
	}

	t.parent = nil
	t.firstChild = nil
	t.nextSibling = nil
	t.prevSibling = nil
}

func (t *Tree) String() string {
	return fmt.Sprintf("%s %s", t.Kind(), t.reference)
}
