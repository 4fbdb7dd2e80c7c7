// internal/parser/pattern.go
package parser

import (
	"regexp"

	"jamplate/internal/document"
	"jamplate/internal/tree"
)

// Pattern produces a single-node sub-tree for every non-overlapping match
// of a regular expression within the unclaimed regions of the visited
// tree's span.
type Pattern struct {
	Kind    string
	Regexp  *regexp.Regexp
	Weight  int
	// Build, when set, replaces the default tree constructor.
	Build func(ref document.Reference) *tree.Tree
}

// NewPattern returns a pattern parser emitting trees of the given kind.
func NewPattern(kind string, re *regexp.Regexp) *Pattern {
	return &Pattern{Kind: kind, Regexp: re}
}

func (p *Pattern) Parse(t *tree.Tree) ([]*tree.Tree, error) {
	text, err := t.Text()
	if err != nil {
		return nil, err
	}
	base := t.Reference().Position()

	var out []*tree.Tree
	for _, loc := range p.Regexp.FindAllStringIndex(text, -1) {
		position, length := base+loc[0], loc[1]-loc[0]
		if length == 0 {
			continue
		}
		if !Free(t, position, length, p.Kind) {
			continue
		}
		ref := document.NewReference(t.Document(), position, length)
		if p.Build != nil {
			out = append(out, p.Build(ref))
		} else {
			out = append(out, tree.New(ref, p.Kind, WeightOver(t, ref, p.Weight)))
		}
	}
	return out, nil
}
