// internal/parser/enclosure.go
package parser

import (
	"regexp"
	"sort"

	"jamplate/internal/document"
	"jamplate/internal/tree"
)

// Enclosure matches open/close anchor pairs with a depth counter that
// only tracks its own language: other enclosures do not affect the
// balance. Each closed pair emits a container tree plus an open anchor,
// a close anchor, and optionally a body tree covering the characters
// strictly between the anchors.
type Enclosure struct {
	Kind      string
	Open      *regexp.Regexp
	Close     *regexp.Regexp
	OpenKind  string
	CloseKind string
	BodyKind  string // empty: no body tree
	Weight    int
}

// NewEnclosure returns an enclosure parser with anchor and body kinds
// derived from kind.
func NewEnclosure(kind string, open, close *regexp.Regexp) *Enclosure {
	return &Enclosure{
		Kind:      kind,
		Open:      open,
		Close:     close,
		OpenKind:  kind + ":open",
		CloseKind: kind + ":close",
		BodyKind:  kind + ":body",
	}
}

// NewScope is an enclosure with the fixed anchor kinds "open" and
// "close".
func NewScope(kind string, open, close *regexp.Regexp) *Enclosure {
	return &Enclosure{
		Kind:      kind,
		Open:      open,
		Close:     close,
		OpenKind:  "open",
		CloseKind: "close",
		BodyKind:  kind + ":body",
	}
}

type anchor struct {
	start, end int
	closing    bool
}

func (e *Enclosure) Parse(t *tree.Tree) ([]*tree.Tree, error) {
	text, err := t.Text()
	if err != nil {
		return nil, err
	}
	base := t.Reference().Position()

	var anchors []anchor
	for _, loc := range e.Open.FindAllStringIndex(text, -1) {
		if loc[1] == loc[0] || !Free(t, base+loc[0], loc[1]-loc[0], e.OpenKind) {
			continue
		}
		anchors = append(anchors, anchor{base + loc[0], base + loc[1], false})
	}
	for _, loc := range e.Close.FindAllStringIndex(text, -1) {
		if loc[1] == loc[0] || !Free(t, base+loc[0], loc[1]-loc[0], e.CloseKind) {
			continue
		}
		anchors = append(anchors, anchor{base + loc[0], base + loc[1], true})
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].start < anchors[j].start })

	// a symmetric language ("..." with open == close) alternates anchors
	symmetric := e.Open.String() == e.Close.String()

	var out []*tree.Tree
	var stack []anchor
	seen := map[int]bool{}
	for _, a := range anchors {
		if seen[a.start] {
			continue
		}
		seen[a.start] = true
		closing := a.closing
		if symmetric {
			closing = len(stack) > 0
		}
		if !closing {
			stack = append(stack, a)
			continue
		}
		if len(stack) == 0 {
			continue
		}
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, e.emit(t, open, a)...)
	}
	return out, nil
}

func (e *Enclosure) emit(t *tree.Tree, open, close anchor) []*tree.Tree {
	doc := t.Document()

	containerRef := document.NewReference(doc, open.start, close.end-open.start)
	container := tree.New(containerRef, e.Kind, WeightOver(t, containerRef, e.Weight))
	openTree := tree.New(
		document.NewReference(doc, open.start, open.end-open.start),
		e.OpenKind, e.Weight)
	closeTree := tree.New(
		document.NewReference(doc, close.start, close.end-close.start),
		e.CloseKind, e.Weight)

	container.Sketch().Set("open", openTree.Sketch())
	container.Sketch().Set("close", closeTree.Sketch())

	out := []*tree.Tree{container, openTree, closeTree}
	if e.BodyKind != "" {
		body := tree.New(
			document.NewReference(doc, open.end, close.start-open.end),
			e.BodyKind, e.Weight)
		container.Sketch().Set("body", body.Sketch())
		out = append(out, body)
	}
	return out
}
