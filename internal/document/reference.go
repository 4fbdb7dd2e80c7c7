// internal/document/reference.go
package document

import (
	"fmt"

	"jamplate/internal/interval"
)

// Reference is an immutable half-open interval [Position, Position+Length)
// within a document.
type Reference struct {
	doc      Document
	position int
	length   int
}

// NewReference returns a reference over doc. Position and length must be
// non-negative.
func NewReference(doc Document, position, length int) Reference {
	if position < 0 {
		panic(fmt.Sprintf("document: negative reference position %d", position))
	}
	if length < 0 {
		panic(fmt.Sprintf("document: negative reference length %d", length))
	}
	return Reference{doc: doc, position: position, length: length}
}

// Whole returns a reference covering the entire document.
func Whole(doc Document) (Reference, error) {
	length, err := doc.Length()
	if err != nil {
		return Reference{}, err
	}
	return NewReference(doc, 0, length), nil
}

func (r Reference) Document() Document { return r.doc }
func (r Reference) Position() int      { return r.position }
func (r Reference) Length() int        { return r.length }

// End returns the exclusive upper bound of the interval.
func (r Reference) End() int { return r.position + r.length }

// Sub returns the reference for [r.Position+offset, r.Position+offset+length)
// within the same document.
func (r Reference) Sub(offset, length int) Reference {
	if offset < 0 || length < 0 || offset+length > r.length {
		panic(fmt.Sprintf("document: sub-reference [%d,%d) outside [0,%d)",
			offset, offset+length, r.length))
	}
	return NewReference(r.doc, r.position+offset, length)
}

// Text returns the characters the reference covers.
func (r Reference) Text() (string, error) {
	content, err := r.doc.Content()
	if err != nil {
		return "", err
	}
	return content[r.position:r.End()], nil
}

// Relation classifies o relative to r.
func (r Reference) Relation(o Reference) interval.Relation {
	return interval.Compute(r.position, r.End(), o.position, o.End())
}

// Dominance classifies o relative to r on the coarse lattice.
func (r Reference) Dominance(o Reference) interval.Dominance {
	return r.Relation(o).Dominance()
}

func (r Reference) String() string {
	name := "<nil>"
	if r.doc != nil {
		name = r.doc.Name()
	}
	return fmt.Sprintf("%s[%d,%d)", name, r.position, r.End())
}
