// internal/tree/sketch.go
package tree

// Sketch is the typed label attached to a tree node: a free-form dotted
// kind plus named sub-components pointing at the sketches of related
// nodes. The component list preserves insertion order and allows the same
// role to appear more than once.
type Sketch struct {
	kind       string
	tree       *Tree
	components []Component
}

// Component is one named sub-component entry of a sketch.
type Component struct {
	Name   string
	Sketch *Sketch
}

// NewSketch returns a detached sketch of the given kind.
func NewSketch(kind string) *Sketch {
	return &Sketch{kind: kind}
}

// Kind returns the kind tag of the sketch.
func (s *Sketch) Kind() string { return s.kind }

// SetKind replaces the kind tag.
func (s *Sketch) SetKind(kind string) { s.kind = kind }

// Tree returns the tree the sketch is attached to, or nil while detached.
func (s *Sketch) Tree() *Tree { return s.tree }

// Set records a named sub-component. Existing entries are kept; the new
// entry is appended.
func (s *Sketch) Set(name string, component *Sketch) {
	s.components = append(s.components, Component{Name: name, Sketch: component})
}

// Get returns the first sub-component recorded under name.
func (s *Sketch) Get(name string) *Sketch {
	for _, c := range s.components {
		if c.Name == name {
			return c.Sketch
		}
	}
	return nil
}

// Components returns the sub-component entries in insertion order.
func (s *Sketch) Components() []Component {
	out := make([]Component, len(s.components))
	copy(out, s.components)
	return out
}
