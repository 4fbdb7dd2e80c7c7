// internal/compiler/compiler.go
package compiler

import (
	"jamplate/internal/document"
	"jamplate/internal/errors"
	"jamplate/internal/instruction"
	"jamplate/internal/tree"
)

// Compiler lowers an enriched tree into an instruction. A compiler that
// does not recognize the tree returns a nil instruction and no error; the
// self argument is the whole compiler pipeline, for recursing into
// sub-trees.
type Compiler interface {
	Compile(self Compiler, t *tree.Tree) (instruction.Instruction, error)
}

// Func adapts a function to the Compiler interface.
type Func func(self Compiler, t *tree.Tree) (instruction.Instruction, error)

func (f Func) Compile(self Compiler, t *tree.Tree) (instruction.Instruction, error) {
	return f(self, t)
}

// Kind compiles with inner only when the tree has exactly the given kind.
func Kind(kind string, inner Compiler) Compiler {
	return Func(func(self Compiler, t *tree.Tree) (instruction.Instruction, error) {
		if t.Kind() != kind {
			return nil, nil
		}
		return inner.Compile(self, t)
	})
}

// Fallback tries compilers in order and returns the first recognition.
func Fallback(compilers ...Compiler) Compiler {
	return Func(func(self Compiler, t *tree.Tree) (instruction.Instruction, error) {
		for _, c := range compilers {
			instr, err := c.Compile(self, t)
			if err != nil {
				return nil, err
			}
			if instr != nil {
				return instr, nil
			}
		}
		return nil, nil
	})
}

// FirstMatch compiles every child of the tree with the first compiler
// recognizing it and blocks the results together. Children nothing
// recognizes are skipped.
func FirstMatch(compilers ...Compiler) Compiler {
	inner := Fallback(compilers...)
	return Func(func(self Compiler, t *tree.Tree) (instruction.Instruction, error) {
		var children []instruction.Instruction
		for c := t.FirstChild(); c != nil; c = c.NextSibling() {
			instr, err := inner.Compile(self, c)
			if err != nil {
				return nil, err
			}
			if instr != nil {
				children = append(children, instr)
			}
		}
		return instruction.NewBlock(t, children...), nil
	})
}

// Mandatory wraps a compiler that must recognize its input.
func Mandatory(inner Compiler) Compiler {
	return Func(func(self Compiler, t *tree.Tree) (instruction.Instruction, error) {
		instr, err := inner.Compile(self, t)
		if err != nil {
			return nil, err
		}
		if instr == nil {
			return nil, errors.NewCompilef(t, "unrecognized tree %s", t.Kind())
		}
		return instr, nil
	})
}

// ToIdle compiles any tree to an idle instruction.
func ToIdle() Compiler {
	return Func(func(_ Compiler, t *tree.Tree) (instruction.Instruction, error) {
		return instruction.NewIdle(t), nil
	})
}

// ToPushConst compiles any tree to a push of its raw text.
func ToPushConst() Compiler {
	return Func(func(_ Compiler, t *tree.Tree) (instruction.Instruction, error) {
		text, err := t.Text()
		if err != nil {
			return nil, errors.NewIO("reading tree text", err)
		}
		return instruction.NewPushText(t, text), nil
	})
}

// Empty recognizes nothing.
func Empty() Compiler {
	return Func(func(Compiler, *tree.Tree) (instruction.Instruction, error) {
		return nil, nil
	})
}

// Flatten lowers a tree to a block covering its whole span in document
// order: every child compiles through outer (falling back to self), and
// the character gaps between children compile through leaf. The gaps are
// presented to leaf as synthetic trees of kind "text".
func Flatten(leaf Compiler, outer Compiler) Compiler {
	return Func(func(self Compiler, t *tree.Tree) (instruction.Instruction, error) {
		block, err := FlattenRange(self, leaf, outer, t, t.Children(),
			t.Reference().Position(), t.Reference().End())
		if err != nil {
			return nil, err
		}
		return block, nil
	})
}

// FlattenRange builds the flattened block for the children falling in
// [from, to) of parent's document, with leaf gaps. It is the work-horse
// behind Flatten and the segmented command compilers.
func FlattenRange(self Compiler, leaf, outer Compiler, parent *tree.Tree,
	children []*tree.Tree, from, to int) (*instruction.Block, error) {

	var instrs []instruction.Instruction
	cursor := from
	emitGap := func(until int) error {
		if until <= cursor {
			return nil
		}
		gap := tree.New(
			document.NewReference(parent.Document(), cursor, until-cursor),
			"text", parent.Weight())
		instr, err := leaf.Compile(self, gap)
		if err != nil {
			return err
		}
		if instr != nil {
			instrs = append(instrs, instr)
		}
		return nil
	}

	for _, c := range children {
		ref := c.Reference()
		if ref.End() <= from || ref.Position() >= to {
			continue
		}
		if err := emitGap(ref.Position()); err != nil {
			return nil, err
		}
		compiler := outer
		if compiler == nil {
			compiler = self
		}
		instr, err := compiler.Compile(self, c)
		if err != nil {
			return nil, err
		}
		if instr != nil {
			instrs = append(instrs, instr)
		}
		cursor = ref.End()
	}
	if err := emitGap(to); err != nil {
		return nil, err
	}
	return instruction.NewBlock(parent, instrs...), nil
}
