// internal/instruction/instruction.go
package instruction

import (
	"strings"

	"jamplate/internal/memory"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

// Environment is the slice of the compilation environment the machine
// needs at run time: resolving a document name to its compiled
// instruction. The engine environment satisfies it.
type Environment interface {
	Instruction(documentName string) (Instruction, bool)
}

// Instruction is one opcode of the stack machine. Instructions form a
// tree: Block holds children, everything else is a leaf. Exec runs the
// instruction against the given memory.
type Instruction interface {
	Exec(env Environment, mem *memory.Memory) error
	// Tree returns the source tree the instruction was compiled from,
	// for diagnostics. May be nil.
	Tree() *tree.Tree
	// Opcode returns the stable name of the instruction, used by the
	// snapshot store.
	Opcode() string
}

// src carries the optional source tree every instruction embeds.
type src struct {
	tree *tree.Tree
}

func (s src) Tree() *tree.Tree { return s.tree }

// Falsy reports whether text belongs to the false set of the machine.
func Falsy(text string) bool {
	switch strings.TrimSpace(text) {
	case "", "0", "false", "null":
		return true
	}
	return false
}

// makeValue rebuilds a constant value from its tagged literal form.
func makeValue(kind value.Kind, raw string) value.Value {
	switch kind {
	case value.KindNumber:
		if n, ok := value.ParseNumber(raw); ok {
			return value.NumberOf(n)
		}
		return value.TextOf(raw)
	case value.KindText:
		return value.TextOf(raw)
	default:
		return value.Cast(raw)
	}
}
