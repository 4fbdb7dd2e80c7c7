// internal/instruction/stack.go
package instruction

import (
	"jamplate/internal/memory"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

// Block executes its children in order. An error aborts the block and
// propagates.
type Block struct {
	src
	Children []Instruction
}

func NewBlock(t *tree.Tree, children ...Instruction) *Block {
	return &Block{src: src{t}, Children: children}
}

func (b *Block) Opcode() string { return "block" }

func (b *Block) Exec(env Environment, mem *memory.Memory) error {
	for _, child := range b.Children {
		if err := child.Exec(env, mem); err != nil {
			return err
		}
	}
	return nil
}

// Idle does nothing.
type Idle struct {
	src
}

func NewIdle(t *tree.Tree) *Idle { return &Idle{src{t}} }

func (i *Idle) Opcode() string { return "idle" }

func (i *Idle) Exec(Environment, *memory.Memory) error { return nil }

// PushConst pushes a constant value rebuilt from its literal form.
type PushConst struct {
	src
	Kind value.Kind
	Raw  string
}

func NewPushConst(t *tree.Tree, kind value.Kind, raw string) *PushConst {
	return &PushConst{src: src{t}, Kind: kind, Raw: raw}
}

// NewPushText pushes raw as a plain text constant.
func NewPushText(t *tree.Tree, raw string) *PushConst {
	return NewPushConst(t, value.KindText, raw)
}

func (p *PushConst) Opcode() string { return "const" }

func (p *PushConst) Exec(_ Environment, mem *memory.Memory) error {
	mem.Push(makeValue(p.Kind, p.Raw))
	return nil
}

// Pop discards the top of the stack.
type Pop struct {
	src
}

func NewPop(t *tree.Tree) *Pop { return &Pop{src{t}} }

func (p *Pop) Opcode() string { return "pop" }

func (p *Pop) Exec(_ Environment, mem *memory.Memory) error {
	mem.Pop()
	return nil
}

// Dup duplicates the top of the stack.
type Dup struct {
	src
}

func NewDup(t *tree.Tree) *Dup { return &Dup{src{t}} }

func (d *Dup) Opcode() string { return "dup" }

func (d *Dup) Exec(_ Environment, mem *memory.Memory) error {
	mem.Push(mem.Peek())
	return nil
}

// PushFrame opens a new frame.
type PushFrame struct {
	src
}

func NewPushFrame(t *tree.Tree) *PushFrame { return &PushFrame{src{t}} }

func (p *PushFrame) Opcode() string { return "push_frame" }

func (p *PushFrame) Exec(_ Environment, mem *memory.Memory) error {
	mem.PushFrame(p.tree)
	return nil
}

// DumpFrame closes the top frame discarding its contents.
type DumpFrame struct {
	src
}

func NewDumpFrame(t *tree.Tree) *DumpFrame { return &DumpFrame{src{t}} }

func (d *DumpFrame) Opcode() string { return "dump_frame" }

func (d *DumpFrame) Exec(_ Environment, mem *memory.Memory) error {
	mem.DumpFrame()
	return nil
}

// JoinFrame concatenates the top frame into a single text value and
// leaves it on the frame below.
type JoinFrame struct {
	src
}

func NewJoinFrame(t *tree.Tree) *JoinFrame { return &JoinFrame{src{t}} }

func (j *JoinFrame) Opcode() string { return "join_frame" }

func (j *JoinFrame) Exec(_ Environment, mem *memory.Memory) error {
	mem.Push(mem.JoinPop())
	return nil
}

// GlueFrame collects the top frame into a single value of the given kind
// and leaves it on the frame below.
type GlueFrame struct {
	src
	Kind value.Kind
}

func NewGlueFrame(t *tree.Tree, kind value.Kind) *GlueFrame {
	return &GlueFrame{src: src{t}, Kind: kind}
}

func (g *GlueFrame) Opcode() string { return "glue_frame" }

func (g *GlueFrame) Exec(_ Environment, mem *memory.Memory) error {
	mem.Push(mem.GluePop(g.Kind))
	return nil
}

// MakePair pops a value then a key and pushes the pair of them.
type MakePair struct {
	src
}

func NewMakePair(t *tree.Tree) *MakePair { return &MakePair{src{t}} }

func (p *MakePair) Opcode() string { return "pair" }

func (p *MakePair) Exec(_ Environment, mem *memory.Memory) error {
	val := mem.Pop()
	key := mem.Pop()
	mem.Push(value.PairOf(key, val))
	return nil
}
