// internal/instruction/flow.go
package instruction

import (
	"strings"

	"jamplate/internal/errors"
	"jamplate/internal/memory"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

// Branch evaluates Cond in its own frame, joins the result, and executes
// Then when the text is truthy, Else otherwise. Else may be nil.
type Branch struct {
	src
	Cond Instruction
	Then Instruction
	Else Instruction
}

func NewBranch(t *tree.Tree, cond, then, els Instruction) *Branch {
	return &Branch{src: src{t}, Cond: cond, Then: then, Else: els}
}

func (b *Branch) Opcode() string { return "branch" }

func (b *Branch) Exec(env Environment, mem *memory.Memory) error {
	mem.PushFrame(b.tree)
	if err := b.Cond.Exec(env, mem); err != nil {
		mem.DumpFrame()
		return err
	}
	cond := mem.JoinPop().Evaluate(mem)
	if !Falsy(cond) {
		return b.Then.Exec(env, mem)
	}
	if b.Else != nil {
		return b.Else.Exec(env, mem)
	}
	return nil
}

// Group executes its children inside an own frame and merges the frame's
// values, in order, onto the frame below afterwards. When a child fails
// the frame is discarded.
type Group struct {
	src
	Children []Instruction
}

func NewGroup(t *tree.Tree, children ...Instruction) *Group {
	return &Group{src: src{t}, Children: children}
}

func (g *Group) Opcode() string { return "group" }

func (g *Group) Exec(env Environment, mem *memory.Memory) error {
	mem.PushFrame(g.tree)
	for _, child := range g.Children {
		if err := child.Exec(env, mem); err != nil {
			mem.DumpFrame()
			return err
		}
	}
	mem.PopFrame()
	return nil
}

// Iterate evaluates Iterable, which must yield an array, binds each
// element to Address, and executes Body once per element. The previous
// binding of Address is restored afterwards.
type Iterate struct {
	src
	Address  string
	Iterable Instruction
	Body     Instruction
}

func NewIterate(t *tree.Tree, address string, iterable, body Instruction) *Iterate {
	return &Iterate{src: src{t}, Address: address, Iterable: iterable, Body: body}
}

func (it *Iterate) Opcode() string { return "iterate" }

func (it *Iterate) Exec(env Environment, mem *memory.Memory) error {
	mem.PushFrame(it.tree)
	if err := it.Iterable.Exec(env, mem); err != nil {
		mem.DumpFrame()
		return err
	}
	iterable := mem.Pop()
	mem.DumpFrame()

	elements, ok := value.Elements(mem, iterable)
	if !ok {
		return errors.NewExecutionf(it.tree,
			"iterating a non-array %q", iterable.Evaluate(mem))
	}

	hadPrev := mem.Has(it.Address)
	prev := mem.Get(it.Address)
	for _, element := range elements {
		mem.Set(it.Address, element)
		if err := it.Body.Exec(env, mem); err != nil {
			return err
		}
	}
	if hadPrev {
		mem.Set(it.Address, prev)
	} else {
		mem.Free(it.Address)
	}
	return nil
}

// Import evaluates Name to a document name, executes that document's
// compiled instruction against a fork of the memory, and pushes the text
// the fork printed.
type Import struct {
	src
	Name Instruction
}

func NewImport(t *tree.Tree, name Instruction) *Import {
	return &Import{src: src{t}, Name: name}
}

func (im *Import) Opcode() string { return "import" }

func (im *Import) Exec(env Environment, mem *memory.Memory) error {
	mem.PushFrame(im.tree)
	if err := im.Name.Exec(env, mem); err != nil {
		mem.DumpFrame()
		return err
	}
	name := strings.TrimSpace(mem.JoinPop().Evaluate(mem))

	if env == nil {
		return errors.NewExecutionf(im.tree, "no environment to import %q from", name)
	}
	instr, ok := env.Instruction(name)
	if !ok {
		return errors.NewExecutionf(im.tree, "imported document %q is not compiled", name)
	}

	fork := mem.Fork()
	if err := instr.Exec(env, fork); err != nil {
		return err
	}
	mem.Push(value.TextOf(fork.Console()))
	return nil
}

// Fail joins its body and raises it as an execution error.
type Fail struct {
	src
	Body Instruction
}

func NewFail(t *tree.Tree, body Instruction) *Fail {
	return &Fail{src: src{t}, Body: body}
}

func (f *Fail) Opcode() string { return "fail" }

func (f *Fail) Exec(env Environment, mem *memory.Memory) error {
	mem.PushFrame(f.tree)
	if err := f.Body.Exec(env, mem); err != nil {
		mem.DumpFrame()
		return err
	}
	text := mem.JoinPop().Evaluate(mem)
	return errors.NewExecution(text, f.tree)
}
