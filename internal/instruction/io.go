// internal/instruction/io.go
package instruction

import (
	"jamplate/internal/memory"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

// Print pops the top of the stack and prints its text to the console.
type Print struct {
	src
}

func NewPrint(t *tree.Tree) *Print { return &Print{src{t}} }

func (p *Print) Opcode() string { return "print" }

func (p *Print) Exec(_ Environment, mem *memory.Memory) error {
	mem.Print(mem.Pop().Evaluate(mem))
	return nil
}

// PrintConst prints a constant to the console.
type PrintConst struct {
	src
	Kind value.Kind
	Raw  string
}

func NewPrintConst(t *tree.Tree, kind value.Kind, raw string) *PrintConst {
	return &PrintConst{src: src{t}, Kind: kind, Raw: raw}
}

func (p *PrintConst) Opcode() string { return "print_const" }

func (p *PrintConst) Exec(_ Environment, mem *memory.Memory) error {
	mem.Print(makeValue(p.Kind, p.Raw).Evaluate(mem))
	return nil
}

// Console executes its body in a fresh frame, joins the frame into one
// text, and prints it.
type Console struct {
	src
	Body Instruction
}

func NewConsole(t *tree.Tree, body Instruction) *Console {
	return &Console{src: src{t}, Body: body}
}

func (c *Console) Opcode() string { return "console" }

func (c *Console) Exec(env Environment, mem *memory.Memory) error {
	mem.PushFrame(c.tree)
	if err := c.Body.Exec(env, mem); err != nil {
		mem.DumpFrame()
		return err
	}
	mem.Print(mem.JoinPop().Evaluate(mem))
	return nil
}
