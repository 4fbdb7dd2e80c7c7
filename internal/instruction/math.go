// internal/instruction/math.go
package instruction

import (
	"math"

	"jamplate/internal/errors"
	"jamplate/internal/memory"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

// Sum pops the right then the left operand. When both parse as numbers it
// pushes their numeric sum, otherwise the text concatenation of the two.
type Sum struct {
	src
}

func NewSum(t *tree.Tree) *Sum { return &Sum{src{t}} }

func (s *Sum) Opcode() string { return "sum" }

func (s *Sum) Exec(_ Environment, mem *memory.Memory) error {
	right := mem.Pop().Evaluate(mem)
	left := mem.Pop().Evaluate(mem)
	ln, lok := value.ParseNumber(left)
	rn, rok := value.ParseNumber(right)
	if lok && rok {
		mem.Push(value.NumberOf(ln + rn))
	} else {
		mem.Push(value.TextOf(left + right))
	}
	return nil
}

// numeric pops the right then the left operand and requires both to be
// numbers.
func (s src) numeric(mem *memory.Memory, op string) (float64, float64, error) {
	right := mem.Pop().Evaluate(mem)
	left := mem.Pop().Evaluate(mem)
	ln, lok := value.ParseNumber(left)
	rn, rok := value.ParseNumber(right)
	if !lok {
		return 0, 0, errors.NewExecutionf(s.tree, "%s of a non-number %q", op, left)
	}
	if !rok {
		return 0, 0, errors.NewExecutionf(s.tree, "%s of a non-number %q", op, right)
	}
	return ln, rn, nil
}

// Difference subtracts numbers.
type Difference struct {
	src
}

func NewDifference(t *tree.Tree) *Difference { return &Difference{src{t}} }

func (d *Difference) Opcode() string { return "difference" }

func (d *Difference) Exec(_ Environment, mem *memory.Memory) error {
	l, r, err := d.numeric(mem, "difference")
	if err != nil {
		return err
	}
	mem.Push(value.NumberOf(l - r))
	return nil
}

// Product multiplies numbers.
type Product struct {
	src
}

func NewProduct(t *tree.Tree) *Product { return &Product{src{t}} }

func (p *Product) Opcode() string { return "product" }

func (p *Product) Exec(_ Environment, mem *memory.Memory) error {
	l, r, err := p.numeric(mem, "product")
	if err != nil {
		return err
	}
	mem.Push(value.NumberOf(l * r))
	return nil
}

// Quotient divides numbers.
type Quotient struct {
	src
}

func NewQuotient(t *tree.Tree) *Quotient { return &Quotient{src{t}} }

func (q *Quotient) Opcode() string { return "quotient" }

func (q *Quotient) Exec(_ Environment, mem *memory.Memory) error {
	l, r, err := q.numeric(mem, "quotient")
	if err != nil {
		return err
	}
	if r == 0 {
		return errors.NewExecution("division by zero", q.tree)
	}
	mem.Push(value.NumberOf(l / r))
	return nil
}

// Remainder takes the floating remainder of numbers.
type Remainder struct {
	src
}

func NewRemainder(t *tree.Tree) *Remainder { return &Remainder{src{t}} }

func (r *Remainder) Opcode() string { return "remainder" }

func (r *Remainder) Exec(_ Environment, mem *memory.Memory) error {
	l, rr, err := r.numeric(mem, "remainder")
	if err != nil {
		return err
	}
	if rr == 0 {
		return errors.NewExecution("remainder by zero", r.tree)
	}
	mem.Push(value.NumberOf(math.Mod(l, rr)))
	return nil
}

// Negate pops a value and pushes its logical negation: "1" for a falsy
// value, "0" otherwise.
type Negate struct {
	src
}

func NewNegate(t *tree.Tree) *Negate { return &Negate{src{t}} }

func (n *Negate) Opcode() string { return "negate" }

func (n *Negate) Exec(_ Environment, mem *memory.Memory) error {
	if Falsy(mem.Pop().Evaluate(mem)) {
		mem.Push(value.TextOf("1"))
	} else {
		mem.Push(value.TextOf("0"))
	}
	return nil
}

// Truth pops a value and pushes its truthiness: "0" for a falsy value,
// "1" otherwise.
type Truth struct {
	src
}

func NewTruth(t *tree.Tree) *Truth { return &Truth{src{t}} }

func (tr *Truth) Opcode() string { return "truth" }

func (tr *Truth) Exec(_ Environment, mem *memory.Memory) error {
	if Falsy(mem.Pop().Evaluate(mem)) {
		mem.Push(value.TextOf("0"))
	} else {
		mem.Push(value.TextOf("1"))
	}
	return nil
}
