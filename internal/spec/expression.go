// internal/spec/expression.go
package spec

import (
	"regexp"

	"jamplate/internal/analyzer"
	"jamplate/internal/compiler"
	"jamplate/internal/document"
	"jamplate/internal/engine"
	"jamplate/internal/errors"
	"jamplate/internal/instruction"
	"jamplate/internal/interval"
	"jamplate/internal/parser"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

var (
	reNumber    = regexp.MustCompile(`\d+(\.\d+)?`)
	reReference = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

	rePlus    = regexp.MustCompile(`\+`)
	reMinus   = regexp.MustCompile(`-`)
	reStar    = regexp.MustCompile(`\*`)
	reSlash   = regexp.MustCompile(`/`)
	rePercent = regexp.MustCompile(`%`)
	reColon   = regexp.MustCompile(`:`)
	reComma   = regexp.MustCompile(`,`)
)

// gate is the context predicate deciding where expression tokens parse:
// the template dialect confines them to expression ground, the arithmetic
// dialect opens the whole document.
type gate func(*tree.Tree) bool

// compileChildren compiles every child of t through the pipeline and
// blocks the results; the character gaps (whitespace between expression
// tokens) are dropped.
func compileChildren(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
	var instrs []instruction.Instruction
	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		instr, err := self.Compile(self, c)
		if err != nil {
			return nil, err
		}
		if instr != nil {
			instrs = append(instrs, instr)
		}
	}
	return instruction.NewBlock(t, instrs...), nil
}

// exprBody compiles an expression container's children.
func exprBody() compiler.Compiler {
	return compiler.Func(compileChildren)
}

// numberSpec pushes numeric literals.
func numberSpec(g gate) engine.Spec {
	return engine.Spec{
		Name:   "value:number",
		Parser: parser.Hierarchy(parser.Gated(g, parser.NewPattern(KindNumber, reNumber)), opaque),
		Compiler: compiler.Kind(KindNumber, compiler.Func(
			func(_ compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				text, err := t.Text()
				if err != nil {
					return nil, errors.NewIO("reading number literal", err)
				}
				return instruction.NewPushConst(t, value.KindNumber, text), nil
			})),
	}
}

// referenceSpec resolves bare words through the heap at run time.
func referenceSpec(g gate) engine.Spec {
	return engine.Spec{
		Name:   "reference",
		Parser: parser.Hierarchy(parser.Gated(g, parser.NewPattern(KindReference, reReference)), opaque),
		Compiler: compiler.Kind(KindReference, compiler.Func(
			func(_ compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				text, err := t.Text()
				if err != nil {
					return nil, errors.NewIO("reading reference", err)
				}
				return instruction.NewAccess(t, text), nil
			})),
	}
}

// binaryOperand compiles a named operand component of an operator tree.
func binaryOperand(self compiler.Compiler, t *tree.Tree, name string) (instruction.Instruction, error) {
	component := t.Sketch().Get(name)
	if component == nil || component.Tree() == nil {
		return nil, errors.NewCompilef(t, "Operator %s is missing some components", t.Kind())
	}
	instr, err := compiler.Mandatory(self).Compile(self, component.Tree())
	if err != nil {
		return nil, err
	}
	return instr, nil
}

// binarySpec wires one binary operator: the sign pattern, the wrapping
// analyzer and the compiler emitting op after the two operands.
func binarySpec(name string, g gate, signKind string, signRe *regexp.Regexp,
	opKind string, op func(t *tree.Tree) instruction.Instruction) engine.Spec {
	return engine.Spec{
		Name:     name,
		Parser:   parser.Hierarchy(parser.Gated(g, parser.NewPattern(signKind, signRe)), opaque),
		Analyzer: analyzer.Hierarchy(analyzer.BinaryOperator(analyzer.Is(signKind), opKind)),
		Compiler: compiler.Kind(opKind, compiler.Func(
			func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				left, err := binaryOperand(self, t, "left")
				if err != nil {
					return nil, err
				}
				right, err := binaryOperand(self, t, "right")
				if err != nil {
					return nil, err
				}
				return instruction.NewBlock(t, left, right, op(t)), nil
			})),
	}
}

// minusSpec wraps a minus sign with no left neighbor as a negation.
func minusSpec() engine.Spec {
	return engine.Spec{
		Name:     "operator:minus",
		Analyzer: analyzer.Hierarchy(unaryMinus()),
		Compiler: compiler.Kind(KindOpMinus, compiler.Func(
			func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				right, err := binaryOperand(self, t, "right")
				if err != nil {
					return nil, err
				}
				return instruction.NewBlock(t,
					instruction.NewPushConst(t, value.KindNumber, "0"),
					right,
					instruction.NewDifference(t),
				), nil
			})),
	}
}

// unaryMinus wraps a sign:minus that has a right neighbor but no left
// neighbor together with that neighbor.
func unaryMinus() analyzer.Analyzer {
	return analyzer.Func(func(t *tree.Tree) (bool, error) {
		if t.Kind() != KindSignMinus {
			return false, nil
		}
		parent := t.Parent()
		if parent == nil {
			return false, nil
		}
		if parent.Kind() == KindOpMinus && parent.Sketch().Get("sign") == t.Sketch() {
			return false, nil
		}
		if t.PreviousSibling() != nil || t.NextSibling() == nil {
			return false, nil
		}
		right := t.NextSibling()
		return wrapPair(parent, t, right, KindOpMinus)
	})
}

// wrapPair wraps sign and right into an operator container offered to
// parent.
func wrapPair(parent, sign, right *tree.Tree, kind string) (bool, error) {
	start := sign.Reference().Position()
	end := right.Reference().End()
	ref := document.NewReference(sign.Document(), start, end-start)

	weight := sign.Weight()
	if parent.Reference().Dominance(ref) == interval.Exact {
		weight = parent.Weight() + 1
	}
	wrapper := tree.New(ref, kind, weight)
	wrapper.Sketch().Set("sign", sign.Sketch())
	wrapper.Sketch().Set("right", right.Sketch())
	return parent.Offer(wrapper)
}
