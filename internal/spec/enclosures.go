// internal/spec/enclosures.go
package spec

import (
	"regexp"

	"jamplate/internal/compiler"
	"jamplate/internal/engine"
	"jamplate/internal/errors"
	"jamplate/internal/instruction"
	"jamplate/internal/parser"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

var (
	reDoubleQuote = regexp.MustCompile(`"`)
	reSingleQuote = regexp.MustCompile(`'`)
	reOpenParen   = regexp.MustCompile(`\(`)
	reCloseParen  = regexp.MustCompile(`\)`)
	reOpenBrack   = regexp.MustCompile(`\[`)
	reCloseBrack  = regexp.MustCompile(`\]`)
	reOpenBrace   = regexp.MustCompile(`\{`)
	reCloseBrace  = regexp.MustCompile(`\}`)
)

// bodyOf returns the body component tree of an enclosure.
func bodyOf(t *tree.Tree) *tree.Tree {
	body := t.Sketch().Get("body")
	if body == nil {
		return nil
	}
	return body.Tree()
}

// compileInterior compiles everything between the anchors of an
// enclosure. Normally that is the attached body tree; when the body was
// displaced by a tree covering the same span (a nested enclosure filling
// the whole interior), the displacing child compiles in its place.
func compileInterior(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
	open := t.Sketch().Get("open")
	close := t.Sketch().Get("close")
	var instrs []instruction.Instruction
	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		if open != nil && c.Sketch() == open {
			continue
		}
		if close != nil && c.Sketch() == close {
			continue
		}
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

// quoteSpec parses a quote enclosure whose body is opaque and compiles it
// to a push of the raw body text.
func quoteSpec(name, kind string, g gate, re *regexp.Regexp) engine.Spec {
	return engine.Spec{
		Name:   name,
		Parser: parser.Hierarchy(parser.Gated(g, parser.NewEnclosure(kind, re, re)), opaque),
		Compiler: compiler.Kind(kind, compiler.Func(
			func(_ compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				body := bodyOf(t)
				if body == nil {
					return instruction.NewPushText(t, ""), nil
				}
				text, err := body.Text()
				if err != nil {
					return nil, errors.NewIO("reading quote body", err)
				}
				return instruction.NewPushText(t, text), nil
			})),
	}
}

// groupSpec parses parentheses and compiles them transparently: the body
// expression is the result.
func groupSpec(g gate) engine.Spec {
	return engine.Spec{
		Name:   "group",
		Parser: parser.Hierarchy(parser.Gated(g, parser.NewEnclosure(KindGroup, reOpenParen, reCloseParen)), opaque),
		Compiler: compiler.Fallback(
			compiler.Kind(KindGroup, compiler.Func(compileInterior)),
			compiler.Kind(KindGroupBody, exprBody()),
		),
	}
}

// bracketsSpec parses square brackets anywhere outside opaque ground. In
// expression ground a bracket pair is an array literal; in template text
// it is an injection printing the evaluated body.
func bracketsSpec(g gate) engine.Spec {
	return engine.Spec{
		Name:   "brackets",
		Parser: parser.Hierarchy(parser.Gated(g, parser.NewEnclosure(KindBrackets, reOpenBrack, reCloseBrack)), opaque),
		Compiler: compiler.Fallback(
			compiler.Kind(KindBrackets, compiler.Func(
				func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
					bodyInstr, err := compileInterior(self, t)
					if err != nil {
						return nil, err
					}
					if inExpression(t) {
						return instruction.NewBlock(t,
							instruction.NewPushFrame(t),
							bodyInstr,
							instruction.NewGlueFrame(t, value.KindArray),
						), nil
					}
					return instruction.NewBlock(t,
						instruction.NewPushFrame(t),
						bodyInstr,
						instruction.NewJoinFrame(t),
					), nil
				})),
			compiler.Kind(KindBracketsBody, exprBody()),
		),
	}
}

// bracesSpec parses curly braces as object literals.
func bracesSpec(g gate) engine.Spec {
	return engine.Spec{
		Name:   "braces",
		Parser: parser.Hierarchy(parser.Gated(g, parser.NewEnclosure(KindObject, reOpenBrace, reCloseBrace)), opaque),
		Compiler: compiler.Fallback(
			compiler.Kind(KindObject, compiler.Func(
				func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
					bodyInstr, err := compileInterior(self, t)
					if err != nil {
						return nil, err
					}
					return instruction.NewBlock(t,
						instruction.NewPushFrame(t),
						bodyInstr,
						instruction.NewGlueFrame(t, value.KindObject),
					), nil
				})),
			compiler.Kind(KindObjectBody, exprBody()),
		),
	}
}
