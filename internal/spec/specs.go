// internal/spec/specs.go
package spec

import (
	"jamplate/internal/analyzer"
	"jamplate/internal/compiler"
	"jamplate/internal/engine"
	"jamplate/internal/errors"
	"jamplate/internal/instruction"
	"jamplate/internal/tree"
)

// commandCompiler lowers a simple command through fn.
func commandCompiler(kind string, fn func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error)) compiler.Compiler {
	return compiler.Kind(kind, compiler.Func(fn))
}

// structuralError compiles a command that may only appear inside a
// context to the corresponding error.
func structuralError(kind, message string) compiler.Compiler {
	return compiler.Kind(kind, compiler.Func(
		func(_ compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
			return nil, errors.NewCompile(message, t)
		}))
}

// commandsSpec bundles the command parser, the context analyzers, and
// every command and context compiler.
func commandsSpec() engine.Spec {
	return engine.Spec{
		Name:   "commands",
		Parser: commandParser(),
		Analyzer: analyzer.Sequence(
			analyzer.Hierarchy(contextAnalyzer(ifOpeners, "command:endif", KindContextIf)),
			analyzer.Hierarchy(contextAnalyzer(forOpeners, "command:endfor", KindContextFor)),
			analyzer.Hierarchy(contextAnalyzer(captureOpeners, "command:endcapture", KindContextCapture)),
		),
		Compiler: compiler.Fallback(
			ifContextCompiler(),
			forContextCompiler(),
			captureContextCompiler(),

			commandCompiler("command:define", func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				key, err := commandKey(t)
				if err != nil {
					return nil, err
				}
				body, err := commandParameter(self, t)
				if err != nil {
					return nil, err
				}
				return instruction.NewDefine(t, key, body), nil
			}),
			commandCompiler("command:declare", func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				key, err := commandKey(t)
				if err != nil {
					return nil, err
				}
				body, err := commandParameter(self, t)
				if err != nil {
					return nil, err
				}
				return instruction.NewDefine(t, key, body), nil
			}),
			commandCompiler("command:undef", func(_ compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				key, err := commandKey(t)
				if err != nil {
					return nil, err
				}
				return instruction.NewFree(t, key), nil
			}),
			commandCompiler("command:include", includeCommand),
			commandCompiler("command:import", includeCommand),
			commandCompiler("command:message", func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				body, err := commandParameter(self, t)
				if err != nil {
					return nil, err
				}
				return instruction.NewConsole(t, body), nil
			}),
			commandCompiler("command:error", func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				body, err := commandParameter(self, t)
				if err != nil {
					return nil, err
				}
				return instruction.NewFail(t, body), nil
			}),

			structuralError("command:if", "Unclosed if context"),
			structuralError("command:ifdef", "Unclosed if context"),
			structuralError("command:ifndef", "Unclosed if context"),
			structuralError("command:elif", "Elif command outside if context"),
			structuralError("command:elifdef", "Elif command outside if context"),
			structuralError("command:elifndef", "Elif command outside if context"),
			structuralError("command:else", "Else command outside if context"),
			structuralError("command:endif", "Endif command outside if context"),
			structuralError("command:for", "Unclosed for context"),
			structuralError("command:endfor", "Endfor command outside for context"),
			structuralError("command:capture", "Unclosed capture context"),
			structuralError("command:endcapture", "Endcapture command outside capture context"),

			compiler.Kind(KindParameter, exprBody()),
			compiler.Kind(KindRawParameter, compiler.Flatten(compiler.ToPushConst(), nil)),
		),
	}
}

// includeCommand imports another compiled document and leaves its output
// on the current frame.
func includeCommand(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
	body, err := commandParameter(self, t)
	if err != nil {
		return nil, err
	}
	return instruction.NewImport(t, body), nil
}

// documentSpec compiles the root: literal gaps print as they are, every
// claimed child compiles through the pipeline, and the whole result is
// joined onto the console.
func documentSpec() engine.Spec {
	return engine.Spec{
		Name: "document",
		Compiler: compiler.Kind(KindDocument, compiler.Func(
			func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				block, err := compiler.Flatten(compiler.ToPushConst(), nil).Compile(self, t)
				if err != nil {
					return nil, err
				}
				return instruction.NewConsole(t, block), nil
			})),
	}
}

// operatorSpecs wires the expression operators in precedence order:
// unary minus, multiplicative, additive, pair, comma. Precedence falls
// out of the analyzer ordering inside one pass.
func operatorSpecs(g gate) []engine.Spec {
	return []engine.Spec{
		minusSpec(),
		binarySpec("operator:product", g, KindSignStar, reStar, KindOpProduct,
			func(t *tree.Tree) instruction.Instruction { return instruction.NewProduct(t) }),
		binarySpec("operator:quotient", g, KindSignSlash, reSlash, KindOpQuotient,
			func(t *tree.Tree) instruction.Instruction { return instruction.NewQuotient(t) }),
		binarySpec("operator:remainder", g, KindSignPercent, rePercent, KindOpRemainder,
			func(t *tree.Tree) instruction.Instruction { return instruction.NewRemainder(t) }),
		binarySpec("operator:sum", g, KindSignPlus, rePlus, KindOpSum,
			func(t *tree.Tree) instruction.Instruction { return instruction.NewSum(t) }),
		binarySpec("operator:difference", g, KindSignMinus, reMinus, KindOpDifference,
			func(t *tree.Tree) instruction.Instruction { return instruction.NewDifference(t) }),
		binarySpec("operator:pair", g, KindSignColon, reColon, KindOpPair,
			func(t *tree.Tree) instruction.Instruction { return instruction.NewMakePair(t) }),
		commaSpec(g),
	}
}

// commaSpec separates expression items: both sides compile, nothing else
// is emitted.
func commaSpec(g gate) engine.Spec {
	s := binarySpec("operator:comma", g, KindSignComma, reComma, KindOpComma, nil)
	s.Compiler = compiler.Kind(KindOpComma, compiler.Func(
		func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
			left, err := binaryOperand(self, t, "left")
			if err != nil {
				return nil, err
			}
			right, err := binaryOperand(self, t, "right")
			if err != nil {
				return nil, err
			}
			return instruction.NewBlock(t, left, right), nil
		}))
	return s
}

// Default returns the registry of the template dialect: hash commands,
// injections, object and array literals, and expressions confined to
// expression ground.
func Default() *engine.Registry {
	specs := []engine.Spec{
		commandsSpec(),
		quoteSpec("quote:double", KindQuoteDouble, exprNode, reDoubleQuote),
		quoteSpec("quote:single", KindQuoteSingle, exprNode, reSingleQuote),
		bracketsSpec(anyNode),
		bracesSpec(anyNode),
		groupSpec(exprNode),
		referenceSpec(exprNode),
		numberSpec(exprNode),
	}
	specs = append(specs, operatorSpecs(exprNode)...)
	specs = append(specs, documentSpec())
	return engine.NewRegistry(specs...)
}

// Arithmetic returns the registry of the expression dialect: the whole
// document is one expression.
func Arithmetic() *engine.Registry {
	specs := []engine.Spec{
		quoteSpec("quote:double", KindQuoteDouble, anyNode, reDoubleQuote),
		quoteSpec("quote:single", KindQuoteSingle, anyNode, reSingleQuote),
		bracketsSpec(anyNode),
		bracesSpec(anyNode),
		groupSpec(anyNode),
		referenceSpec(anyNode),
		numberSpec(anyNode),
	}
	specs = append(specs, operatorSpecs(anyNode)...)
	specs = append(specs, arithmeticDocumentSpec())
	return engine.NewRegistry(specs...)
}

// arithmeticDocumentSpec joins the document as one expression; literal
// gaps (whitespace around tokens) are dropped.
func arithmeticDocumentSpec() engine.Spec {
	return engine.Spec{
		Name: "document",
		Compiler: compiler.Kind(KindDocument, compiler.Func(
			func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
				block, err := compileChildren(self, t)
				if err != nil {
					return nil, err
				}
				return instruction.NewConsole(t, block), nil
			})),
	}
}
