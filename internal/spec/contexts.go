// internal/spec/contexts.go
package spec

import (
	"jamplate/internal/compiler"
	"jamplate/internal/errors"
	"jamplate/internal/instruction"
	"jamplate/internal/tree"
)

// condition lowers a branch marker into its condition instruction.
func condition(self compiler.Compiler, marker *tree.Tree) (instruction.Instruction, error) {
	switch marker.Kind() {
	case "command:if", "command:elif":
		return commandParameter(self, marker)
	case "command:ifdef", "command:elifdef":
		key, err := commandKey(marker)
		if err != nil {
			return nil, err
		}
		return instruction.NewIsDefined(marker, key), nil
	case "command:ifndef", "command:elifndef":
		key, err := commandKey(marker)
		if err != nil {
			return nil, err
		}
		return instruction.NewNotDefined(marker, key), nil
	}
	return nil, errors.NewCompilef(marker, "unexpected branch marker %s", marker.Kind())
}

// ifContextCompiler collapses a context:if into nested branches, built
// right to left: the innermost else is the else body or an idle.
func ifContextCompiler() compiler.Compiler {
	return compiler.Kind(KindContextIf, compiler.Func(
		func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
			children := t.Children()
			if len(children) < 2 {
				return nil, errors.NewCompile("Unclosed if context", t)
			}

			type segment struct {
				marker *tree.Tree
				body   instruction.Instruction
			}
			var conds []segment
			var elseBody instruction.Instruction
			sawElse := false

			// walk the markers at this level; bodies are everything in
			// between, literal gaps included
			markers := []int{}
			for i, c := range children {
				switch c.Kind() {
				case "command:if", "command:ifdef", "command:ifndef":
					if i == 0 {
						markers = append(markers, i)
					}
				case "command:elif", "command:elifdef", "command:elifndef",
					"command:else", "command:endif":
					markers = append(markers, i)
				}
			}
			last := children[len(children)-1]
			if last.Kind() != "command:endif" {
				return nil, errors.NewCompile("Unclosed if context", t)
			}

			for n, idx := range markers {
				marker := children[idx]
				if marker.Kind() == "command:endif" {
					break
				}
				to := t.Reference().End()
				var until []*tree.Tree
				if n+1 < len(markers) {
					next := children[markers[n+1]]
					to = next.Reference().Position()
					until = children[idx+1 : markers[n+1]]
				}
				body, err := compiler.FlattenRange(self, compiler.ToPushConst(), nil,
					t, until, marker.Reference().End(), to)
				if err != nil {
					return nil, err
				}

				switch marker.Kind() {
				case "command:else":
					if sawElse {
						return nil, errors.NewCompile("Double Else commands", marker)
					}
					sawElse = true
					elseBody = body
				default:
					if sawElse {
						return nil, errors.NewCompile("Elif command after Else command", marker)
					}
					conds = append(conds, segment{marker: marker, body: body})
				}
			}

			acc := elseBody
			if acc == nil {
				acc = instruction.NewIdle(t)
			}
			for i := len(conds) - 1; i >= 0; i-- {
				cond, err := condition(self, conds[i].marker)
				if err != nil {
					return nil, err
				}
				acc = instruction.NewBranch(conds[i].marker, cond, conds[i].body, acc)
			}
			return acc, nil
		}))
}

// forContextCompiler lowers a context:for into an iterate instruction.
func forContextCompiler() compiler.Compiler {
	return compiler.Kind(KindContextFor, compiler.Func(
		func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
			children := t.Children()
			if len(children) < 2 || children[len(children)-1].Kind() != "command:endfor" {
				return nil, errors.NewCompile("Unclosed for context", t)
			}
			opener := children[0]
			closer := children[len(children)-1]

			key, err := commandKey(opener)
			if err != nil {
				return nil, err
			}
			iterable, err := commandParameter(self, opener)
			if err != nil {
				return nil, err
			}
			body, err := compiler.FlattenRange(self, compiler.ToPushConst(), nil,
				t, children[1:len(children)-1],
				opener.Reference().End(), closer.Reference().Position())
			if err != nil {
				return nil, err
			}
			return instruction.NewIterate(t, key, iterable, body), nil
		}))
}

// captureContextCompiler lowers a context:capture into a define whose
// body is the captured range.
func captureContextCompiler() compiler.Compiler {
	return compiler.Kind(KindContextCapture, compiler.Func(
		func(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
			children := t.Children()
			if len(children) < 2 || children[len(children)-1].Kind() != "command:endcapture" {
				return nil, errors.NewCompile("Unclosed capture context", t)
			}
			opener := children[0]
			closer := children[len(children)-1]

			key, err := commandKey(opener)
			if err != nil {
				return nil, err
			}
			body, err := compiler.FlattenRange(self, compiler.ToPushConst(), nil,
				t, children[1:len(children)-1],
				opener.Reference().End(), closer.Reference().Position())
			if err != nil {
				return nil, err
			}
			return instruction.NewDefine(t, key, body), nil
		}))
}
