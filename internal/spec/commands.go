// internal/spec/commands.go
package spec

import (
	"regexp"
	"strings"

	"jamplate/internal/analyzer"
	"jamplate/internal/compiler"
	"jamplate/internal/document"
	"jamplate/internal/errors"
	"jamplate/internal/instruction"
	"jamplate/internal/interval"
	"jamplate/internal/parser"
	"jamplate/internal/tree"
)

// A command claims a whole source line, leading whitespace and the
// trailing newline included. The trailing newline belongs to the command
// and is suppressed from the output.
var reCommand = regexp.MustCompile(
	`(?mi)^[ \t]*#(define|declare|undef|ifdef|ifndef|if|elifdef|elifndef|elif|else|endif|for|endfor|capture|endcapture|include|import|message|error)\b[^\n]*\n?`)

// reKeyed splits the key and the remainder of a keyed command line.
var reKeyed = regexp.MustCompile(`(?i)^[ \t]*#[a-z]+[ \t]+([A-Za-z_][A-Za-z0-9_]*)[ \t]*`)

// rePlain finds the parameter remainder of a key-less command line.
var rePlain = regexp.MustCompile(`(?i)^[ \t]*#[a-z]+[ \t]*`)

// keyedCommands take a symbol name directly after the keyword.
var keyedCommands = map[string]bool{
	"define":   true,
	"declare":  true,
	"undef":    true,
	"ifdef":    true,
	"ifndef":   true,
	"elifdef":  true,
	"elifndef": true,
	"for":      true,
	"capture":  true,
}

// valuedCommands additionally carry a parameter after the key, or as the
// whole remainder when key-less.
var valuedCommands = map[string]bool{
	"define":  true,
	"declare": true,
	"if":      true,
	"elif":    true,
	"for":     true,
	"include": true,
	"import":  true,
	"message": true,
	"error":   true,
}

// rawValueCommands parse their value as literal text with injections
// instead of as an expression.
var rawValueCommands = map[string]bool{
	"define":  true,
	"message": true,
	"error":   true,
}

// commandParser claims command lines of the root document and hangs key
// and parameter sub-trees under each.
func commandParser() parser.Parser {
	return parser.Gated(analyzer.Is(KindDocument), parser.Func(
		func(t *tree.Tree) ([]*tree.Tree, error) {
			text, err := t.Text()
			if err != nil {
				return nil, err
			}
			base := t.Reference().Position()

			var out []*tree.Tree
			for _, loc := range reCommand.FindAllStringSubmatchIndex(text, -1) {
				position, length := base+loc[0], loc[1]-loc[0]
				keyword := strings.ToLower(text[loc[2]:loc[3]])
				if !parser.Free(t, position, length, KindCommandPrefix+keyword) {
					continue
				}
				line := text[loc[0]:loc[1]]

				cmd := tree.New(
					document.NewReference(t.Document(), position, length),
					KindCommandPrefix+keyword, 0)
				out = append(out, cmd)

				cursor := 0
				if keyedCommands[keyword] {
					if m := reKeyed.FindStringSubmatchIndex(line); m != nil {
						key := tree.New(
							document.NewReference(t.Document(), position+m[2], m[3]-m[2]),
							KindCommandKey, 0)
						cmd.Sketch().Set("key", key.Sketch())
						out = append(out, key)
						cursor = m[1]
					}
				} else if m := rePlain.FindStringIndex(line); m != nil {
					cursor = m[1]
				}

				if valuedCommands[keyword] {
					rest := strings.TrimRight(line[cursor:], "\r\n")
					rest = strings.TrimRight(rest, " \t")
					if rest != "" {
						kind := KindParameter
						if rawValueCommands[keyword] {
							kind = KindRawParameter
						}
						param := tree.New(
							document.NewReference(t.Document(), position+cursor, len(rest)),
							kind, 0)
						cmd.Sketch().Set("parameter", param.Sketch())
						out = append(out, param)
					}
				}
			}
			return out, nil
		}))
}

// contextAnalyzer wraps a run of sibling commands from an opener to its
// matching closer into a context container. Nesting of the same family
// is honored by depth counting; other families do not interfere.
func contextAnalyzer(opens map[string]bool, closeKind, contextKind string) analyzer.Analyzer {
	return analyzer.Func(func(node *tree.Tree) (bool, error) {
		children := node.Children()
		for idx, c := range children {
			if idx == 0 && node.Kind() == contextKind {
				// the context's own opener
				continue
			}
			if !opens[c.Kind()] {
				continue
			}
			var closer *tree.Tree
			depth := 0
			for _, d := range children[idx:] {
				if opens[d.Kind()] {
					depth++
				}
				if d.Kind() == closeKind {
					depth--
					if depth == 0 {
						closer = d
						break
					}
				}
			}
			if closer == nil {
				// unclosed: compilation reports it
				continue
			}

			start := c.Reference().Position()
			end := closer.Reference().End()
			ref := document.NewReference(node.Document(), start, end-start)
			weight := 0
			if node.Reference().Dominance(ref) == interval.Exact {
				weight = node.Weight() + 1
			}
			return node.Offer(tree.New(ref, contextKind, weight))
		}
		return false, nil
	})
}

var (
	ifOpeners      = map[string]bool{"command:if": true, "command:ifdef": true, "command:ifndef": true}
	forOpeners     = map[string]bool{"command:for": true}
	captureOpeners = map[string]bool{"command:capture": true}
)

// commandKey returns the key text of a keyed command.
func commandKey(t *tree.Tree) (string, error) {
	key := t.Sketch().Get("key")
	if key == nil || key.Tree() == nil {
		return "", errors.NewCompilef(t, "%s command is missing its key", t.Kind())
	}
	text, err := key.Tree().Text()
	if err != nil {
		return "", errors.NewIO("reading command key", err)
	}
	return text, nil
}

// commandParameter compiles the parameter of a command, or an empty block
// when the command has none.
func commandParameter(self compiler.Compiler, t *tree.Tree) (instruction.Instruction, error) {
	param := t.Sketch().Get("parameter")
	if param == nil || param.Tree() == nil {
		return instruction.NewBlock(t), nil
	}
	return compiler.Mandatory(self).Compile(self, param.Tree())
}
