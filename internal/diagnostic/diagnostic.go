// internal/diagnostic/diagnostic.go
package diagnostic

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"jamplate/internal/errors"
)

// Renderer formats engine errors with the source line and a caret under
// the offending position. Colors are used only on a terminal.
type Renderer struct {
	colorize bool
}

// New returns a renderer deciding colors from whether stderr is a
// terminal.
func New() *Renderer {
	return &Renderer{colorize: isatty.IsTerminal(os.Stderr.Fd())}
}

// NewPlain returns a renderer that never colors.
func NewPlain() *Renderer {
	return &Renderer{}
}

// Render formats err for the console.
func (r *Renderer) Render(err error) string {
	e, ok := err.(*errors.Error)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder
	head := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if r.colorize {
		head = color.New(color.FgRed, color.Bold).Sprint(head)
	}
	sb.WriteString(head)
	sb.WriteByte('\n')

	if e.At == nil || e.At.Document() == nil {
		return sb.String()
	}

	ref := e.At.Reference()
	content, cerr := e.At.Document().Content()
	line, column := 1, 1
	if cerr == nil {
		for _, c := range content[:ref.Position()] {
			if c == '\n' {
				line++
				column = 1
			} else {
				column++
			}
		}
	}
	sb.WriteString(fmt.Sprintf("  at %s:%d:%d\n", e.At.Document().Name(), line, column))

	if cerr == nil {
		start := strings.LastIndexByte(content[:ref.Position()], '\n') + 1
		end := strings.IndexByte(content[start:], '\n')
		if end < 0 {
			end = len(content)
		} else {
			end += start
		}
		source := content[start:end]
		sb.WriteString(fmt.Sprintf("\n  %d | %s\n", line, source))
		sb.WriteString("  " + strings.Repeat(" ", len(fmt.Sprintf("%d | ", line))))
		if column > 1 {
			sb.WriteString(strings.Repeat(" ", column-1))
		}
		caret := "^"
		if r.colorize {
			caret = color.New(color.FgYellow).Sprint(caret)
		}
		sb.WriteString(caret)
		sb.WriteByte('\n')
	}
	return sb.String()
}
