// internal/repl/repl.go
package repl

import (
	"bufio"
	"fmt"
	"os"

	"jamplate/internal/diagnostic"
	"jamplate/internal/document"
	"jamplate/internal/engine"
	"jamplate/internal/spec"
)

// Start reads template lines from stdin and processes each as its own
// document. Definitions do not carry over between lines; every line runs
// against a fresh memory.
func Start() {
	fmt.Println("Jamplate REPL | type 'exit' to quit")
	scanner := bufio.NewScanner(os.Stdin)

	env := engine.New(spec.Default())
	render := diagnostic.New()
	line := 0

	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if input == "exit" {
			break
		}
		if input == "" {
			continue
		}

		line++
		doc := document.New(fmt.Sprintf("repl-%d", line), input)
		comp, err := env.Process(doc)
		if err != nil {
			fmt.Fprint(os.Stderr, render.Render(err))
			continue
		}
		out, err := env.Execute(comp, nil)
		if err != nil {
			fmt.Fprint(os.Stderr, render.Render(err))
			continue
		}
		fmt.Println(out)
	}
}
