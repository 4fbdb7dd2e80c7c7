// cmd/jamplate/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"jamplate/internal/config"
	"jamplate/internal/diagnostic"
	"jamplate/internal/repl"
)

const VERSION = "1.0.0"

// Command aliases mapping
var commandAliases = map[string]string{
	"r": "run",
	"w": "watch",
	"s": "snapshot",
	"e": "eval",
	"i": "repl",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
		args[0] = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}
	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		showVersion()
		return
	}

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "run":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: jamplate run <file> [flags]")
			os.Exit(1)
		}
		if err := runCommand(cfg, args[1:]); err != nil {
			fail(err)
		}
	case "eval":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: jamplate eval <template text>")
			os.Exit(1)
		}
		if err := evalCommand(cfg, args[1]); err != nil {
			fail(err)
		}
	case "watch":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: jamplate watch <file>")
			os.Exit(1)
		}
		if err := watchCommand(cfg, args[1]); err != nil {
			fail(err)
		}
	case "snapshot":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: jamplate snapshot <file> [-o <snapshot.json>]")
			os.Exit(1)
		}
		if err := snapshotCommand(cfg, args[1:]); err != nil {
			fail(err)
		}
	case "repl":
		repl.Start()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprint(os.Stderr, diagnostic.New().Render(err))
	os.Exit(1)
}

func showVersion() {
	fmt.Printf("jamplate %s (built %s)\n", VERSION, time.Now().Format("2006-01-02"))
}

func showUsage() {
	fmt.Println(`jamplate - template processor

Usage:
  jamplate run <file> [-md] [-stats] [--from-snapshot <file>]   process a template (alias: r)
  jamplate eval <text>                                          process inline template text (alias: e)
  jamplate watch <file>                                         re-process on change (alias: w)
  jamplate snapshot <file> [-o <out>]                           persist the compiled environment (alias: s)
  jamplate repl                                                 interactive line-by-line processing (alias: i)
  jamplate version                                              print the version
  jamplate help                                                 show this help

Configuration is read from jamplate.yaml in the working directory.`)
}
