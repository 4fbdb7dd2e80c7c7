// cmd/jamplate/commands.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"

	"jamplate/internal/config"
	"jamplate/internal/document"
	"jamplate/internal/engine"
	"jamplate/internal/render"
	"jamplate/internal/spec"
	"jamplate/internal/store"
)

// process runs one document through a fresh environment built from the
// configuration and returns the produced text.
func process(cfg *config.Config, doc document.Document) (string, error) {
	env := engine.New(spec.Default())

	// make sibling documents of the configured roots importable
	for _, root := range cfg.Roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			side := document.Open(filepath.Join(root, entry.Name()))
			if document.Equal(side, doc) {
				continue
			}
			if _, err := env.Process(side); err != nil {
				return "", err
			}
		}
	}

	comp, err := env.Process(doc)
	if err != nil {
		return "", err
	}
	return env.Execute(comp, cfg.Definitions)
}

func emit(cfg *config.Config, name, output string) error {
	if cfg.Render == "markdown" {
		html, err := render.Markdown(output)
		if err != nil {
			return err
		}
		output = html
	}
	if cfg.Output == "" {
		fmt.Print(output)
		return nil
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}
	target := filepath.Join(cfg.Output, filepath.Base(name)+".out")
	return os.WriteFile(target, []byte(output), 0o644)
}

func runCommand(cfg *config.Config, args []string) error {
	path := args[0]
	stats := false
	snapshotPath := ""
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-stats":
			stats = true
		case "-md":
			cfg.Render = "markdown"
		case "--from-snapshot":
			if i+1 < len(args) {
				i++
				snapshotPath = args[i]
			}
		}
	}

	start := time.Now()

	if snapshotPath != "" {
		return runFromSnapshot(cfg, path, snapshotPath)
	}

	doc := document.Open(path)
	output, err := process(cfg, doc)
	if err != nil {
		return err
	}
	if err := emit(cfg, path, output); err != nil {
		return err
	}

	if stats {
		size, _ := doc.Length()
		fmt.Fprintf(os.Stderr, "processed %s (%s) in %s\n",
			path, humanize.Bytes(uint64(size)), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func runFromSnapshot(cfg *config.Config, name, snapshotPath string) error {
	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		return err
	}
	env, err := store.Unmarshal(data, spec.Default())
	if err != nil {
		return err
	}
	comp, ok := env.Compilation(name)
	if !ok {
		return fmt.Errorf("document %q is not in the snapshot", name)
	}
	output, err := env.Execute(comp, cfg.Definitions)
	if err != nil {
		return err
	}
	return emit(cfg, name, output)
}

func evalCommand(cfg *config.Config, text string) error {
	doc := document.NewInline(text)
	output, err := process(cfg, doc)
	if err != nil {
		return err
	}
	return emit(cfg, doc.Name(), output)
}

func watchCommand(cfg *config.Config, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	rerun := func() {
		output, err := process(cfg, document.Open(path))
		if err != nil {
			fmt.Fprint(os.Stderr, err.Error()+"\n")
			return
		}
		if err := emit(cfg, path, output); err != nil {
			fmt.Fprint(os.Stderr, err.Error()+"\n")
		}
	}
	rerun()

	// debounce bursts of write events from editors
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name == path && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = time.After(100 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		case <-pending:
			pending = nil
			rerun()
		}
	}
}

func snapshotCommand(cfg *config.Config, args []string) error {
	path := args[0]
	out := path + ".snapshot.json"
	for i := 1; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			i++
			out = args[i]
		}
	}

	env := engine.New(spec.Default())
	if _, err := env.Process(document.Open(path)); err != nil {
		return err
	}
	data, err := store.Marshal(env)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "snapshot written to %s (%s)\n", out, humanize.Bytes(uint64(len(data))))
	return nil
}
