// internal/engine/engine.go
package engine

import (
	"sort"

	"jamplate/internal/analyzer"
	"jamplate/internal/compiler"
	"jamplate/internal/document"
	"jamplate/internal/errors"
	"jamplate/internal/instruction"
	"jamplate/internal/memory"
	"jamplate/internal/parser"
	"jamplate/internal/tree"
)

// maxPasses caps the parse and analyze fixed points. A healthy dialect
// converges in a handful of passes; hitting the cap means a parser keeps
// producing trees that never settle.
const maxPasses = 1024

// Spec is one named extension unit: any subset of a parser, an analyzer,
// a compiler and a processor. Specs compose in registry order; the order
// decides analyzer precedence and compiler fallback.
type Spec struct {
	Name      string
	Parser    parser.Parser
	Analyzer  analyzer.Analyzer
	Compiler  compiler.Compiler
	Processor func(c *Compilation) (bool, error)
}

// Registry is an ordered collection of specs.
type Registry struct {
	specs []Spec
}

func NewRegistry(specs ...Spec) *Registry {
	return &Registry{specs: specs}
}

// Add appends a spec.
func (r *Registry) Add(s Spec) {
	r.specs = append(r.specs, s)
}

// Get returns the spec registered under name.
func (r *Registry) Get(name string) (Spec, bool) {
	for _, s := range r.specs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Specs returns the specs in registration order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Compilation is the state of one document moving through the pipeline:
// its root tree and, once compiled, its instruction.
type Compilation struct {
	document document.Document
	root     *tree.Tree
	instr    instruction.Instruction
}

func (c *Compilation) Document() document.Document { return c.document }

func (c *Compilation) Root() *tree.Tree { return c.root }

func (c *Compilation) Instruction() instruction.Instruction { return c.instr }

// SetInstruction installs a compiled instruction; the snapshot store uses
// it when rebuilding an environment.
func (c *Compilation) SetInstruction(i instruction.Instruction) { c.instr = i }

// NewCompilation returns a compilation rebuilt from persisted state: a
// document (usually a shell) and its compiled instruction, with no tree.
func NewCompilation(doc document.Document, instr instruction.Instruction) *Compilation {
	return &Compilation{document: doc, instr: instr}
}

// Environment holds the compilations of related documents and the
// registry that processes them. Imports resolve through it at run time.
type Environment struct {
	registry     *Registry
	compilations map[string]*Compilation
}

func New(registry *Registry) *Environment {
	return &Environment{
		registry:     registry,
		compilations: map[string]*Compilation{},
	}
}

// Registry returns the registry the environment processes with.
func (e *Environment) Registry() *Registry { return e.registry }

// Compilation returns the compilation of the named document.
func (e *Environment) Compilation(name string) (*Compilation, bool) {
	c, ok := e.compilations[name]
	return c, ok
}

// Compilations returns the compilations by document name.
func (e *Environment) Compilations() map[string]*Compilation {
	out := make(map[string]*Compilation, len(e.compilations))
	for k, v := range e.compilations {
		out[k] = v
	}
	return out
}

// Restore registers a compilation rebuilt from a snapshot.
func (e *Environment) Restore(c *Compilation) {
	e.compilations[c.document.Name()] = c
}

// Instruction implements instruction.Environment.
func (e *Environment) Instruction(name string) (instruction.Instruction, bool) {
	c, ok := e.compilations[name]
	if !ok || c.instr == nil {
		return nil, false
	}
	return c.instr, true
}

// Process runs the document through the whole pipeline: processors, the
// parse fixed point, the analyze fixed point, and compilation. The
// finished compilation is registered for imports.
func (e *Environment) Process(doc document.Document) (*Compilation, error) {
	whole, err := document.Whole(doc)
	if err != nil {
		return nil, errors.NewIO("reading document "+doc.Name(), err)
	}
	comp := &Compilation{
		document: doc,
		root:     tree.New(whole, "document", -1),
	}
	e.compilations[doc.Name()] = comp

	for _, spec := range e.registry.specs {
		if spec.Processor == nil {
			continue
		}
		if _, err := spec.Processor(comp); err != nil {
			return nil, err
		}
	}

	if err := e.parse(comp); err != nil {
		return nil, err
	}
	if err := e.analyze(comp); err != nil {
		return nil, err
	}
	if err := e.compile(comp); err != nil {
		return nil, err
	}
	return comp, nil
}

// parse drives every spec parser to a fixed point over the tree.
func (e *Environment) parse(comp *Compilation) error {
	for pass := 0; ; pass++ {
		if pass >= maxPasses {
			return errors.NewCompile("parsing is not converging", comp.root)
		}
		modified := false
		for _, spec := range e.registry.specs {
			if spec.Parser == nil {
				continue
			}
			found, err := spec.Parser.Parse(comp.root)
			if err != nil {
				return err
			}
			for _, t := range found {
				attached, err := comp.root.Offer(t)
				if err != nil {
					return err
				}
				modified = modified || attached
			}
		}
		if !modified {
			return nil
		}
	}
}

// analyze drives every spec analyzer to a fixed point over the tree.
func (e *Environment) analyze(comp *Compilation) error {
	for pass := 0; ; pass++ {
		if pass >= maxPasses {
			return errors.NewCompile("analysis is not converging", comp.root)
		}
		modified := false
		for _, spec := range e.registry.specs {
			if spec.Analyzer == nil {
				continue
			}
			m, err := spec.Analyzer.Analyze(comp.root)
			if err != nil {
				return err
			}
			modified = modified || m
		}
		if !modified {
			return nil
		}
	}
}

// compile lowers the enriched tree once through the spec compilers.
func (e *Environment) compile(comp *Compilation) error {
	var compilers []compiler.Compiler
	for _, spec := range e.registry.specs {
		if spec.Compiler != nil {
			compilers = append(compilers, spec.Compiler)
		}
	}
	machine := compiler.Fallback(compilers...)
	instr, err := machine.Compile(machine, comp.root)
	if err != nil {
		return err
	}
	if instr == nil {
		return errors.NewCompile("no compiler recognized the document", comp.root)
	}
	comp.instr = instr
	return nil
}

// Execute runs a compiled document against a fresh memory seeded with the
// given definitions and returns the produced console text. Running the
// same compilation twice yields identical output.
func (e *Environment) Execute(comp *Compilation, definitions map[string]string) (string, error) {
	if comp.instr == nil {
		return "", errors.NewCompile("document is not compiled", comp.root)
	}
	mem := memory.New()
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		instruction.Publish(mem, name, definitions[name])
	}
	if err := comp.instr.Exec(e, mem); err != nil {
		return "", err
	}
	return mem.Console(), nil
}
