// internal/store/store.go
package store

import (
	"encoding/json"

	"github.com/pkg/errors"

	"jamplate/internal/document"
	"jamplate/internal/engine"
	"jamplate/internal/instruction"
)

// Snapshot is the persisted form of an environment: document names and
// the instruction tree of every compiled document. Documents keep their
// name only; a reloaded document rejects content access. Instructions
// keep their full structure but not their source trees.
type Snapshot struct {
	Documents    []string      `json:"documents"`
	Compilations []Compilation `json:"compilations"`
}

// Compilation is one persisted document/instruction pairing.
type Compilation struct {
	Document    string  `json:"document"`
	Instruction *Record `json:"instruction"`
}

// Record is the schema-explicit form of one instruction.
type Record struct {
	Opcode   string            `json:"opcode"`
	Args     map[string]string `json:"args,omitempty"`
	Children []*Record         `json:"children,omitempty"`
}

// Marshal writes an environment snapshot.
func Marshal(env *engine.Environment) ([]byte, error) {
	snap := Snapshot{}
	for name, comp := range env.Compilations() {
		snap.Documents = append(snap.Documents, name)
		if comp.Instruction() == nil {
			continue
		}
		record, err := Encode(comp.Instruction())
		if err != nil {
			return nil, err
		}
		snap.Compilations = append(snap.Compilations, Compilation{
			Document:    name,
			Instruction: record,
		})
	}
	sortSnapshot(&snap)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "store: encoding snapshot")
	}
	return data, nil
}

// Unmarshal rebuilds an environment from a snapshot. Restored documents
// are shells: name only, no content.
func Unmarshal(data []byte, registry *engine.Registry) (*engine.Environment, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, "store: decoding snapshot")
	}
	env := engine.New(registry)
	instructions := map[string]instruction.Instruction{}
	for _, comp := range snap.Compilations {
		instr, err := Decode(comp.Instruction)
		if err != nil {
			return nil, err
		}
		instructions[comp.Document] = instr
	}
	for _, name := range snap.Documents {
		env.Restore(engine.NewCompilation(document.Shell(name), instructions[name]))
	}
	return env, nil
}
