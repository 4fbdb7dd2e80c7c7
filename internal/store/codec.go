// internal/store/codec.go
package store

import (
	"sort"

	"github.com/pkg/errors"

	"jamplate/internal/instruction"
	"jamplate/internal/value"
)

func sortSnapshot(snap *Snapshot) {
	sort.Strings(snap.Documents)
	sort.Slice(snap.Compilations, func(i, j int) bool {
		return snap.Compilations[i].Document < snap.Compilations[j].Document
	})
}

// Encode lowers an instruction tree to records.
func Encode(instr instruction.Instruction) (*Record, error) {
	if instr == nil {
		return nil, nil
	}
	record := &Record{Opcode: instr.Opcode()}
	arg := func(k, v string) {
		if record.Args == nil {
			record.Args = map[string]string{}
		}
		record.Args[k] = v
	}
	child := func(c instruction.Instruction) error {
		r, err := Encode(c)
		if err != nil {
			return err
		}
		record.Children = append(record.Children, r)
		return nil
	}

	switch i := instr.(type) {
	case *instruction.Block:
		for _, c := range i.Children {
			if err := child(c); err != nil {
				return nil, err
			}
		}
	case *instruction.Group:
		for _, c := range i.Children {
			if err := child(c); err != nil {
				return nil, err
			}
		}
	case *instruction.Idle, *instruction.Pop, *instruction.Dup,
		*instruction.PushFrame, *instruction.DumpFrame, *instruction.JoinFrame,
		*instruction.MakePair, *instruction.Print,
		*instruction.Sum, *instruction.Difference, *instruction.Product,
		*instruction.Quotient, *instruction.Remainder,
		*instruction.Negate, *instruction.Truth:
		// no arguments
	case *instruction.PushConst:
		arg("kind", i.Kind.String())
		arg("raw", i.Raw)
	case *instruction.PrintConst:
		arg("kind", i.Kind.String())
		arg("raw", i.Raw)
	case *instruction.GlueFrame:
		arg("kind", i.Kind.String())
	case *instruction.Access:
		arg("address", i.Address)
	case *instruction.Alloc:
		arg("address", i.Address)
		arg("kind", i.Kind.String())
		arg("raw", i.Raw)
	case *instruction.Free:
		arg("address", i.Address)
	case *instruction.Conceal:
		arg("address", i.Address)
	case *instruction.IsDefined:
		arg("address", i.Address)
	case *instruction.NotDefined:
		arg("address", i.Address)
	case *instruction.Define:
		arg("address", i.Address)
		if err := child(i.Body); err != nil {
			return nil, err
		}
	case *instruction.Branch:
		if err := child(i.Cond); err != nil {
			return nil, err
		}
		if err := child(i.Then); err != nil {
			return nil, err
		}
		if i.Else != nil {
			if err := child(i.Else); err != nil {
				return nil, err
			}
		}
	case *instruction.Iterate:
		arg("address", i.Address)
		if err := child(i.Iterable); err != nil {
			return nil, err
		}
		if err := child(i.Body); err != nil {
			return nil, err
		}
	case *instruction.Import:
		if err := child(i.Name); err != nil {
			return nil, err
		}
	case *instruction.Console:
		if err := child(i.Body); err != nil {
			return nil, err
		}
	case *instruction.Fail:
		if err := child(i.Body); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("store: unknown instruction %q", instr.Opcode())
	}
	return record, nil
}

// Decode rebuilds an instruction tree from records. The source trees are
// gone; instructions come back with no positions.
func Decode(record *Record) (instruction.Instruction, error) {
	if record == nil {
		return nil, nil
	}
	kids := func(n int) ([]instruction.Instruction, error) {
		if len(record.Children) < n {
			return nil, errors.Errorf("store: %s wants %d children, has %d",
				record.Opcode, n, len(record.Children))
		}
		out := make([]instruction.Instruction, 0, len(record.Children))
		for _, c := range record.Children {
			instr, err := Decode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, instr)
		}
		return out, nil
	}
	kind := func() value.Kind {
		k, _ := value.KindOf(record.Args["kind"])
		return k
	}
	address := func() string { return record.Args["address"] }

	switch record.Opcode {
	case "block":
		children, err := kids(0)
		if err != nil {
			return nil, err
		}
		return instruction.NewBlock(nil, children...), nil
	case "group":
		children, err := kids(0)
		if err != nil {
			return nil, err
		}
		return instruction.NewGroup(nil, children...), nil
	case "idle":
		return instruction.NewIdle(nil), nil
	case "pop":
		return instruction.NewPop(nil), nil
	case "dup":
		return instruction.NewDup(nil), nil
	case "push_frame":
		return instruction.NewPushFrame(nil), nil
	case "dump_frame":
		return instruction.NewDumpFrame(nil), nil
	case "join_frame":
		return instruction.NewJoinFrame(nil), nil
	case "glue_frame":
		return instruction.NewGlueFrame(nil, kind()), nil
	case "pair":
		return instruction.NewMakePair(nil), nil
	case "print":
		return instruction.NewPrint(nil), nil
	case "print_const":
		return instruction.NewPrintConst(nil, kind(), record.Args["raw"]), nil
	case "const":
		return instruction.NewPushConst(nil, kind(), record.Args["raw"]), nil
	case "sum":
		return instruction.NewSum(nil), nil
	case "difference":
		return instruction.NewDifference(nil), nil
	case "product":
		return instruction.NewProduct(nil), nil
	case "quotient":
		return instruction.NewQuotient(nil), nil
	case "remainder":
		return instruction.NewRemainder(nil), nil
	case "negate":
		return instruction.NewNegate(nil), nil
	case "truth":
		return instruction.NewTruth(nil), nil
	case "access":
		return instruction.NewAccess(nil, address()), nil
	case "alloc":
		return instruction.NewAlloc(nil, address(), kind(), record.Args["raw"]), nil
	case "free":
		return instruction.NewFree(nil, address()), nil
	case "conceal":
		return instruction.NewConceal(nil, address()), nil
	case "defined":
		return instruction.NewIsDefined(nil, address()), nil
	case "undefined":
		return instruction.NewNotDefined(nil, address()), nil
	case "define":
		children, err := kids(1)
		if err != nil {
			return nil, err
		}
		return instruction.NewDefine(nil, address(), children[0]), nil
	case "branch":
		children, err := kids(2)
		if err != nil {
			return nil, err
		}
		var els instruction.Instruction
		if len(children) > 2 {
			els = children[2]
		}
		return instruction.NewBranch(nil, children[0], children[1], els), nil
	case "iterate":
		children, err := kids(2)
		if err != nil {
			return nil, err
		}
		return instruction.NewIterate(nil, address(), children[0], children[1]), nil
	case "import":
		children, err := kids(1)
		if err != nil {
			return nil, err
		}
		return instruction.NewImport(nil, children[0]), nil
	case "console":
		children, err := kids(1)
		if err != nil {
			return nil, err
		}
		return instruction.NewConsole(nil, children[0]), nil
	case "fail":
		children, err := kids(1)
		if err != nil {
			return nil, err
		}
		return instruction.NewFail(nil, children[0]), nil
	}
	return nil, errors.Errorf("store: unknown opcode %q", record.Opcode)
}
