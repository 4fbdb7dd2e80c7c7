package instruction

import (
	"testing"

	"jamplate/internal/errors"
	"jamplate/internal/memory"
	"jamplate/internal/value"
)

// Test the arithmetic contracts of the machine.
func TestSum(t *testing.T) {
	tests := []struct {
		name        string
		left, right string
		want        string
	}{
		{"integers", "3", "4", "7"},
		{"decimals collapse to integer", "1.5", "2.5", "4"},
		{"text concatenates", "a", "b", "ab"},
		{"mixed concatenates", "1", "a", "1a"},
		{"decimal result", "1.25", "2", "3.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.New()
			block := NewBlock(nil,
				NewPushText(nil, tt.left),
				NewPushText(nil, tt.right),
				NewSum(nil),
			)
			if err := block.Exec(nil, mem); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := mem.Pop().Evaluate(mem); got != tt.want {
				t.Errorf("Sum(%q, %q) = %q, want %q", tt.left, tt.right, got, tt.want)
			}
		})
	}
}

func TestNumericOps(t *testing.T) {
	tests := []struct {
		name        string
		op          Instruction
		left, right string
		want        string
		wantErr     bool
	}{
		{"product", NewProduct(nil), "6", "7", "42", false},
		{"product decimal", NewProduct(nil), "1.5", "2", "3", false},
		{"product non-number left", NewProduct(nil), "a", "2", "", true},
		{"product non-number right", NewProduct(nil), "2", "a", "", true},
		{"difference", NewDifference(nil), "10", "4", "6", false},
		{"quotient", NewQuotient(nil), "7", "2", "3.5", false},
		{"quotient by zero", NewQuotient(nil), "7", "0", "", true},
		{"remainder", NewRemainder(nil), "17", "5", "2", false},
		{"remainder non-number", NewRemainder(nil), "x", "5", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.New()
			block := NewBlock(nil,
				NewPushText(nil, tt.left),
				NewPushText(nil, tt.right),
				tt.op,
			)
			err := block.Exec(nil, mem)
			if tt.wantErr {
				if !errors.IsKind(err, errors.ExecutionError) {
					t.Fatalf("expected an execution error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := mem.Pop().Evaluate(mem); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogic(t *testing.T) {
	tests := []struct {
		name string
		op   Instruction
		in   string
		want string
	}{
		{"negate empty", NewNegate(nil), "", "1"},
		{"negate zero", NewNegate(nil), "0", "1"},
		{"negate false", NewNegate(nil), "false", "1"},
		{"negate null", NewNegate(nil), "null", "1"},
		{"negate value", NewNegate(nil), "5", "0"},
		{"truth empty", NewTruth(nil), "", "0"},
		{"truth value", NewTruth(nil), "ok", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.New()
			mem.Push(value.TextOf(tt.in))
			if err := tt.op.Exec(nil, mem); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := mem.Pop().Evaluate(mem); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBranch(t *testing.T) {
	tests := []struct {
		name string
		cond string
		want string
	}{
		{"truthy takes then", "1", "then"},
		{"empty takes else", "", "else"},
		{"zero takes else", "0", "else"},
		{"false takes else", "false", "else"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.New()
			branch := NewBranch(nil,
				NewPushText(nil, tt.cond),
				NewPrintConst(nil, value.KindText, "then"),
				NewPrintConst(nil, value.KindText, "else"),
			)
			if err := branch.Exec(nil, mem); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := mem.Console(); got != tt.want {
				t.Errorf("console = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBranchWithoutElse(t *testing.T) {
	mem := memory.New()
	branch := NewBranch(nil, NewPushText(nil, ""), NewPrintConst(nil, value.KindText, "then"), nil)
	if err := branch.Exec(nil, mem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.Console() != "" {
		t.Errorf("console = %q, want empty", mem.Console())
	}
}

func TestDefineMirrorsIntoDefine(t *testing.T) {
	mem := memory.New()
	def := NewDefine(nil, "X", NewPushText(nil, "5"))
	if err := def.Exec(nil, mem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mem.Get("X").Evaluate(mem); got != "5" {
		t.Errorf("heap X = %q, want %q", got, "5")
	}
	if got := mem.Get(memory.Define).Evaluate(mem); got != `{"X":"5"}` {
		t.Errorf("mirror = %q", got)
	}

	// defined checks consult the mirror
	mem2 := memory.New()
	for _, step := range []Instruction{def, NewIsDefined(nil, "X"), NewNotDefined(nil, "X")} {
		if err := step.Exec(nil, mem2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := mem2.Pop().Evaluate(mem2); got != "0" {
		t.Errorf("NotDefined = %q, want 0", got)
	}
	if got := mem2.Pop().Evaluate(mem2); got != "1" {
		t.Errorf("IsDefined = %q, want 1", got)
	}
}

func TestFreeClearsHeapAndMirror(t *testing.T) {
	mem := memory.New()
	steps := []Instruction{
		NewDefine(nil, "X", NewPushText(nil, "1")),
		NewDefine(nil, "Y", NewPushText(nil, "2")),
		NewFree(nil, "X"),
	}
	for _, s := range steps {
		if err := s.Exec(nil, mem); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if mem.Has("X") {
		t.Error("X still on the heap after free")
	}
	if got := mem.Get(memory.Define).Evaluate(mem); got != `{"Y":"2"}` {
		t.Errorf("mirror = %q", got)
	}
}

func TestConcealKeepsHeapEntry(t *testing.T) {
	mem := memory.New()
	steps := []Instruction{
		NewDefine(nil, "X", NewPushText(nil, "1")),
		NewConceal(nil, "X"),
	}
	for _, s := range steps {
		if err := s.Exec(nil, mem); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !mem.Has("X") {
		t.Error("X dropped from the heap")
	}
	if got := mem.Get(memory.Define).Evaluate(mem); got != `{}` {
		t.Errorf("mirror = %q", got)
	}
}

func TestMirrorSurvivesGarbage(t *testing.T) {
	mem := memory.New()
	mem.Set(memory.Define, value.TextOf("not json at all"))
	if err := NewDefine(nil, "X", NewPushText(nil, "1")).Exec(nil, mem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mem.Get(memory.Define).Evaluate(mem); got != `{"X":"1"}` {
		t.Errorf("mirror = %q", got)
	}
}

func TestIterate(t *testing.T) {
	mem := memory.New()
	it := NewIterate(nil, "I",
		NewPushConst(nil, value.KindText, "[1,2,3]"),
		NewBlock(nil,
			NewAccess(nil, "I"),
			NewPrint(nil),
			NewPrintConst(nil, value.KindText, "\n"),
		),
	)
	if err := it.Exec(nil, mem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mem.Console(); got != "1\n2\n3\n" {
		t.Errorf("console = %q", got)
	}
	if mem.Has("I") {
		t.Error("loop binding leaked")
	}
}

func TestIterateRestoresShadowedBinding(t *testing.T) {
	mem := memory.New()
	mem.Set("I", value.TextOf("outer"))
	it := NewIterate(nil, "I",
		NewPushConst(nil, value.KindText, "[1]"),
		NewIdle(nil),
	)
	if err := it.Exec(nil, mem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mem.Get("I").Evaluate(mem); got != "outer" {
		t.Errorf("I = %q after loop, want outer", got)
	}
}

func TestIterateRejectsNonArray(t *testing.T) {
	mem := memory.New()
	it := NewIterate(nil, "I", NewPushText(nil, "plain"), NewIdle(nil))
	if err := it.Exec(nil, mem); !errors.IsKind(err, errors.ExecutionError) {
		t.Fatalf("expected an execution error, got %v", err)
	}
}

type stubEnv map[string]Instruction

func (e stubEnv) Instruction(name string) (Instruction, bool) {
	i, ok := e[name]
	return i, ok
}

func TestImport(t *testing.T) {
	env := stubEnv{
		"lib": NewConsole(nil, NewBlock(nil,
			NewPushText(nil, "from lib"),
		)),
	}
	mem := memory.New()
	imp := NewImport(nil, NewPushText(nil, "lib"))
	if err := imp.Exec(env, mem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mem.Pop().Evaluate(mem); got != "from lib" {
		t.Errorf("import pushed %q", got)
	}
	// nothing leaks onto the importing console
	if mem.Console() != "" {
		t.Errorf("console = %q, want empty", mem.Console())
	}
}

func TestImportUnknownDocument(t *testing.T) {
	mem := memory.New()
	imp := NewImport(nil, NewPushText(nil, "missing"))
	if err := imp.Exec(stubEnv{}, mem); !errors.IsKind(err, errors.ExecutionError) {
		t.Fatalf("expected an execution error, got %v", err)
	}
}

func TestConsoleJoinsAndPrints(t *testing.T) {
	mem := memory.New()
	c := NewConsole(nil, NewBlock(nil,
		NewPushText(nil, "a"),
		NewPushText(nil, "b"),
	))
	if err := c.Exec(nil, mem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mem.Console(); got != "ab" {
		t.Errorf("console = %q", got)
	}
}

func TestFail(t *testing.T) {
	mem := memory.New()
	f := NewFail(nil, NewPushText(nil, "boom"))
	err := f.Exec(nil, mem)
	if !errors.IsKind(err, errors.ExecutionError) {
		t.Fatalf("expected an execution error, got %v", err)
	}
	if err.(*errors.Error).Message != "boom" {
		t.Errorf("message = %q", err.(*errors.Error).Message)
	}
}

func TestGroupMergesFrame(t *testing.T) {
	mem := memory.New()
	g := NewGroup(nil, NewPushText(nil, "x"))
	if err := g.Exec(nil, mem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.Depth() != 1 {
		t.Fatalf("depth = %d", mem.Depth())
	}
	if got := mem.Pop().Evaluate(mem); got != "x" {
		t.Errorf("got %q", got)
	}
}

func TestDeterminism(t *testing.T) {
	program := NewConsole(nil, NewBlock(nil,
		NewDefine(nil, "X", NewPushText(nil, "5")),
		NewAccess(nil, "X"),
		NewPushText(nil, "2"),
		NewSum(nil),
	))
	run := func() string {
		mem := memory.New()
		if err := program.Exec(nil, mem); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return mem.Console()
	}
	first := run()
	second := run()
	if first != second {
		t.Errorf("runs differ: %q vs %q", first, second)
	}
	if first != "7" {
		t.Errorf("console = %q, want 7", first)
	}
}
