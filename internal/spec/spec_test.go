package spec

import (
	"testing"

	"jamplate/internal/document"
	"jamplate/internal/engine"
	"jamplate/internal/errors"
)

// run processes and executes one in-memory document against the given
// registry.
func run(t *testing.T, registry *engine.Registry, source string) (string, error) {
	t.Helper()
	env := engine.New(registry)
	comp, err := env.Process(document.New("test", source))
	if err != nil {
		return "", err
	}
	return env.Execute(comp, nil)
}

func mustRun(t *testing.T, registry *engine.Registry, source string) string {
	t.Helper()
	out, err := run(t, registry, source)
	if err != nil {
		t.Fatalf("processing %q: %v", source, err)
	}
	return out
}

func TestArithmeticDocuments(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"precedence", "1 + 2 * (3 + 5)", "17"},
		{"plain sum", "3 + 4", "7"},
		{"decimal sum", "1.5 + 2.5", "4"},
		{"division", "7 / 2", "3.5"},
		{"remainder", "17 % 5", "2"},
		{"nested groups", "((2))", "2"},
		{"negation", "-3 + 10", "7"},
		{"concatenation", "'a' + 'b'", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, Arithmetic(), tt.source); got != tt.want {
				t.Errorf("%q produced %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestTemplateDocuments(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			"define and branch",
			"#define X 5\n#if X\nok\n#endif",
			"ok\n",
		},
		{
			"for loop",
			"#for I [1,2,3]\n[I]\n#endfor",
			"1\n2\n3\n",
		},
		{
			"undefined ifdef takes else",
			"#ifdef Y\nA\n#else\nB\n#endif",
			"B\n",
		},
		{
			"object literal",
			"{a:1,b:2}",
			`{"a":"1","b":"2"}`,
		},
		{
			"declare evaluates",
			"#declare X 2+3\n[X]",
			"5",
		},
		{
			"plain text passes through",
			"hello world\n",
			"hello world\n",
		},
		{
			"injection of a definition",
			"#define NAME world\nhello [NAME]\n",
			"hello world\n",
		},
		{
			"ifndef",
			"#ifndef Y\nmissing\n#endif",
			"missing\n",
		},
		{
			"elif chain",
			"#define X 0\n#if X\na\n#elif 1\nb\n#else\nc\n#endif",
			"b\n",
		},
		{
			"nested ifs",
			"#define X 1\n#if X\n#if X\ndeep\n#endif\n#endif",
			"deep\n",
		},
		{
			"undef",
			"#define X 1\n#undef X\n#ifdef X\nyes\n#else\nno\n#endif",
			"no\n",
		},
		{
			"capture",
			"#capture G\nhi\n#endcapture\n[G][G]",
			"hi\nhi\n",
		},
		{
			"nested for",
			"#for A [1,2]\n#for B [3,4]\n[A][B]\n#endfor\n#endfor",
			"13\n14\n23\n24\n",
		},
		{
			"declare arithmetic with references",
			"#define A 2\n#define B 3\n#declare X A*B\n[X]",
			"6",
		},
		{
			"message prints immediately",
			"#message hello\n",
			"hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, Default(), tt.source); got != tt.want {
				t.Errorf("%q produced %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"unclosed if", "#if 1\nx\n", "Unclosed if context"},
		{"stray elif", "#elif 1\n", "Elif command outside if context"},
		{"stray else", "#else\n", "Else command outside if context"},
		{"stray endif", "#endif\n", "Endif command outside if context"},
		{"double else", "#if 1\n#else\n#else\n#endif", "Double Else commands"},
		{"unclosed for", "#for I [1]\nx\n", "Unclosed for context"},
		{"stray endfor", "#endfor\n", "Endfor command outside for context"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, Default(), tt.source)
			if !errors.IsKind(err, errors.CompileError) {
				t.Fatalf("expected a compile error, got %v", err)
			}
			if msg := err.(*errors.Error).Message; msg != tt.message {
				t.Errorf("message = %q, want %q", msg, tt.message)
			}
		})
	}
}

func TestErrorCommand(t *testing.T) {
	_, err := run(t, Default(), "#error boom\n")
	if !errors.IsKind(err, errors.ExecutionError) {
		t.Fatalf("expected an execution error, got %v", err)
	}
}

func TestInclude(t *testing.T) {
	env := engine.New(Default())
	if _, err := env.Process(document.New("lib", "#define SHARED 9\nfrom lib\n")); err != nil {
		t.Fatalf("processing lib: %v", err)
	}
	comp, err := env.Process(document.New("main", "#include 'lib'\n[SHARED]"))
	if err != nil {
		t.Fatalf("processing main: %v", err)
	}
	out, err := env.Execute(comp, nil)
	if err != nil {
		t.Fatalf("executing main: %v", err)
	}
	if out != "from lib\n9" {
		t.Errorf("output = %q", out)
	}
}

func TestPredefinedDefinitions(t *testing.T) {
	env := engine.New(Default())
	comp, err := env.Process(document.New("test", "#ifdef HOST\n[HOST]\n#endif"))
	if err != nil {
		t.Fatalf("processing: %v", err)
	}
	out, err := env.Execute(comp, map[string]string{"HOST": "example"})
	if err != nil {
		t.Fatalf("executing: %v", err)
	}
	if out != "example\n" {
		t.Errorf("output = %q", out)
	}
}

func TestDeterminism(t *testing.T) {
	env := engine.New(Default())
	comp, err := env.Process(document.New("test", "#define X 1\n#for I [1,2]\n[I][X]\n#endfor"))
	if err != nil {
		t.Fatalf("processing: %v", err)
	}
	first, err := env.Execute(comp, nil)
	if err != nil {
		t.Fatalf("executing: %v", err)
	}
	second, err := env.Execute(comp, nil)
	if err != nil {
		t.Fatalf("executing again: %v", err)
	}
	if first != second {
		t.Errorf("runs differ: %q vs %q", first, second)
	}
}
