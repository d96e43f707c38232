package executor

import (
	"bytes"
	"testing"

	"github.com/mpas-lang/mpas/pkg/parser"
	"github.com/mpas-lang/mpas/pkg/symtab"
)

// helper that parses and executes a program body
func runBody(t *testing.T, body string) (string, error) {
	t.Helper()
	source := "PROGRAM test;\nBEGIN\n" + body + "\nEND."
	prog, diags := parser.Parse(source, "test.pas", symtab.New())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	var buf bytes.Buffer
	err := Execute(prog, &buf)
	return buf.String(), err
}

// helper for programs that must run cleanly
func mustRun(t *testing.T, body string) string {
	t.Helper()
	out, err := runBody(t, body)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	return out
}

// ---------------------------------------------------------------------------
// Test: WRITE and WRITELN output formats
// ---------------------------------------------------------------------------
func TestWriteFormats(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"default number format rounds to whole", "x := 3.7;\nwriteln(x)", "4\n"},
		{"width and places", "x := 3.14159;\nwrite(x:10:2)", "      3.14"},
		{"places without padding", "x := 3.14159;\nwriteln(x:1:5)", "3.14159\n"},
		{"width pads whole numbers", "x := 42;\nwrite(x:6)", "    42"},
		{"string plain", "write('hi')", "hi"},
		{"string right-justified", "write('hi':5)", "   hi"},
		{"bare writeln", "write('a');\nwriteln;\nwrite('b')", "a\nb"},
		{"writeln appends newline", "writeln('done')", "done\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, tt.body)
			if got != tt.want {
				t.Errorf("output: got %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: arithmetic and operators
// ---------------------------------------------------------------------------
func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"addition", "x := 1 + 2;\nwriteln(x)", "3\n"},
		{"precedence", "x := 1 + 2 * 3;\nwriteln(x)", "7\n"},
		{"parentheses", "x := (1 + 2) * 3;\nwriteln(x)", "9\n"},
		{"slash divides", "x := 7 / 2;\nwriteln(x:1:1)", "3.5\n"},
		{"DIV also divides", "x := 7 DIV 2;\nwriteln(x:1:1)", "3.5\n"},
		{"mod", "x := 7 MOD 3;\nwriteln(x)", "1\n"},
		{"unary minus", "x := -3;\nwriteln(x)", "-3\n"},
		{"leading plus", "x := +3;\nwriteln(x)", "3\n"},
		{"self reference reads zero", "x := x + 1;\nwriteln(x)", "1\n"},
		{"assigned literal reads back exactly", "x := 5;\nIF x = 5 THEN writeln('exact') ELSE writeln('lost')", "exact\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, tt.body)
			if got != tt.want {
				t.Errorf("output: got %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: boolean operators and comparisons
// ---------------------------------------------------------------------------
func TestBooleans(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"and true", "a := 2;\nIF (a > 1) AND (a < 3) THEN writeln('yes') ELSE writeln('no')", "yes\n"},
		{"and false", "a := 2;\nIF (a > 1) AND (a > 3) THEN writeln('yes') ELSE writeln('no')", "no\n"},
		{"or", "a := 2;\nIF (a > 9) OR (a > 1) THEN writeln('yes') ELSE writeln('no')", "yes\n"},
		{"not", "a := 2;\nIF NOT (a > 9) THEN writeln('yes') ELSE writeln('no')", "yes\n"},
		{"equality is exact", "a := 0.1 + 0.2;\nIF a = 0.3 THEN writeln('eq') ELSE writeln('ne')", "ne\n"},
		{"not equals", "a := 1;\nIF a <> 2 THEN writeln('ne') ELSE writeln('eq')", "ne\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, tt.body)
			if got != tt.want {
				t.Errorf("output: got %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: control flow
// ---------------------------------------------------------------------------
func TestControlFlow(t *testing.T) {
	t.Run("repeat runs body before test", func(t *testing.T) {
		got := mustRun(t, "i := 9;\nREPEAT\nwriteln(i)\nUNTIL i > 3")
		if got != "9\n" {
			t.Errorf("expected one iteration, got %q", got)
		}
	})

	t.Run("repeat counts up", func(t *testing.T) {
		got := mustRun(t, "i := 1;\nREPEAT\nwrite(i);\ni := i + 1\nUNTIL i > 3")
		if got != "123" {
			t.Errorf("got %q, want %q", got, "123")
		}
	})

	t.Run("while checks before first iteration", func(t *testing.T) {
		got := mustRun(t, "i := 9;\nWHILE i < 5 DO BEGIN\nwriteln('never')\nEND;\nwriteln('done')")
		if got != "done\n" {
			t.Errorf("expected zero iterations, got %q", got)
		}
	})

	t.Run("while counts up", func(t *testing.T) {
		got := mustRun(t, "i := 1;\nWHILE i <= 3 DO BEGIN\nwrite(i);\ni := i + 1\nEND")
		if got != "123" {
			t.Errorf("got %q, want %q", got, "123")
		}
	})

	t.Run("if branches are exclusive", func(t *testing.T) {
		got := mustRun(t, "x := 1;\nIF x > 0 THEN write('t') ELSE write('f');\nIF x < 0 THEN write('t') ELSE write('f')")
		if got != "tf" {
			t.Errorf("got %q, want %q", got, "tf")
		}
	})

	t.Run("if without else", func(t *testing.T) {
		got := mustRun(t, "x := 1;\nIF x < 0 THEN writeln('neg');\nwriteln('after')")
		if got != "after\n" {
			t.Errorf("got %q, want %q", got, "after\n")
		}
	})

	t.Run("nested loops", func(t *testing.T) {
		body := "i := 1;\nWHILE i <= 2 DO BEGIN\nj := 1;\nWHILE j <= 2 DO BEGIN\nwrite(i);\nwrite(j);\nj := j + 1\nEND;\ni := i + 1\nEND"
		got := mustRun(t, body)
		if got != "11122122" {
			t.Errorf("got %q, want %q", got, "11122122")
		}
	})
}

// ---------------------------------------------------------------------------
// Test: runtime errors stop execution at the failing statement
// ---------------------------------------------------------------------------
func TestRuntimeErrors(t *testing.T) {
	t.Run("division by zero", func(t *testing.T) {
		out, err := runBody(t, "y := 0;\nwrite('before');\nx := 1 / y;\nwrite('after')")
		rtErr, ok := err.(*RuntimeError)
		if !ok {
			t.Fatalf("expected *RuntimeError, got %v", err)
		}
		if rtErr.Message != "Division by zero" {
			t.Errorf("unexpected message %q", rtErr.Message)
		}
		if rtErr.Line != 5 {
			t.Errorf("expected line 5, got %d", rtErr.Line)
		}
		if rtErr.Text != "/" {
			t.Errorf("expected operator text /, got %q", rtErr.Text)
		}
		if out != "before" {
			t.Errorf("expected output up to the error, got %q", out)
		}
	})

	t.Run("DIV by zero keeps its spelling", func(t *testing.T) {
		_, err := runBody(t, "y := 0;\nx := 1 DIV y")
		rtErr, ok := err.(*RuntimeError)
		if !ok {
			t.Fatalf("expected *RuntimeError, got %v", err)
		}
		if rtErr.Text != "DIV" {
			t.Errorf("expected operator text DIV, got %q", rtErr.Text)
		}
	})

	t.Run("mod by zero", func(t *testing.T) {
		_, err := runBody(t, "y := 0;\nx := 1 MOD y")
		if rtErr, ok := err.(*RuntimeError); !ok || rtErr.Message != "Division by zero" {
			t.Fatalf("expected division by zero, got %v", err)
		}
	})

	t.Run("error inside loop stops the loop", func(t *testing.T) {
		out, err := runBody(t, "i := 2;\nREPEAT\nwrite(i);\ni := i - 1;\nx := 1 / i\nUNTIL i < 1")
		if err == nil {
			t.Fatal("expected a runtime error")
		}
		if out != "21" {
			t.Errorf("expected two iterations of output, got %q", out)
		}
	})
}

// ---------------------------------------------------------------------------
// Test: diagnostic rendering of runtime errors
// ---------------------------------------------------------------------------
func TestRuntimeErrorDiagnostic(t *testing.T) {
	err := &RuntimeError{Line: 7, Message: "Division by zero", Text: "/"}
	diag := err.Diagnostic()
	if diag.Line != 7 || diag.Message != "Division by zero" || diag.Text != "/" {
		t.Errorf("unexpected diagnostic %+v", diag)
	}
	if err.Error() != "Division by zero" {
		t.Errorf("unexpected Error() %q", err.Error())
	}
}
