// Package runtime provides the top-level interpreter orchestrator.
package runtime

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mpas-lang/mpas/pkg/diagnostics"
	"github.com/mpas-lang/mpas/pkg/executor"
	"github.com/mpas-lang/mpas/pkg/formatter"
	"github.com/mpas-lang/mpas/pkg/parser"
	"github.com/mpas-lang/mpas/pkg/symtab"
)

// Summary holds counters reported after a run.
type Summary struct {
	SyntaxErrors   int
	SemanticErrors int
	Variables      int
}

// Runtime wires together the scanner, parser, and executor. A Runtime may
// run any number of programs; each run gets a fresh symbol table.
type Runtime struct {
	out io.Writer
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithOutput directs program output (WRITE, WRITELN) to w.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// New creates a new Runtime with the given options. Program output goes to
// stdout by default.
func New(opts ...Option) *Runtime {
	rt := &Runtime{out: os.Stdout}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Run parses and executes a program. A program that parsed with any errors
// is never executed; the diagnostics come back wrapped in a DiagnosticError.
// A runtime failure comes back as an *executor.RuntimeError.
func (rt *Runtime) Run(source, filename string) (*Summary, error) {
	tab := symtab.New()
	program, diags := parser.Parse(source, filename, tab)

	summary := &Summary{Variables: tab.Size()}
	for _, d := range diags {
		if d.Code == diagnostics.ESemantic {
			summary.SemanticErrors++
		} else {
			summary.SyntaxErrors++
		}
	}
	if len(diags) > 0 {
		return summary, &DiagnosticError{Diagnostics: diags}
	}

	if err := executor.Execute(program, rt.out); err != nil {
		return summary, err
	}
	return summary, nil
}

// Check parses a program without executing it and returns its diagnostics.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	_, diags := parser.Parse(source, filename, symtab.New())
	return diags
}

// Format parses and pretty-prints a program in canonical form.
func (rt *Runtime) Format(source, filename string) (string, error) {
	program, diags := parser.Parse(source, filename, symtab.New())
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.Format(program), nil
}

// DiagnosticError wraps parse diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}
