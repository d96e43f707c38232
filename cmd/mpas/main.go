// Command mpas is the mini-Pascal interpreter CLI entry point.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mpas-lang/mpas/pkg/diagnostics"
	"github.com/mpas-lang/mpas/pkg/executor"
	"github.com/mpas-lang/mpas/pkg/formatter"
	"github.com/mpas-lang/mpas/pkg/runtime"
)

// Exit codes: 0 success, 1 usage or I/O error, 2 syntax or semantic errors,
// 3 runtime error.
const (
	exitOK      = 0
	exitUsage   = 1
	exitParse   = 2
	exitRuntime = 3
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: mpas <command> [options]")
		fmt.Fprintln(os.Stderr, "commands: run, check, fmt")
		os.Exit(exitUsage)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		os.Exit(exitUsage)
	}
}

func cmdRun(args []string) int {
	var file string
	asJSON := false
	showSummary := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--json":
			asJSON = true
		case "--summary":
			showSummary = true
		default:
			if !strings.HasPrefix(args[i], "-") || args[i] == "-" {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: mpas run <file> [--json] [--summary]")
		return exitUsage
	}

	source, filename, exitCode := readSource(file, asJSON)
	if exitCode != 0 {
		return exitCode
	}

	rt := runtime.New()
	summary, err := rt.Run(source, filename)

	code := exitOK
	if err != nil {
		switch e := err.(type) {
		case *runtime.DiagnosticError:
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(e.Diagnostics, asJSON))
			code = exitParse
		case *executor.RuntimeError:
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(e.Diagnostic(), asJSON))
			code = exitRuntime
		default:
			fmt.Fprintln(os.Stderr, err.Error())
			code = exitUsage
		}
	}

	if showSummary && summary != nil {
		fmt.Fprintf(os.Stderr, "%d syntax errors, %d semantic errors, %d variables\n",
			summary.SyntaxErrors, summary.SemanticErrors, summary.Variables)
	}
	return code
}

func cmdCheck(args []string) int {
	var file string
	asJSON := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--json":
			asJSON = true
		default:
			if !strings.HasPrefix(args[i], "-") || args[i] == "-" {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: mpas check <file> [--json]")
		return exitUsage
	}

	source, filename, exitCode := readSource(file, asJSON)
	if exitCode != 0 {
		return exitCode
	}

	rt := runtime.New()
	diags := rt.Check(source, filename)
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, asJSON))
		return exitParse
	}

	if asJSON {
		fmt.Println("[]")
	} else {
		fmt.Println("No errors found.")
	}
	return exitOK
}

func cmdFmt(args []string) int {
	var file string
	write := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--write":
			write = true
		default:
			if !strings.HasPrefix(args[i], "-") || args[i] == "-" {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: mpas fmt <file> [--write]")
		return exitUsage
	}
	if write && file == "-" {
		fmt.Fprintln(os.Stderr, "error: --write requires a file")
		return exitUsage
	}

	source, filename, exitCode := readSource(file, false)
	if exitCode != 0 {
		return exitCode
	}

	rt := runtime.New()
	formatted, err := rt.Format(source, filename)
	if err != nil {
		if diagErr, ok := err.(*runtime.DiagnosticError); ok {
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, false))
			return exitParse
		}
		fmt.Fprintln(os.Stderr, err.Error())
		return exitParse
	}

	if formatter.HasComments(source) {
		fmt.Fprintln(os.Stderr, "warning: comments are not preserved by the formatter")
	}

	if write {
		if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error writing file: %s\n", err)
			return exitUsage
		}
	} else {
		fmt.Print(formatted)
	}
	return exitOK
}

// readSource reads a program from a file, or from stdin when file is "-".
func readSource(file string, asJSON bool) (string, string, int) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading stdin: %s\n", err)
			return "", "", exitUsage
		}
		return string(data), "<stdin>", 0
	}

	source, err := os.ReadFile(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), 0, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, asJSON))
		return "", "", exitUsage
	}
	return string(source), file, 0
}
