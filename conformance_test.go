package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mpas-lang/mpas/internal/testutil"
	"github.com/mpas-lang/mpas/pkg/diagnostics"
	"github.com/mpas-lang/mpas/pkg/executor"
	"github.com/mpas-lang/mpas/pkg/runtime"
)

// TestConformance runs every scenario under testdata/scenarios. Each
// scenario pairs a program with the expected exit code, stdout, and stderr
// of the equivalent CLI invocation.
func TestConformance(t *testing.T) {
	dirs, err := testutil.ListScenarios(testutil.ScenariosDir)
	if err != nil {
		t.Fatalf("failed to list scenarios: %v", err)
	}
	if len(dirs) == 0 {
		t.Fatal("no scenarios found")
	}

	for _, dir := range dirs {
		dir := dir
		t.Run(filepath.Base(dir), func(t *testing.T) {
			scenario, err := testutil.LoadScenario(dir)
			if err != nil {
				t.Fatalf("failed to load scenario: %v", err)
			}
			if len(scenario.Cmd) < 2 {
				t.Fatalf("scenario cmd must name a subcommand and a program file, got %v", scenario.Cmd)
			}

			source, filename, err := testutil.ReadProgramFile(dir, scenario.Cmd)
			if err != nil {
				t.Fatalf("failed to read program file: %v", err)
			}

			switch scenario.Cmd[0] {
			case "run":
				runRunScenario(t, source, filename, scenario)
			case "check":
				runCheckScenario(t, source, filename, scenario)
			default:
				t.Fatalf("unsupported command: %s", scenario.Cmd[0])
			}
		})
	}
}

func runRunScenario(t *testing.T, source, filename string, scenario *testutil.Scenario) {
	t.Helper()

	var out bytes.Buffer
	rt := runtime.New(runtime.WithOutput(&out))
	_, err := rt.Run(source, filename)

	exitCode := 0
	stderr := ""
	if err != nil {
		switch e := err.(type) {
		case *runtime.DiagnosticError:
			exitCode = 2
			stderr = diagnostics.FormatDiagnostics(e.Diagnostics, false)
		case *executor.RuntimeError:
			exitCode = 3
			stderr = diagnostics.FormatDiagnostic(e.Diagnostic(), false)
		default:
			t.Fatalf("unexpected error type: %v", err)
		}
	}

	checkExpectations(t, scenario, exitCode, out.String(), stderr)
}

func runCheckScenario(t *testing.T, source, filename string, scenario *testutil.Scenario) {
	t.Helper()

	rt := runtime.New()
	diags := rt.Check(source, filename)

	exitCode := 0
	stderr := ""
	if len(diags) > 0 {
		exitCode = 2
		stderr = diagnostics.FormatDiagnostics(diags, false)
	}

	checkExpectations(t, scenario, exitCode, "", stderr)
}

func checkExpectations(t *testing.T, scenario *testutil.Scenario, exitCode int, stdout, stderr string) {
	t.Helper()

	if exitCode != scenario.Expect.ExitCode {
		t.Errorf("exit code: got %d, want %d (stderr: %q)", exitCode, scenario.Expect.ExitCode, stderr)
	}
	if scenario.Expect.Stdout != "" && stdout != scenario.Expect.Stdout {
		t.Errorf("stdout: got %q, want %q", stdout, scenario.Expect.Stdout)
	}
	if scenario.Expect.StdoutContains != "" && !strings.Contains(stdout, scenario.Expect.StdoutContains) {
		t.Errorf("stdout %q does not contain %q", stdout, scenario.Expect.StdoutContains)
	}
	if scenario.Expect.StderrContains != "" && !strings.Contains(stderr, scenario.Expect.StderrContains) {
		t.Errorf("stderr %q does not contain %q", stderr, scenario.Expect.StderrContains)
	}
}
