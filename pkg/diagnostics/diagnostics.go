// Package diagnostics defines the diagnostic types shared by the parser,
// executor, and CLI.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Diagnostic code constants.
const (
	ESyntax   = "E_SYNTAX"
	ESemantic = "E_SEMANTIC"
	ERuntime  = "E_RUNTIME"
	EIO       = "E_IO"
)

// Diagnostic represents a syntax, semantic, or runtime diagnostic. Line is
// the 1-based source line; Text is the offending token or node text.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Text    string `json:"text,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, line int, text string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Line:    line,
		Text:    text,
	}
}

// FormatDiagnostic formats a single diagnostic for display. The plain form
// is the interpreter's canonical error line; asJSON emits a machine form.
func FormatDiagnostic(d Diagnostic, asJSON bool) string {
	if asJSON {
		b, _ := json.Marshal(d)
		return string(b)
	}
	switch d.Code {
	case ESyntax:
		return fmt.Sprintf("SYNTAX ERROR at line %d: %s at '%s'", d.Line, d.Message, d.Text)
	case ESemantic:
		return fmt.Sprintf("SEMANTIC ERROR at line %d: %s at '%s'", d.Line, d.Message, d.Text)
	case ERuntime:
		return fmt.Sprintf("RUNTIME ERROR at line %d: %s: %s", d.Line, d.Message, d.Text)
	default:
		return fmt.Sprintf("ERROR: %s", d.Message)
	}
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, asJSON bool) string {
	if asJSON {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, false)
	}
	return strings.Join(parts, "\n")
}
