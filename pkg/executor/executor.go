package executor

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/mpas-lang/mpas/pkg/ast"
	"github.com/mpas-lang/mpas/pkg/diagnostics"
)

// RuntimeError represents an error raised while executing a program. Text is
// the source text of the offending construct.
type RuntimeError struct {
	Line    int
	Message string
	Text    string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Diagnostic converts the error into a diagnostic for reporting.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.ERuntime, e.Message, e.Line, e.Text)
}

type executor struct {
	out io.Writer
}

// Execute runs a parsed program, writing WRITE/WRITELN output to out. The
// program must have parsed without diagnostics; callers enforce that. The
// returned error, if any, is a *RuntimeError and execution stops at the
// statement that raised it.
func Execute(prog *ast.Program, out io.Writer) error {
	ex := &executor{out: out}
	if prog.Body == nil {
		return nil
	}
	return ex.exec(prog.Body)
}

func (ex *executor) exec(stmt ast.Stmt) error {
	if stmt == nil {
		return nil // empty statement
	}

	switch n := stmt.(type) {
	case *ast.Compound:
		for _, s := range n.Stmts {
			if err := ex.exec(s); err != nil {
				return err
			}
		}
		return nil

	case *ast.Assign:
		val, err := ex.eval(n.Value)
		if err != nil {
			return err
		}
		num, ok := val.(Real)
		if !ok {
			return &RuntimeError{Line: n.Line, Message: "Expecting a numeric value", Text: n.Target.Name}
		}
		n.Target.Entry.SetValue(num.Value)
		return nil

	case *ast.Loop:
		return ex.execLoop(n)

	case *ast.If:
		return ex.execIf(n)

	case *ast.Write:
		return ex.execWrite(n)

	default:
		return &RuntimeError{Line: stmt.NodeLine(), Message: "Unexpected node", Text: stmt.Kind()}
	}
}

// execLoop runs the shared loop form: the statements before the exit test,
// the test itself (true terminates), then the statements after, repeating.
func (ex *executor) execLoop(n *ast.Loop) error {
	for {
		for _, s := range n.Before {
			if err := ex.exec(s); err != nil {
				return err
			}
		}
		if n.Test != nil {
			val, err := ex.eval(n.Test)
			if err != nil {
				return err
			}
			b, ok := val.(Boolean)
			if !ok {
				return &RuntimeError{Line: n.TestLine, Message: "Expecting a boolean value", Text: exprText(n.Test)}
			}
			if b.Value {
				return nil
			}
		}
		for _, s := range n.After {
			if err := ex.exec(s); err != nil {
				return err
			}
		}
	}
}

func (ex *executor) execIf(n *ast.If) error {
	val, err := ex.eval(n.Cond)
	if err != nil {
		return err
	}
	b, ok := val.(Boolean)
	if !ok {
		return &RuntimeError{Line: n.Line, Message: "Expecting a boolean value", Text: exprText(n.Cond)}
	}
	if b.Value {
		return ex.exec(n.Then)
	}
	return ex.exec(n.Else)
}

func (ex *executor) execWrite(n *ast.Write) error {
	if n.Value != nil {
		val, err := ex.eval(n.Value)
		if err != nil {
			return err
		}

		// Field width and decimal places default to -1 (unset) and 0.
		width, err := ex.evalFormatSpec(n.Width, -1)
		if err != nil {
			return err
		}
		places, err := ex.evalFormatSpec(n.Places, 0)
		if err != nil {
			return err
		}

		switch v := val.(type) {
		case Real:
			// Numbers always print through a fixed-point verb; the default
			// spec yields "%.0f".
			format := "%"
			if width >= 0 {
				format += strconv.Itoa(width)
			}
			format += "." + strconv.Itoa(places) + "f"
			fmt.Fprintf(ex.out, format, v.Value)
		case Str:
			if width > 0 {
				fmt.Fprintf(ex.out, "%"+strconv.Itoa(width)+"s", v.Value)
			} else {
				fmt.Fprint(ex.out, v.Value)
			}
		default:
			return &RuntimeError{Line: n.Line, Message: "Expecting a printable value", Text: exprText(n.Value)}
		}
	}

	if n.Ln {
		fmt.Fprintln(ex.out)
	}
	return nil
}

// evalFormatSpec evaluates an optional field width or decimal places
// expression. The grammar restricts these to integer literals.
func (ex *executor) evalFormatSpec(expr ast.Expr, def int) (int, error) {
	if expr == nil {
		return def, nil
	}
	val, err := ex.eval(expr)
	if err != nil {
		return 0, err
	}
	num, ok := val.(Real)
	if !ok {
		return 0, &RuntimeError{Line: expr.NodeLine(), Message: "Expecting a numeric value", Text: exprText(expr)}
	}
	return int(num.Value), nil
}

func (ex *executor) eval(expr ast.Expr) (Value, error) {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return NewReal(float64(n.Value)), nil

	case *ast.RealLiteral:
		return NewReal(n.Value), nil

	case *ast.StringLiteral:
		return NewStr(n.Value), nil

	case *ast.Variable:
		return NewReal(n.Entry.Value()), nil

	case *ast.Unary:
		return ex.evalUnary(n)

	case *ast.Binary:
		return ex.evalBinary(n)

	default:
		return nil, &RuntimeError{Line: expr.NodeLine(), Message: "Unexpected node", Text: expr.Kind()}
	}
}

func (ex *executor) evalUnary(n *ast.Unary) (Value, error) {
	val, err := ex.eval(n.Operand)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ast.OpNot:
		b, ok := val.(Boolean)
		if !ok {
			return nil, &RuntimeError{Line: n.Line, Message: "Expecting a boolean value", Text: exprText(n.Operand)}
		}
		return NewBoolean(!b.Value), nil

	case ast.OpNeg, ast.OpPos:
		num, ok := val.(Real)
		if !ok {
			return nil, &RuntimeError{Line: n.Line, Message: "Expecting a numeric value", Text: exprText(n.Operand)}
		}
		if n.Op == ast.OpNeg {
			return NewReal(-num.Value), nil
		}
		return val, nil

	default:
		return nil, &RuntimeError{Line: n.Line, Message: "Unexpected operator", Text: string(n.Op)}
	}
}

func (ex *executor) evalBinary(n *ast.Binary) (Value, error) {
	// All binary operators evaluate both operands; AND and OR are eager.
	left, err := ex.eval(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := ex.eval(n.Right)
	if err != nil {
		return nil, err
	}

	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		lb, lok := left.(Boolean)
		rb, rok := right.(Boolean)
		if !lok || !rok {
			return nil, &RuntimeError{Line: n.Line, Message: "Expecting a boolean value", Text: n.Text}
		}
		if n.Op == ast.OpAnd {
			return NewBoolean(lb.Value && rb.Value), nil
		}
		return NewBoolean(lb.Value || rb.Value), nil
	}

	ln, lok := left.(Real)
	rn, rok := right.(Real)
	if !lok || !rok {
		return nil, &RuntimeError{Line: n.Line, Message: "Expecting a numeric value", Text: n.Text}
	}
	x, y := ln.Value, rn.Value

	switch n.Op {
	case ast.OpAdd:
		return NewReal(x + y), nil
	case ast.OpSub:
		return NewReal(x - y), nil
	case ast.OpMul:
		return NewReal(x * y), nil
	case ast.OpDiv:
		if y == 0 {
			return nil, &RuntimeError{Line: n.Line, Message: "Division by zero", Text: n.Text}
		}
		return NewReal(x / y), nil
	case ast.OpMod:
		if y == 0 {
			return nil, &RuntimeError{Line: n.Line, Message: "Division by zero", Text: n.Text}
		}
		return NewReal(math.Mod(x, y)), nil

	// Comparisons are exact on the underlying float64 bits.
	case ast.OpEq:
		return NewBoolean(x == y), nil
	case ast.OpNe:
		return NewBoolean(x != y), nil
	case ast.OpLt:
		return NewBoolean(x < y), nil
	case ast.OpLe:
		return NewBoolean(x <= y), nil
	case ast.OpGt:
		return NewBoolean(x > y), nil
	case ast.OpGe:
		return NewBoolean(x >= y), nil

	default:
		return nil, &RuntimeError{Line: n.Line, Message: "Unexpected operator", Text: n.Text}
	}
}

// exprText renders a short source-like form of an expression for runtime
// diagnostics.
func exprText(expr ast.Expr) string {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *ast.RealLiteral:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		return "'" + n.Value + "'"
	case *ast.Variable:
		return n.Name
	case *ast.Binary:
		return n.Text
	case *ast.Unary:
		return string(n.Op)
	default:
		return expr.Kind()
	}
}
