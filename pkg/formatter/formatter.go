// Package formatter pretty-prints an AST back to canonical source form.
package formatter

import (
	"strconv"
	"strings"

	"github.com/mpas-lang/mpas/pkg/ast"
)

const indent = "  "

// Precedence table for binary operators (higher = tighter binding)
var precedence = map[ast.BinaryOp]int{
	ast.OpEq: 1, ast.OpNe: 1, ast.OpLt: 1, ast.OpLe: 1, ast.OpGt: 1, ast.OpGe: 1,
	ast.OpAdd: 2, ast.OpSub: 2, ast.OpOr: 2,
	ast.OpMul: 3, ast.OpDiv: 3, ast.OpMod: 3, ast.OpAnd: 3,
}

func needsParens(child ast.Expr, parentOp ast.BinaryOp, isRight bool) bool {
	bin, ok := child.(*ast.Binary)
	if !ok {
		return false
	}
	childPrec := precedence[bin.Op]
	parentPrec := precedence[parentOp]
	if childPrec < parentPrec {
		return true
	}
	// Operators are left-associative; a same-precedence right child keeps
	// its parentheses.
	if childPrec == parentPrec && isRight {
		return true
	}
	return false
}

// Format pretty-prints a program back to source code. Keywords come out
// uppercase and blocks indent by two spaces; comments are not preserved.
func Format(program *ast.Program) string {
	var b strings.Builder
	b.WriteString("PROGRAM " + program.Name + ";\n")
	if program.Body != nil {
		b.WriteString("BEGIN\n")
		writeStmtList(&b, program.Body.Stmts, 1)
		b.WriteString("END.\n")
	}
	return b.String()
}

// HasComments reports whether source contains brace comments. Formatting
// drops comments, so callers may want to refuse sources that have them.
func HasComments(source string) bool {
	inString := false
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\'':
			inString = !inString
		case '\n':
			inString = false
		case '{':
			if !inString {
				return true
			}
		}
	}
	return false
}

func writeStmtList(b *strings.Builder, stmts []ast.Stmt, depth int) {
	for i, s := range stmts {
		b.WriteString(formatStmt(s, depth))
		if i < len(stmts)-1 {
			b.WriteString(";")
		}
		b.WriteString("\n")
	}
}

func formatStmt(s ast.Stmt, depth int) string {
	pad := strings.Repeat(indent, depth)

	switch n := s.(type) {
	case *ast.Compound:
		var b strings.Builder
		b.WriteString(pad + "BEGIN\n")
		writeStmtList(&b, n.Stmts, depth+1)
		b.WriteString(pad + "END")
		return b.String()

	case *ast.Assign:
		return pad + n.Target.Name + " := " + formatExpr(n.Value)

	case *ast.Loop:
		return formatLoop(n, depth)

	case *ast.If:
		var b strings.Builder
		b.WriteString(pad + "IF " + formatExpr(n.Cond) + " THEN\n")
		b.WriteString(formatStmt(n.Then, depth+1))
		if n.Else != nil {
			b.WriteString("\n" + pad + "ELSE\n")
			b.WriteString(formatStmt(n.Else, depth+1))
		}
		return b.String()

	case *ast.Write:
		keyword := "WRITE"
		if n.Ln {
			keyword = "WRITELN"
		}
		if n.Value == nil {
			return pad + keyword
		}
		arg := formatExpr(n.Value)
		if n.Width != nil {
			arg += ":" + formatExpr(n.Width)
			if n.Places != nil {
				arg += ":" + formatExpr(n.Places)
			}
		}
		return pad + keyword + " (" + arg + ")"

	default:
		return pad
	}
}

// formatLoop re-sugars the shared loop form. A loop whose body follows the
// test prints as WHILE (undoing the parser's NOT wrapper); a loop whose body
// precedes the test prints as REPEAT/UNTIL.
func formatLoop(n *ast.Loop, depth int) string {
	pad := strings.Repeat(indent, depth)
	var b strings.Builder

	if len(n.Before) == 0 {
		guard := n.Test
		if not, ok := guard.(*ast.Unary); ok && not.Op == ast.OpNot {
			guard = not.Operand
		}
		b.WriteString(pad + "WHILE " + formatExpr(guard) + " DO BEGIN\n")
		writeStmtList(&b, n.After, depth+1)
		b.WriteString(pad + "END")
		return b.String()
	}

	b.WriteString(pad + "REPEAT\n")
	writeStmtList(&b, n.Before, depth+1)
	b.WriteString(pad + "UNTIL " + formatExpr(n.Test))
	return b.String()
}

func formatExpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(n.Value, 10)

	case *ast.RealLiteral:
		return formatRealLiteral(n.Value)

	case *ast.StringLiteral:
		return "'" + strings.ReplaceAll(n.Value, "'", "''") + "'"

	case *ast.Variable:
		return n.Name

	case *ast.Unary:
		operand := formatExpr(n.Operand)
		if _, ok := n.Operand.(*ast.Binary); ok {
			operand = "(" + operand + ")"
		}
		switch n.Op {
		case ast.OpNot:
			return "NOT " + operand
		case ast.OpNeg:
			return "-" + operand
		default:
			return "+" + operand
		}

	case *ast.Binary:
		left := formatExpr(n.Left)
		if needsParens(n.Left, n.Op, false) {
			left = "(" + left + ")"
		}
		right := formatExpr(n.Right)
		if needsParens(n.Right, n.Op, true) {
			right = "(" + right + ")"
		}
		return left + " " + operatorText(n) + " " + right

	default:
		return ""
	}
}

// operatorText normalizes the operator spelling: word operators print
// uppercase, symbols as written. DIV keeps its source spelling rather than
// collapsing to '/'.
func operatorText(n *ast.Binary) string {
	text := n.Text
	if text == "" {
		text = string(n.Op)
	}
	if text[0] >= 'a' && text[0] <= 'z' || text[0] >= 'A' && text[0] <= 'Z' {
		return strings.ToUpper(text)
	}
	return text
}

func formatRealLiteral(value float64) string {
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}
