// Package parser implements the mini-Pascal recursive-descent parser.
package parser

import (
	"github.com/mpas-lang/mpas/pkg/ast"
	"github.com/mpas-lang/mpas/pkg/diagnostics"
	"github.com/mpas-lang/mpas/pkg/scanner"
	"github.com/mpas-lang/mpas/pkg/symtab"
)

// Tokens that can start a statement.
var statementStarters = map[scanner.TokenType]bool{
	scanner.TokBegin:   true,
	scanner.TokIdent:   true,
	scanner.TokRepeat:  true,
	scanner.TokWhile:   true,
	scanner.TokIf:      true,
	scanner.TokWrite:   true,
	scanner.TokWriteln: true,
}

// Tokens that can immediately follow a statement. Error recovery skips to
// one of these, which bounds a cascade to the malformed statement.
var statementFollowers = map[scanner.TokenType]bool{
	scanner.TokSemicolon: true,
	scanner.TokEnd:       true,
	scanner.TokUntil:     true,
	scanner.TokEOF:       true,
}

var relationalOps = map[scanner.TokenType]ast.BinaryOp{
	scanner.TokEquals:        ast.OpEq,
	scanner.TokLess:          ast.OpLt,
	scanner.TokLessEquals:    ast.OpLe,
	scanner.TokGreaterEquals: ast.OpGe,
	scanner.TokGreater:       ast.OpGt,
	scanner.TokNotEquals:     ast.OpNe,
}

var simpleExprOps = map[scanner.TokenType]ast.BinaryOp{
	scanner.TokPlus:  ast.OpAdd,
	scanner.TokMinus: ast.OpSub,
	scanner.TokOr:    ast.OpOr,
}

// DIV maps to the same real-division node as '/'. The operator text keeps
// the source spelling so diagnostics show what was written.
var termOps = map[scanner.TokenType]ast.BinaryOp{
	scanner.TokStar:  ast.OpMul,
	scanner.TokSlash: ast.OpDiv,
	scanner.TokDiv:   ast.OpDiv,
	scanner.TokMod:   ast.OpMod,
	scanner.TokAnd:   ast.OpAnd,
}

// Parser consumes tokens from a Scanner with one token of lookahead and
// builds the AST, entering variables into the symbol table as it goes.
type Parser struct {
	sc      *scanner.Scanner
	tab     *symtab.Table
	current scanner.Token
	line    int
	diags   []diagnostics.Diagnostic
}

// New creates a Parser over the given scanner and symbol table.
func New(sc *scanner.Scanner, tab *symtab.Table) *Parser {
	return &Parser{sc: sc, tab: tab, line: 1}
}

// Parse scans and parses source into a program. It returns the program
// together with any accumulated diagnostics; callers must not execute the
// program unless the diagnostics slice is empty.
func Parse(source, filename string, tab *symtab.Table) (*ast.Program, []diagnostics.Diagnostic) {
	p := New(scanner.New(source, filename), tab)
	prog := p.ParseProgram()
	return prog, p.diags
}

// ErrorCount returns the number of syntax and semantic errors seen so far.
func (p *Parser) ErrorCount() int { return len(p.diags) }

// Diagnostics returns the accumulated diagnostics.
func (p *Parser) Diagnostics() []diagnostics.Diagnostic { return p.diags }

func (p *Parser) advance() {
	p.current = p.sc.NextToken()
}

// syntaxError records a diagnostic, then recovers by skipping the rest of
// the statement up to a statement follower token.
func (p *Parser) syntaxError(message string) {
	p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.ESyntax, message, p.line, p.current.Text))
	for !statementFollowers[p.current.Type] {
		p.advance()
	}
}

// semanticError records a diagnostic without skipping; parsing continues
// from the current token.
func (p *Parser) semanticError(message string) {
	p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.ESemantic, message, p.line, p.current.Text))
}

// ParseProgram parses `PROGRAM name ; CompoundStatement .` and returns the
// root node. On malformed input the returned program may have a nil body;
// the diagnostics report what went wrong.
func (p *Parser) ParseProgram() *ast.Program {
	p.advance() // first token
	p.line = p.current.Line

	prog := &ast.Program{Line: p.current.Line}

	if p.current.Type == scanner.TokProgram {
		p.advance()
	} else {
		p.syntaxError("Expecting PROGRAM")
	}

	if p.current.Type == scanner.TokIdent {
		prog.Name = p.current.Text
		p.tab.Enter(prog.Name)
		p.advance()
	} else {
		p.syntaxError("Expecting program name")
	}

	if p.current.Type == scanner.TokSemicolon {
		p.advance()
	} else {
		p.syntaxError("Missing ;")
	}

	if p.current.Type == scanner.TokBegin {
		prog.Body = p.parseCompoundStatement()
	} else {
		p.syntaxError("Expecting BEGIN")
	}

	if p.current.Type != scanner.TokPeriod {
		p.syntaxError("Expecting .")
	}
	return prog
}

// --- Statements ---

func (p *Parser) parseStatement() ast.Stmt {
	p.line = p.current.Line

	switch p.current.Type {
	case scanner.TokIdent:
		return p.parseAssignmentStatement()
	case scanner.TokBegin:
		return p.parseCompoundStatement()
	case scanner.TokRepeat:
		return p.parseRepeatStatement()
	case scanner.TokWhile:
		return p.parseWhileStatement()
	case scanner.TokIf:
		return p.parseIfStatement()
	case scanner.TokWrite:
		return p.parseWriteStatement(false)
	case scanner.TokWriteln:
		return p.parseWriteStatement(true)
	case scanner.TokSemicolon:
		return nil // empty statement
	default:
		p.syntaxError("Unexpected token")
		return nil
	}
}

func (p *Parser) parseStatementList(terminal scanner.TokenType) []ast.Stmt {
	var stmts []ast.Stmt

	for p.current.Type != terminal && p.current.Type != scanner.TokEOF {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}

		// A semicolon separates statements; runs of semicolons are empty
		// statements.
		if p.current.Type == scanner.TokSemicolon {
			for p.current.Type == scanner.TokSemicolon {
				p.advance()
			}
		} else if statementStarters[p.current.Type] {
			p.syntaxError("Missing ;")
		} else if p.current.Type != terminal && p.current.Type != scanner.TokEOF {
			p.syntaxError("Unexpected token")
			// Recovery may stop on a follower that does not end this list
			// (e.g. UNTIL inside BEGIN..END); consume it so the scan makes
			// progress.
			if statementFollowers[p.current.Type] && p.current.Type != scanner.TokSemicolon {
				p.advance()
			}
		}
	}
	return stmts
}

func (p *Parser) parseAssignmentStatement() ast.Stmt {
	line := p.line

	// Assignment targets are declared on first use.
	name := p.current.Text
	entry, ok := p.tab.Lookup(name)
	if !ok {
		entry = p.tab.Enter(name)
	}
	target := &ast.Variable{Line: p.current.Line, Name: name, Entry: entry}
	p.advance() // consume the LHS variable

	if p.current.Type == scanner.TokColonEquals {
		p.advance()
	} else {
		p.syntaxError("Missing :=")
	}

	return &ast.Assign{Line: line, Target: target, Value: p.parseExpression()}
}

func (p *Parser) parseCompoundStatement() *ast.Compound {
	node := &ast.Compound{Line: p.current.Line}
	p.advance() // consume BEGIN

	node.Stmts = p.parseStatementList(scanner.TokEnd)

	if p.current.Type == scanner.TokEnd {
		p.advance()
	} else {
		p.syntaxError("Expecting END")
	}
	return node
}

func (p *Parser) parseRepeatStatement() ast.Stmt {
	loop := &ast.Loop{Line: p.line}
	p.advance() // consume REPEAT

	// The body runs before the exit test: a post-test loop.
	loop.Before = p.parseStatementList(scanner.TokUntil)

	if p.current.Type == scanner.TokUntil {
		loop.TestLine = p.current.Line
		p.line = p.current.Line
		p.advance() // consume UNTIL
		loop.Test = p.parseExpression()
	} else {
		p.syntaxError("Expecting UNTIL")
	}
	return loop
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	loop := &ast.Loop{Line: p.line}
	p.advance() // consume WHILE

	// The NOT-wrapped guard is the loop's exit test and runs before the
	// body, preserving pre-test WHILE semantics under the shared loop form.
	loop.TestLine = p.current.Line
	p.line = p.current.Line
	loop.Test = &ast.Unary{Line: loop.TestLine, Op: ast.OpNot, Operand: p.parseExpression()}

	if p.current.Type == scanner.TokDo {
		p.advance()
	} else {
		p.syntaxError("Expecting DO")
	}
	if p.current.Type == scanner.TokBegin {
		p.advance()
	} else {
		p.syntaxError("Expecting BEGIN")
	}

	loop.After = p.parseStatementList(scanner.TokEnd)

	if p.current.Type == scanner.TokEnd {
		p.advance()
	} else {
		p.syntaxError("Expecting END")
	}
	return loop
}

func (p *Parser) parseIfStatement() ast.Stmt {
	node := &ast.If{Line: p.line}
	p.advance() // consume IF

	node.Cond = p.parseExpression()

	if p.current.Type == scanner.TokThen {
		p.advance()
	} else {
		p.syntaxError("Expecting THEN")
	}

	node.Then = p.parseStatement()

	// ELSE binds to the nearest IF.
	if p.current.Type == scanner.TokElse {
		p.advance()
		node.Else = p.parseStatement()
	}
	return node
}

func (p *Parser) parseWriteStatement(ln bool) ast.Stmt {
	node := &ast.Write{Line: p.line, Ln: ln}
	p.advance() // consume WRITE or WRITELN

	// WRITELN may stand alone; WRITE requires an argument list.
	if !ln || p.current.Type == scanner.TokLParen {
		p.parseWriteArguments(node)
	}
	if !ln && node.Value == nil {
		p.syntaxError("Invalid WRITE statement")
	}
	return node
}

func (p *Parser) parseWriteArguments(node *ast.Write) {
	if p.current.Type == scanner.TokLParen {
		p.advance()
	} else {
		p.syntaxError("Missing left parenthesis")
		return
	}

	switch p.current.Type {
	case scanner.TokIdent:
		node.Value = p.parseVariable()
	case scanner.TokString:
		node.Value = &ast.StringLiteral{Line: p.current.Line, Value: p.current.StrVal}
		p.advance()
	default:
		p.syntaxError("Invalid WRITE or WRITELN statement")
		return
	}

	// Optional field width and count of decimal places, both restricted to
	// integer literals by the grammar.
	if p.current.Type == scanner.TokColon {
		p.advance()
		if p.current.Type == scanner.TokInteger {
			node.Width = p.parseIntegerConstant()
			if p.current.Type == scanner.TokColon {
				p.advance()
				if p.current.Type == scanner.TokInteger {
					node.Places = p.parseIntegerConstant()
				} else {
					p.syntaxError("Invalid count of decimal places")
				}
			}
		} else {
			p.syntaxError("Invalid field width")
		}
	}

	if p.current.Type == scanner.TokRParen {
		p.advance()
	} else {
		p.syntaxError("Missing right parenthesis")
	}
}

// --- Expressions ---

func (p *Parser) parseExpression() ast.Expr {
	left := p.parseSimpleExpression()

	if op, ok := relationalOps[p.current.Type]; ok {
		tok := p.current
		p.advance() // consume relational operator
		return &ast.Binary{
			Line:  tok.Line,
			Op:    op,
			Text:  tok.Text,
			Left:  left,
			Right: p.parseSimpleExpression(),
		}
	}
	return left
}

func (p *Parser) parseSimpleExpression() ast.Expr {
	var left ast.Expr

	// Optional leading sign.
	if p.current.Type == scanner.TokPlus || p.current.Type == scanner.TokMinus {
		tok := p.current
		p.advance()
		op := ast.OpPos
		if tok.Type == scanner.TokMinus {
			op = ast.OpNeg
		}
		left = &ast.Unary{Line: tok.Line, Op: op, Operand: p.parseTerm()}
	} else {
		left = p.parseTerm()
	}

	for {
		op, ok := simpleExprOps[p.current.Type]
		if !ok {
			return left
		}
		tok := p.current
		p.advance() // consume the operator
		left = &ast.Binary{
			Line:  tok.Line,
			Op:    op,
			Text:  tok.Text,
			Left:  left,
			Right: p.parseTerm(),
		}
	}
}

func (p *Parser) parseTerm() ast.Expr {
	left := p.parseFactor()

	for {
		op, ok := termOps[p.current.Type]
		if !ok {
			return left
		}
		tok := p.current
		p.advance() // consume the operator
		left = &ast.Binary{
			Line:  tok.Line,
			Op:    op,
			Text:  tok.Text,
			Left:  left,
			Right: p.parseFactor(),
		}
	}
}

func (p *Parser) parseFactor() ast.Expr {
	switch p.current.Type {
	case scanner.TokIdent:
		return p.parseVariable()

	case scanner.TokInteger:
		return p.parseIntegerConstant()

	case scanner.TokReal:
		node := &ast.RealLiteral{Line: p.current.Line, Value: p.current.RealVal}
		p.advance()
		return node

	case scanner.TokLParen:
		p.advance() // consume (
		expr := p.parseExpression()
		if p.current.Type == scanner.TokRParen {
			p.advance()
		} else {
			p.syntaxError("Expecting )")
		}
		return expr

	case scanner.TokNot:
		tok := p.current
		p.advance() // consume NOT
		return &ast.Unary{Line: tok.Line, Op: ast.OpNot, Operand: p.parseExpression()}

	default:
		p.syntaxError("Unexpected token")
		return nil
	}
}

// parseVariable resolves an identifier read. An undeclared identifier is a
// semantic error; a sentinel entry is bound so the node never carries a nil
// reference, and the accumulated error count keeps the program from running.
func (p *Parser) parseVariable() ast.Expr {
	name := p.current.Text
	entry, ok := p.tab.Lookup(name)
	if !ok {
		p.semanticError("Undeclared identifier")
		entry = p.tab.Enter(name)
	}

	node := &ast.Variable{Line: p.current.Line, Name: name, Entry: entry}
	p.advance() // consume the identifier
	return node
}

func (p *Parser) parseIntegerConstant() ast.Expr {
	node := &ast.IntLiteral{Line: p.current.Line, Value: p.current.IntVal}
	p.advance() // consume the number
	return node
}
