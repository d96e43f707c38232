// Package ast defines the mini-Pascal AST node types.
package ast

import "github.com/mpas-lang/mpas/pkg/symtab"

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeLine() int
}

// BinaryOp represents a binary operator.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "mod"
	OpAnd BinaryOp = "and"
	OpOr  BinaryOp = "or"
	OpEq  BinaryOp = "="
	OpLt  BinaryOp = "<"
	OpLe  BinaryOp = "<="
	OpGe  BinaryOp = ">="
	OpGt  BinaryOp = ">"
	OpNe  BinaryOp = "<>"
)

// UnaryOp represents a unary operator.
type UnaryOp string

const (
	OpNot UnaryOp = "not"
	OpNeg UnaryOp = "-"
	OpPos UnaryOp = "+"
)

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Literal Expressions ---

type IntLiteral struct {
	Line  int
	Value int64
}

func (n *IntLiteral) Kind() string  { return "IntLiteral" }
func (n *IntLiteral) NodeLine() int { return n.Line }
func (n *IntLiteral) exprNode()     {}

type RealLiteral struct {
	Line  int
	Value float64
}

func (n *RealLiteral) Kind() string  { return "RealLiteral" }
func (n *RealLiteral) NodeLine() int { return n.Line }
func (n *RealLiteral) exprNode()     {}

type StringLiteral struct {
	Line  int
	Value string
}

func (n *StringLiteral) Kind() string  { return "StringLiteral" }
func (n *StringLiteral) NodeLine() int { return n.Line }
func (n *StringLiteral) exprNode()     {}

// --- Variables ---

// Variable is a leaf node referencing a symbol table entry. The entry is a
// non-owning reference; entries outlive the tree.
type Variable struct {
	Line  int
	Name  string
	Entry *symtab.Entry
}

func (n *Variable) Kind() string  { return "Variable" }
func (n *Variable) NodeLine() int { return n.Line }
func (n *Variable) exprNode()     {}

// --- Binary & Unary Expressions ---

// Binary covers arithmetic (+ - * / mod), boolean (and or), and relational
// (= < <= >= > <>) operators. Text preserves the operator as spelled in the
// source (DIV keeps its spelling even though it maps to OpDiv).
type Binary struct {
	Line  int
	Op    BinaryOp
	Text  string
	Left  Expr
	Right Expr
}

func (n *Binary) Kind() string  { return "Binary" }
func (n *Binary) NodeLine() int { return n.Line }
func (n *Binary) exprNode()     {}

type Unary struct {
	Line    int
	Op      UnaryOp
	Operand Expr
}

func (n *Unary) Kind() string  { return "Unary" }
func (n *Unary) NodeLine() int { return n.Line }
func (n *Unary) exprNode()     {}

// --- Statements ---

type Compound struct {
	Line  int
	Stmts []Stmt
}

func (n *Compound) Kind() string  { return "Compound" }
func (n *Compound) NodeLine() int { return n.Line }
func (n *Compound) stmtNode()     {}

type Assign struct {
	Line   int
	Target *Variable
	Value  Expr
}

func (n *Assign) Kind() string  { return "Assign" }
func (n *Assign) NodeLine() int { return n.Line }
func (n *Assign) stmtNode()     {}

// Loop is the shared runtime form of WHILE and REPEAT. Statements run in
// order: Before, then the exit test (true terminates the loop), then After,
// then the cycle repeats. WHILE produces an empty Before and a NOT-wrapped
// Test; REPEAT puts its whole body in Before with an empty After.
type Loop struct {
	Line     int
	Before   []Stmt
	Test     Expr
	TestLine int
	After    []Stmt
}

func (n *Loop) Kind() string  { return "Loop" }
func (n *Loop) NodeLine() int { return n.Line }
func (n *Loop) stmtNode()     {}

// If executes Then when Cond is true, otherwise Else when present.
// Else is nil when the statement has no ELSE branch.
type If struct {
	Line int
	Cond Expr
	Then Stmt
	Else Stmt
}

func (n *If) Kind() string  { return "If" }
func (n *If) NodeLine() int { return n.Line }
func (n *If) stmtNode()     {}

// Write covers both WRITE and WRITELN (Ln). Value is nil only for an
// argument-less WRITELN. Width and Places are integer literals by grammar;
// they are evaluated at print time.
type Write struct {
	Line   int
	Ln     bool
	Value  Expr
	Width  Expr
	Places Expr
}

func (n *Write) Kind() string  { return "Write" }
func (n *Write) NodeLine() int { return n.Line }
func (n *Write) stmtNode()     {}

// --- Program ---

type Program struct {
	Line int
	Name string
	Body *Compound
}

func (n *Program) Kind() string  { return "Program" }
func (n *Program) NodeLine() int { return n.Line }
