// Package executor implements the tree-walking executor.
package executor

// Value is the interface for all runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	value() // sealed marker
}

// Real represents a numeric value. All numbers in the language are reals;
// integer literals widen on evaluation.
type Real struct {
	Value float64
}

func (Real) value() {}

// Boolean represents a boolean value. Booleans arise only from relational
// and boolean operators; they cannot be stored in variables or printed.
type Boolean struct {
	Value bool
}

func (Boolean) value() {}

// Str represents a string value. Strings arise only from string literals in
// WRITE and WRITELN argument lists.
type Str struct {
	Value string
}

func (Str) value() {}

// NewReal creates a numeric value.
func NewReal(n float64) Value {
	return Real{Value: n}
}

// NewBoolean creates a boolean value.
func NewBoolean(b bool) Value {
	return Boolean{Value: b}
}

// NewStr creates a string value.
func NewStr(s string) Value {
	return Str{Value: s}
}
