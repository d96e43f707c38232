// Package symtab implements the flat symbol table shared by the parser and
// executor. There is a single scope: entries live for the whole program run.
package symtab

import "strings"

// Entry identifies one declared variable and holds its current value.
// Values are always numeric in this language; the value is zero until the
// first assignment.
type Entry struct {
	name  string
	value float64
}

// Name returns the name the entry was declared with.
func (e *Entry) Name() string { return e.name }

// Value returns the entry's current value.
func (e *Entry) Value() float64 { return e.value }

// SetValue stores a new value into the entry.
func (e *Entry) SetValue(v float64) { e.value = v }

// Table maps lowercased identifier names to entries.
type Table struct {
	entries map[string]*Entry
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Lookup finds an entry by name (case-insensitive).
func (t *Table) Lookup(name string) (*Entry, bool) {
	e, ok := t.entries[strings.ToLower(name)]
	return e, ok
}

// Enter creates a fresh entry for name and returns it. The entry's value is
// zero. Entering a name that already exists replaces the old entry.
func (t *Table) Enter(name string) *Entry {
	e := &Entry{name: name}
	t.entries[strings.ToLower(name)] = e
	return e
}

// Size returns the number of entries in the table.
func (t *Table) Size() int { return len(t.entries) }
