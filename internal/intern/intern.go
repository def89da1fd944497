// Package intern deduplicates repeated strings into small integer handles.
//
// A Table is owned by exactly one index build. Handles are only meaningful
// for the table that produced them; they must never be resolved against a
// table from a different build.
package intern

// Handle is an opaque reference to a string stored in a Table.
type Handle uint32

// Table stores each distinct string once and hands out stable handles.
// It is safe for concurrent reads once no more strings are interned.
type Table struct {
	handles map[string]Handle
	strings []string
}

// NewTable returns an empty interning table.
func NewTable() *Table {
	return &Table{handles: make(map[string]Handle)}
}

// Intern returns the handle for s, storing s if it has not been seen before.
// Equal strings always intern to the same handle within one table.
func (t *Table) Intern(s string) Handle {
	if h, ok := t.handles[s]; ok {
		return h
	}
	h := Handle(len(t.strings))
	t.strings = append(t.strings, s)
	t.handles[s] = h
	return h
}

// Get resolves a handle previously returned by Intern on this table.
func (t *Table) Get(h Handle) string {
	return t.strings[h]
}

// Len returns the number of distinct strings stored.
func (t *Table) Len() int {
	return len(t.strings)
}
