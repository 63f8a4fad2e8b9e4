// Package symtab implements the label -> address symbol table shared by
// the assembler and the linking loader.
package symtab

import "sort"

// Table maps uppercase labels (<= 6 characters) to 24-bit addresses.
type Table struct {
	addrs map[string]uint32
	order []string
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{addrs: make(map[string]uint32)}
}

// Insert adds label -> addr. ok is false if label is already present; the
// table is left unchanged in that case (callers treat this as a
// duplicate-symbol fault).
func (t *Table) Insert(label string, addr uint32) bool {
	if _, exists := t.addrs[label]; exists {
		return false
	}
	t.addrs[label] = addr
	t.order = append(t.order, label)
	return true
}

// Find looks up a label's address.
func (t *Table) Find(label string) (uint32, bool) {
	addr, ok := t.addrs[label]
	return addr, ok
}

// Len reports the number of symbols in the table.
func (t *Table) Len() int {
	return len(t.addrs)
}

// Symbol is one (label, address) pair as returned by IterSorted.
type Symbol struct {
	Label string
	Addr  uint32
}

// IterSorted returns all symbols ordered lexically by label, for the
// `symbol` listing command.
func (t *Table) IterSorted() []Symbol {
	labels := make([]string, 0, len(t.addrs))
	for l := range t.addrs {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	out := make([]Symbol, len(labels))
	for i, l := range labels {
		out[i] = Symbol{Label: l, Addr: t.addrs[l]}
	}
	return out
}
