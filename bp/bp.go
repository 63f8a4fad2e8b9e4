// Package bp implements the interpreter's breakpoint set: a collection of
// PC addresses, enumerable in insertion order, consulted by the
// interpreter after every executed instruction.
package bp

// Set is a breakpoint collection. The zero value is ready to use.
type Set struct {
	addrs map[uint32]bool
	order []uint32
}

// New returns an empty breakpoint set.
func New() *Set {
	return &Set{addrs: make(map[uint32]bool)}
}

// Add inserts a breakpoint at addr. Adding the same address twice is a
// no-op; it does not appear twice in List.
func (s *Set) Add(addr uint32) {
	if s.addrs == nil {
		s.addrs = make(map[uint32]bool)
	}
	if s.addrs[addr] {
		return
	}
	s.addrs[addr] = true
	s.order = append(s.order, addr)
}

// Clear empties the set.
func (s *Set) Clear() {
	s.addrs = make(map[uint32]bool)
	s.order = nil
}

// Has reports whether addr is a breakpoint.
func (s *Set) Has(addr uint32) bool {
	return s.addrs[addr]
}

// List enumerates breakpoints in insertion order.
func (s *Set) List() []uint32 {
	out := make([]uint32, len(s.order))
	copy(out, s.order)
	return out
}
