// Package session carries the single mutable-state bundle a real
// interactive shell would keep alive across commands: the memory image,
// register file, current symbol table, breakpoint set, and the read-only
// opcode table, plus the input device the interpreter consults.
// cmd/sicxe constructs one Session per process invocation; an interactive
// shell would instead keep one alive for its whole lifetime and thread it
// through every command.
package session

import (
	"fmt"

	"github.com/mujjingun/sicxe/bp"
	"github.com/mujjingun/sicxe/device"
	"github.com/mujjingun/sicxe/mem"
	"github.com/mujjingun/sicxe/opcode"
	"github.com/mujjingun/sicxe/reg"
	"github.com/mujjingun/sicxe/symtab"
)

// Session is the shared mutable state of one SIC/XE working session.
type Session struct {
	Mem     *mem.Image
	Reg     *reg.File
	BP      *bp.Set
	Table   *opcode.Table
	Dev     device.Device
	Symbols *symtab.Table
}

// New builds a fresh session over a freshly loaded opcode table. The
// memory image, register file, and breakpoint set start empty; the
// symbol table starts empty until the first successful assemble or load
// replaces it.
func New(table *opcode.Table) *Session {
	return &Session{
		Mem:     mem.New(),
		Reg:     reg.New(),
		BP:      bp.New(),
		Table:   table,
		Dev:     device.NewDeterministic(),
		Symbols: symtab.New(),
	}
}

// Reset zeros the memory image. It does not touch registers, breakpoints,
// or the symbol table -- those are owned by assemble/load/run, not by the
// memory editor's reset command.
func (s *Session) Reset() {
	s.Mem.Reset()
}

// regLine is the register-dump order: A/X/L/B/S/T on one line, then
// PC/SW.
var regLine = []reg.Name{reg.A, reg.X, reg.L, reg.B, reg.S, reg.T}

// DumpRegisters renders all eight registers on one line, for breakpoint
// and post-run reporting: A, X, L, B, S, T and PC as six-digit hex, SW as
// its signed decimal value.
func (s *Session) DumpRegisters() string {
	out := ""
	for _, r := range regLine {
		out += fmt.Sprintf("%s=%06X ", r, s.Reg.GetU(r))
	}
	out += fmt.Sprintf("PC=%06X SW=%d", s.Reg.GetU(reg.PC), s.Reg.Get(reg.SW))
	return out
}
