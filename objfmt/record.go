// Package objfmt implements the SIC/XE object file grammar: H/D/R/T/M/E
// records, shared by the assembler (which writes them) and the linking
// loader (which parses them back).
package objfmt

import (
	"fmt"
	"strings"
)

// MaxTextBytes is the largest number of bytes a single T record may carry
// (0x1E = 30).
const MaxTextBytes = 0x1E

// padName pads (or truncates) a section/external name to exactly 6
// characters, space-padded on the right.
func padName(name string) string {
	if len(name) > 6 {
		name = name[:6]
	}
	return name + strings.Repeat(" ", 6-len(name))
}

// FormatHeader builds an "H" record.
func FormatHeader(name string, start, length uint32) string {
	return fmt.Sprintf("H%s%06X%06X", padName(name), start&0xFFFFFF, length&0xFFFFFF)
}

// ExtDef is one (name, offset) pair for a "D" record.
type ExtDef struct {
	Name   string
	Offset uint32
}

// FormatDefine builds a "D" record from one or more external definitions.
func FormatDefine(defs []ExtDef) string {
	var b strings.Builder
	b.WriteByte('D')
	for _, d := range defs {
		fmt.Fprintf(&b, "%s%06X", padName(d.Name), d.Offset&0xFFFFFF)
	}
	return b.String()
}

// ExtRef is one (index, name) pair for an "R" record. Indices start at 2;
// index 1 is reserved for the section's own name.
type ExtRef struct {
	Index int
	Name  string
}

// FormatRefer builds an "R" record from one or more external references.
func FormatRefer(refs []ExtRef) string {
	var b strings.Builder
	b.WriteByte('R')
	for _, r := range refs {
		fmt.Fprintf(&b, "%02X%s", r.Index, padName(r.Name))
	}
	return b.String()
}

// FormatText builds a "T" record. len(data) must not exceed MaxTextBytes.
func FormatText(addr uint32, data []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "T%06X%02X", addr&0xFFFFFF, len(data))
	for _, c := range data {
		fmt.Fprintf(&b, "%02X", c)
	}
	return b.String()
}

// ModSign is the sign of a modification record: add or subtract.
type ModSign byte

const (
	Add      ModSign = '+'
	Subtract ModSign = '-'
)

// FormatMod builds an "M" record. halfBytes is the field width in nibbles
// (5 for a format-4 address field).
func FormatMod(addr uint32, halfBytes int, sign ModSign, refIndex int) string {
	return fmt.Sprintf("M%06X%02X%c%02X", addr&0xFFFFFF, halfBytes, byte(sign), refIndex)
}

// FormatEnd builds an "E" record.
func FormatEnd(entry uint32) string {
	return fmt.Sprintf("E%06X", entry&0xFFFFFF)
}
