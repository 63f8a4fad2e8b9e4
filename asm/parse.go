package asm

import (
	"fmt"
	"strings"

	"github.com/mujjingun/sicxe/opcode"
)

// LineKind classifies a parsed source line: comment, directive, or
// instruction.
type LineKind int

const (
	KindComment LineKind = iota
	KindDirective
	KindInstruction
)

// OpPrefix is the optional '+' before a mnemonic, selecting format 4.
type OpPrefix int

const (
	OpNone OpPrefix = iota
	OpExtended
)

// OperandPrefix is the optional '#' or '@' before an operand.
type OperandPrefix int

const (
	OperandPlain OperandPrefix = iota
	OperandImmediate
	OperandIndirect
)

// Directive is one of the pseudo-ops with dedicated handling in both
// passes: START, END, BASE, WORD, RESW, RESB, BYTE.
type Directive int

const (
	DirNone Directive = iota
	DirStart
	DirEnd
	DirBase
	DirWord
	DirResw
	DirResb
	DirByte
)

var directiveNames = map[string]Directive{
	"START": DirStart,
	"END":   DirEnd,
	"BASE":  DirBase,
	"WORD":  DirWord,
	"RESW":  DirResw,
	"RESB":  DirResb,
	"BYTE":  DirByte,
}

// ParsedLine is one non-comment (or comment) source line.
type ParsedLine struct {
	LineNo  int
	Raw     string
	Kind    LineKind
	Label   string // "" if absent
	HasOp   bool
	OpPfx   OpPrefix
	Dir     Directive    // valid when IsDir
	Op      opcode.Entry // valid when Dir == DirNone
	IsDir   bool
	OperPfx OperandPrefix
	Operand string // raw operand text, "" if absent
}

// parseLine parses a single source line into label, mnemonic, and operand
// fields.
func parseLine(raw string, lineno int, table *opcode.Table) (ParsedLine, error) {
	if len(raw) == 0 {
		return ParsedLine{}, fmt.Errorf("line %d: empty line", lineno)
	}
	if raw[0] == '.' {
		return ParsedLine{LineNo: lineno, Raw: raw, Kind: KindComment}, nil
	}

	pl := ParsedLine{LineNo: lineno, Raw: raw, Kind: KindInstruction}

	rest := raw
	if raw[0] != ' ' && raw[0] != '\t' {
		label, tail := splitField(raw)
		pl.Label = strings.ToUpper(label)
		rest = tail
	}

	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return ParsedLine{}, fmt.Errorf("line %d: missing mnemonic", lineno)
	}

	if rest[0] == '+' {
		pl.OpPfx = OpExtended
		rest = rest[1:]
	}

	mnemonicText, rest := splitField(rest)
	mnemonicText = strings.ToUpper(mnemonicText)

	if dir, ok := directiveNames[mnemonicText]; ok {
		pl.Kind = KindDirective
		pl.IsDir = true
		pl.Dir = dir
	} else if entry, ok := table.Lookup(mnemonicText); ok {
		pl.Op = entry
	} else {
		return ParsedLine{}, fmt.Errorf("line %d: unknown mnemonic %q", lineno, mnemonicText)
	}

	rest = strings.TrimLeft(rest, " \t")
	if rest != "" {
		pl.HasOp = true
		switch rest[0] {
		case '#':
			pl.OperPfx = OperandImmediate
			rest = rest[1:]
		case '@':
			pl.OperPfx = OperandIndirect
			rest = rest[1:]
		}
		pl.Operand = strings.TrimSpace(rest)
	}

	return pl, nil
}

// splitField skips s's leading whitespace and splits it at the next run of
// whitespace, returning the first token and the remainder (which keeps
// its own leading whitespace).
func splitField(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	idx := strings.IndexAny(s, " \t")
	if idx == -1 {
		return s, ""
	}
	return s[:idx], s[idx:]
}
