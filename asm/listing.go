package asm

import (
	"encoding/hex"
	"fmt"
	"strings"
)

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatListing renders one non-comment line's listing row: decimal
// lineno*5, 4-digit hex address, 10-col label, optional '+', 10-col
// mnemonic, optional '#'/'@', 20-col operand, then the emitted object
// code as uppercase hex. note carries free-form trailing text (currently
// unused by any caller, kept for symmetry with the original dump
// routine's trailing-comment column).
func formatListing(rec IntermediateRecord, code []byte, note string) string {
	pl := rec.Line

	mnemonic := ""
	switch {
	case pl.IsDir:
		mnemonic = directiveText(pl.Dir)
	default:
		mnemonic = pl.Op.Mnemonic
	}
	if pl.OpPfx == OpExtended {
		mnemonic = "+" + mnemonic
	}

	operand := pl.Operand
	switch pl.OperPfx {
	case OperandImmediate:
		operand = "#" + operand
	case OperandIndirect:
		operand = "@" + operand
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-5d %04X %s %s %s",
		pl.LineNo*5,
		rec.Address&0xFFFF,
		padRight(pl.Label, 10),
		padRight(mnemonic, 10),
		padRight(operand, 20),
	)
	if len(code) > 0 {
		b.WriteString(strings.ToUpper(hex.EncodeToString(code)))
	}
	if note != "" {
		b.WriteString(" ")
		b.WriteString(note)
	}
	return b.String()
}

// formatListingComment renders a comment line verbatim.
func formatListingComment(pl ParsedLine) string {
	return pl.Raw
}

func directiveText(d Directive) string {
	switch d {
	case DirStart:
		return "START"
	case DirEnd:
		return "END"
	case DirBase:
		return "BASE"
	case DirWord:
		return "WORD"
	case DirResw:
		return "RESW"
	case DirResb:
		return "RESB"
	case DirByte:
		return "BYTE"
	default:
		return "?"
	}
}
