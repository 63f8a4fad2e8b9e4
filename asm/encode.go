package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mujjingun/sicxe/opcode"
	"github.com/mujjingun/sicxe/reg"
	"github.com/mujjingun/sicxe/symtab"
)

// ModSpec describes a modification record the assembler must emit at END:
// an address and a half-byte (nibble) field width. The assembler only
// ever emits the "+01" form: the reference is always the section's own
// name, so only Addr is needed here.
type ModSpec struct {
	Addr      uint32
	HalfBytes int
}

// encodeInstruction assembles one instruction line into 1-4 bytes.
// pcAfter is the line's pc_after from pass 1 (used for PC-relative
// addressing); base is the current BASE value, or -1 if no BASE is in
// effect.
func encodeInstruction(pl ParsedLine, pcAfter uint32, base int64, syms *symtab.Table, lineno int) ([]byte, *ModSpec, error) {
	switch pl.Op.Format {
	case opcode.F1:
		return []byte{pl.Op.Opcode}, nil, nil
	case opcode.F2:
		return encodeF2(pl, lineno)
	case opcode.F34:
		return encodeF34(pl, pcAfter, base, syms, lineno)
	default:
		return nil, nil, fmt.Errorf("line %d: unknown instruction format", lineno)
	}
}

// encodeF2 assembles a format-2 instruction: "reg1[,reg2]".
func encodeF2(pl ParsedLine, lineno int) ([]byte, *ModSpec, error) {
	var r1, r2 int
	if pl.HasOp {
		parts := strings.SplitN(pl.Operand, ",", 2)
		name1 := strings.TrimSpace(parts[0])
		reg1, ok := reg.ByMnemonic(strings.ToUpper(name1))
		if !ok {
			return nil, nil, fmt.Errorf("line %d: unknown register %q", lineno, name1)
		}
		n1, ok := reg.NumberOf(reg1)
		if !ok {
			return nil, nil, fmt.Errorf("line %d: register %q has no format-2 encoding", lineno, name1)
		}
		r1 = n1
		if len(parts) == 2 {
			name2 := strings.TrimSpace(parts[1])
			reg2, ok := reg.ByMnemonic(strings.ToUpper(name2))
			if !ok {
				return nil, nil, fmt.Errorf("line %d: unknown register %q", lineno, name2)
			}
			n2, ok := reg.NumberOf(reg2)
			if !ok {
				return nil, nil, fmt.Errorf("line %d: register %q has no format-2 encoding", lineno, name2)
			}
			r2 = n2
		}
	}
	return []byte{pl.Op.Opcode, byte(r1<<4 | r2)}, nil, nil
}

// encodeF34 assembles a format-3/4 instruction.
func encodeF34(pl ParsedLine, pcAfter uint32, base int64, syms *symtab.Table, lineno int) ([]byte, *ModSpec, error) {
	extended := pl.OpPfx == OpExtended

	// No-operand form (e.g. RSUB): ni=11, disp=0, no b/p/e, 3 bytes.
	if !pl.HasOp {
		b0 := pl.Op.Opcode | 0x03
		return []byte{b0, 0x00, 0x00}, nil, nil
	}

	n, i := bitsForPrefix(pl.OperPfx)
	b0 := (pl.Op.Opcode & 0xFC) | n<<1 | i

	operand, indexed := splitIndexSuffix(pl.Operand)

	// Resolve the operand to either a symbolic address (relocatable,
	// subject to PC/base-relative addressing) or an absolute immediate
	// constant (written verbatim, never relocated).
	var addr uint32
	if pl.OperPfx == OperandImmediate {
		if sym, ok := syms.Find(strings.ToUpper(operand)); ok {
			addr = sym
		} else {
			v, err := strconv.ParseInt(operand, 10, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: immediate operand %q is neither a known symbol nor a decimal integer", lineno, operand)
			}
			bits := 12
			if extended {
				bits = 20
			}
			lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
			if v < lo || v > hi {
				return nil, nil, fmt.Errorf("line %d: absolute immediate %d out of range for a %d-bit field", lineno, v, bits)
			}
			return encodeAbsoluteF34(b0, uint32(v)&mask(bits), indexed, extended), nil, nil
		}
	} else {
		sym, ok := syms.Find(strings.ToUpper(operand))
		if !ok {
			return nil, nil, fmt.Errorf("line %d: undefined symbol %q", lineno, operand)
		}
		addr = sym
	}

	xbit := byte(0)
	if indexed {
		xbit = 1
	}

	if extended {
		b1 := xbit<<7 | 1<<4 | byte((addr>>16)&0xF)
		b2 := byte((addr >> 8) & 0xFF)
		b3 := byte(addr & 0xFF)
		mod := &ModSpec{Addr: pcAfter - 3, HalfBytes: 5}
		return []byte{b0, b1, b2, b3}, mod, nil
	}

	// Non-extended: try PC-relative, then base-relative.
	dispPC := int64(addr) - int64(pcAfter)
	if dispPC >= -0x800 && dispPC <= 0x7FF {
		disp := uint32(dispPC) & 0xFFF
		b1 := xbit<<7 | 1<<5 | byte((disp>>8)&0xF)
		b2 := byte(disp & 0xFF)
		return []byte{b0, b1, b2}, nil, nil
	}
	if base >= 0 {
		dispB := int64(addr) - base
		if dispB >= 0 && dispB <= 0xFFF {
			disp := uint32(dispB) & 0xFFF
			b1 := xbit<<7 | 1<<6 | byte((disp>>8)&0xF)
			b2 := byte(disp & 0xFF)
			return []byte{b0, b1, b2}, nil, nil
		}
	}
	return nil, nil, fmt.Errorf("line %d: operand %q is out of range for both PC-relative and base-relative addressing", lineno, operand)
}

// encodeAbsoluteF34 encodes an absolute (non-relocatable) immediate value
// directly into the displacement/address field, with b=p=0: the VM adds
// neither PC nor B when forming the effective address, so the field value
// is the operand's literal value.
func encodeAbsoluteF34(b0 byte, value uint32, indexed, extended bool) []byte {
	xbit := byte(0)
	if indexed {
		xbit = 1
	}
	if extended {
		b1 := xbit<<7 | 1<<4 | byte((value>>16)&0xF)
		b2 := byte((value >> 8) & 0xFF)
		b3 := byte(value & 0xFF)
		return []byte{b0, b1, b2, b3}
	}
	b1 := xbit<<7 | byte((value>>8)&0xF)
	b2 := byte(value & 0xFF)
	return []byte{b0, b1, b2}
}

func mask(bits int) uint32 {
	return uint32(1)<<bits - 1
}

// splitIndexSuffix strips a trailing ",X" index suffix (case-insensitive)
// from an operand, reporting whether it was present.
func splitIndexSuffix(operand string) (string, bool) {
	upper := strings.ToUpper(operand)
	if idx := strings.LastIndex(upper, ",X"); idx != -1 && strings.TrimSpace(upper[idx+2:]) == "" {
		return strings.TrimSpace(operand[:idx]), true
	}
	return strings.TrimSpace(operand), false
}

func bitsForPrefix(p OperandPrefix) (n, i byte) {
	switch p {
	case OperandImmediate:
		return 0, 1
	case OperandIndirect:
		return 1, 0
	default:
		return 1, 1
	}
}
