package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// parseHex parses a hexadecimal operand, as used by START.
func parseHex(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed hex number %q: %w", s, err)
	}
	return uint32(v), nil
}

// parseDecimal parses a signed decimal operand, as used by WORD, RESW,
// and RESB: integers are parsed as hex for START and as decimal
// otherwise.
func parseDecimal(s string) (int64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed decimal number %q: %w", s, err)
	}
	return v, nil
}

// parseByteOperand decodes a BYTE directive's C'...' or X'...' operand
// into its raw bytes, along with the byte count.
func parseByteOperand(operand string) ([]byte, int, error) {
	operand = strings.TrimSpace(operand)
	if len(operand) < 3 || operand[1] != '\'' || operand[len(operand)-1] != '\'' {
		return nil, 0, fmt.Errorf("malformed BYTE operand %q", operand)
	}
	kind := operand[0]
	inner := operand[2 : len(operand)-1]
	switch kind {
	case 'C', 'c':
		return []byte(inner), len(inner), nil
	case 'X', 'x':
		if len(inner)%2 != 0 {
			return nil, 0, fmt.Errorf("BYTE hex operand %q has an odd digit count", operand)
		}
		data := make([]byte, len(inner)/2)
		for i := range data {
			v, err := strconv.ParseUint(inner[i*2:i*2+2], 16, 8)
			if err != nil {
				return nil, 0, fmt.Errorf("BYTE hex operand %q: %w", operand, err)
			}
			data[i] = byte(v)
		}
		return data, len(data), nil
	default:
		return nil, 0, fmt.Errorf("malformed BYTE operand %q: must start with C' or X'", operand)
	}
}
