package asm

import (
	"fmt"

	"github.com/mujjingun/sicxe/opcode"
	"github.com/mujjingun/sicxe/symtab"
)

// IntermediateRecord is pass 1's output for one line: the line's LOCCTR at
// entry, the LOCCTR after the line (used for PC-relative addressing by
// pass 2), and the parsed line itself.
type IntermediateRecord struct {
	Address uint32
	PCAfter uint32
	Line    ParsedLine
}

// Pass1Result is everything pass 2 needs: the intermediate stream, the
// populated symbol table, the program's starting address, and its total
// length.
type Pass1Result struct {
	Records    []IntermediateRecord
	Symbols    *symtab.Table
	StartAddr  uint32
	ProgLength uint32
	ProgName   string
}

// pass1 walks the source once, building the symbol table and an
// intermediate record per line while advancing LOCCTR.
func pass1(lines []string, table *opcode.Table) (*Pass1Result, error) {
	syms := symtab.New()
	var records []IntermediateRecord

	if len(lines) == 0 {
		return nil, fmt.Errorf("empty source")
	}

	// Find the first non-comment line; it must be START.
	firstIdx := -1
	for i, raw := range lines {
		if raw == "" {
			continue
		}
		if raw[0] == '.' {
			records = append(records, IntermediateRecord{Line: ParsedLine{LineNo: i + 1, Raw: raw, Kind: KindComment}})
			continue
		}
		firstIdx = i
		break
	}
	if firstIdx == -1 {
		return nil, fmt.Errorf("missing START")
	}

	pl, err := parseLine(lines[firstIdx], firstIdx+1, table)
	if err != nil {
		return nil, err
	}
	if !pl.IsDir || pl.Dir != DirStart {
		return nil, fmt.Errorf("line %d: first non-comment line must be START", firstIdx+1)
	}
	if !pl.HasOp {
		return nil, fmt.Errorf("line %d: START requires an address operand", firstIdx+1)
	}
	start, err := parseHex(pl.Operand)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", firstIdx+1, err)
	}
	progName := pl.Label

	locctr := start
	records = append(records, IntermediateRecord{Address: locctr, PCAfter: locctr, Line: pl})

	for i := firstIdx + 1; i < len(lines); i++ {
		raw := lines[i]
		lineno := i + 1
		if raw == "" {
			continue
		}
		pl, err := parseLine(raw, lineno, table)
		if err != nil {
			return nil, err
		}
		if pl.Kind == KindComment {
			records = append(records, IntermediateRecord{Line: pl})
			continue
		}

		if pl.Label != "" {
			if len(pl.Label) > 6 {
				return nil, fmt.Errorf("line %d: label %q longer than 6 characters", lineno, pl.Label)
			}
			if !syms.Insert(pl.Label, locctr) {
				return nil, fmt.Errorf("line %d: duplicate symbol %q", lineno, pl.Label)
			}
		}

		entryAddr := locctr

		if pl.IsDir && (pl.Dir == DirBase || pl.Dir == DirEnd) {
			records = append(records, IntermediateRecord{Address: entryAddr, PCAfter: entryAddr, Line: pl})
			continue
		}

		length, err := lineLength(pl, lineno)
		if err != nil {
			return nil, err
		}
		locctr += length

		records = append(records, IntermediateRecord{Address: entryAddr, PCAfter: locctr, Line: pl})
	}

	return &Pass1Result{
		Records:    records,
		Symbols:    syms,
		StartAddr:  start,
		ProgLength: locctr - start,
		ProgName:   progName,
	}, nil
}

// lineLength computes a line's contribution to LOCCTR.
func lineLength(pl ParsedLine, lineno int) (uint32, error) {
	if pl.IsDir {
		switch pl.Dir {
		case DirWord:
			n, err := parseDecimal(pl.Operand)
			if err != nil {
				return 0, fmt.Errorf("line %d: %w", lineno, err)
			}
			if n < -0x800000 || n > 0xFFFFFF {
				return 0, fmt.Errorf("line %d: WORD value %d out of range", lineno, n)
			}
			return 3, nil
		case DirResw:
			n, err := parseDecimal(pl.Operand)
			if err != nil {
				return 0, fmt.Errorf("line %d: %w", lineno, err)
			}
			if n < 0 {
				return 0, fmt.Errorf("line %d: RESW count must not be negative", lineno)
			}
			return uint32(n) * 3, nil
		case DirResb:
			n, err := parseDecimal(pl.Operand)
			if err != nil {
				return 0, fmt.Errorf("line %d: %w", lineno, err)
			}
			if n < 0 {
				return 0, fmt.Errorf("line %d: RESB count must not be negative", lineno)
			}
			return uint32(n), nil
		case DirByte:
			_, n, err := parseByteOperand(pl.Operand)
			if err != nil {
				return 0, fmt.Errorf("line %d: %w", lineno, err)
			}
			return uint32(n), nil
		default:
			return 0, fmt.Errorf("line %d: unexpected directive in length calculation", lineno)
		}
	}

	switch pl.Op.Format {
	case opcode.F1:
		return 1, nil
	case opcode.F2:
		return 2, nil
	case opcode.F34:
		if pl.OpPfx == OpExtended {
			return 4, nil
		}
		return 3, nil
	default:
		return 0, fmt.Errorf("line %d: unknown instruction format", lineno)
	}
}
