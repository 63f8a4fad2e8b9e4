package objfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TextRecord is one parsed "T" record: bytes destined for a contiguous
// range of the control section, relative to the section's own start.
type TextRecord struct {
	Addr  uint32
	Bytes []byte
}

// ModRecord is one parsed "M" record.
type ModRecord struct {
	Addr      uint32
	HalfBytes int
	Sign      ModSign
	RefIndex  int
}

// Section is the parsed form of one control section read from an object
// file: header, external definitions/references, text records,
// modification records, and an optional entry point.
type Section struct {
	Name      string
	StartAddr uint32
	Length    uint32

	ExtDefs []ExtDef
	ExtRefs []ExtRef
	Text    []TextRecord
	Mods    []ModRecord

	HasEntry bool
	Entry    uint32
}

// RefName resolves a reference index to a name: index 1 is always the
// section's own name; indices >= 2 resolve via ExtRefs.
func (s *Section) RefName(idx int) (string, error) {
	if idx == 1 {
		return s.Name, nil
	}
	for _, r := range s.ExtRefs {
		if r.Index == idx {
			return r.Name, nil
		}
	}
	return "", fmt.Errorf("section %s: no external reference with index %02X", s.Name, idx)
}

// ParseSection reads one control section's worth of object records from
// r: exactly one "H" record, any number of "D"/"R"/"T"/"M" records, and at
// most one "E" record.
func ParseSection(r io.Reader) (*Section, error) {
	scanner := bufio.NewScanner(r)
	sec := &Section{}
	haveHeader := false
	lineno := 0

	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		tag := line[0]
		body := line[1:]

		switch tag {
		case 'H':
			if haveHeader {
				return nil, fmt.Errorf("line %d: duplicate H record", lineno)
			}
			if len(body) < 18 {
				return nil, fmt.Errorf("line %d: malformed H record", lineno)
			}
			sec.Name = strings.TrimRight(body[0:6], " ")
			start, err := strconv.ParseUint(body[6:12], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad start address: %w", lineno, err)
			}
			length, err := strconv.ParseUint(body[12:18], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad length: %w", lineno, err)
			}
			sec.StartAddr = uint32(start)
			sec.Length = uint32(length)
			haveHeader = true

		case 'D':
			defs, err := parseDefine(body, lineno)
			if err != nil {
				return nil, err
			}
			sec.ExtDefs = append(sec.ExtDefs, defs...)

		case 'R':
			refs, err := parseRefer(body, lineno)
			if err != nil {
				return nil, err
			}
			sec.ExtRefs = append(sec.ExtRefs, refs...)

		case 'T':
			rec, err := parseText(body, lineno)
			if err != nil {
				return nil, err
			}
			sec.Text = append(sec.Text, rec)

		case 'M':
			rec, err := parseMod(body, lineno)
			if err != nil {
				return nil, err
			}
			sec.Mods = append(sec.Mods, rec)

		case 'E':
			if sec.HasEntry {
				return nil, fmt.Errorf("line %d: duplicate E record", lineno)
			}
			if len(body) < 6 {
				return nil, fmt.Errorf("line %d: malformed E record", lineno)
			}
			entry, err := strconv.ParseUint(body[0:6], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad entry address: %w", lineno, err)
			}
			sec.Entry = uint32(entry)
			sec.HasEntry = true

		default:
			return nil, fmt.Errorf("line %d: unknown record type %q", lineno, string(tag))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading object file: %w", err)
	}
	if !haveHeader {
		return nil, fmt.Errorf("missing H record")
	}
	return sec, nil
}

func parseDefine(body string, lineno int) ([]ExtDef, error) {
	var defs []ExtDef
	for len(body) > 0 {
		if len(body) < 12 {
			return nil, fmt.Errorf("line %d: malformed D record", lineno)
		}
		name := strings.TrimRight(body[0:6], " ")
		addr, err := strconv.ParseUint(body[6:12], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad D record address: %w", lineno, err)
		}
		defs = append(defs, ExtDef{Name: name, Offset: uint32(addr)})
		body = body[12:]
	}
	return defs, nil
}

func parseRefer(body string, lineno int) ([]ExtRef, error) {
	var refs []ExtRef
	for len(body) > 0 {
		if len(body) < 8 {
			return nil, fmt.Errorf("line %d: malformed R record", lineno)
		}
		idx, err := strconv.ParseUint(body[0:2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad R record index: %w", lineno, err)
		}
		name := strings.TrimRight(body[2:8], " ")
		refs = append(refs, ExtRef{Index: int(idx), Name: name})
		body = body[8:]
	}
	return refs, nil
}

func parseText(body string, lineno int) (TextRecord, error) {
	if len(body) < 8 {
		return TextRecord{}, fmt.Errorf("line %d: malformed T record", lineno)
	}
	addr, err := strconv.ParseUint(body[0:6], 16, 32)
	if err != nil {
		return TextRecord{}, fmt.Errorf("line %d: bad T record address: %w", lineno, err)
	}
	length, err := strconv.ParseUint(body[6:8], 16, 8)
	if err != nil {
		return TextRecord{}, fmt.Errorf("line %d: bad T record length: %w", lineno, err)
	}
	if int(length) > MaxTextBytes {
		return TextRecord{}, fmt.Errorf("line %d: T record length %02X exceeds %02X", lineno, length, MaxTextBytes)
	}
	hexBytes := body[8:]
	if len(hexBytes) != int(length)*2 {
		return TextRecord{}, fmt.Errorf("line %d: T record declares %d bytes but has %d hex digits", lineno, length, len(hexBytes))
	}
	data := make([]byte, length)
	for i := range data {
		v, err := strconv.ParseUint(hexBytes[i*2:i*2+2], 16, 8)
		if err != nil {
			return TextRecord{}, fmt.Errorf("line %d: bad T record byte: %w", lineno, err)
		}
		data[i] = byte(v)
	}
	return TextRecord{Addr: uint32(addr), Bytes: data}, nil
}

func parseMod(body string, lineno int) (ModRecord, error) {
	if len(body) < 11 {
		return ModRecord{}, fmt.Errorf("line %d: malformed M record", lineno)
	}
	addr, err := strconv.ParseUint(body[0:6], 16, 32)
	if err != nil {
		return ModRecord{}, fmt.Errorf("line %d: bad M record address: %w", lineno, err)
	}
	halfBytes, err := strconv.ParseUint(body[6:8], 16, 8)
	if err != nil {
		return ModRecord{}, fmt.Errorf("line %d: bad M record length: %w", lineno, err)
	}
	sign := ModSign(body[8])
	if sign != Add && sign != Subtract {
		return ModRecord{}, fmt.Errorf("line %d: bad M record sign %q", lineno, string(sign))
	}
	idx, err := strconv.ParseUint(body[9:11], 16, 8)
	if err != nil {
		return ModRecord{}, fmt.Errorf("line %d: bad M record ref index: %w", lineno, err)
	}
	return ModRecord{Addr: uint32(addr), HalfBytes: int(halfBytes), Sign: sign, RefIndex: int(idx)}, nil
}
