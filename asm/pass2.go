package asm

import (
	"fmt"
	"strings"

	"github.com/mujjingun/sicxe/objfmt"
)

// Output is everything pass 2 produces: the object program text (one
// record per line, in emission order) and the listing text.
type Output struct {
	Object  []string
	Listing []string
}

// textBuffer accumulates bytes for one "T" record: (flush_address, buf),
// capacity 0x1E.
type textBuffer struct {
	flushAddr uint32
	buf       []byte
}

// flush emits a "T" record for the buffered bytes (if any) and resets the
// buffer to start at newAddr.
func (tb *textBuffer) flush(newAddr uint32) (string, bool) {
	if len(tb.buf) == 0 {
		tb.flushAddr = newAddr
		return "", false
	}
	rec := objfmt.FormatText(tb.flushAddr, tb.buf)
	tb.buf = nil
	tb.flushAddr = newAddr
	return rec, true
}

// append adds bytes to the buffer, flushing first if they would not fit.
func (tb *textBuffer) append(addr uint32, data []byte, out *[]string) {
	if len(tb.buf) > 0 && len(tb.buf)+len(data) > objfmt.MaxTextBytes {
		if rec, ok := tb.flush(addr); ok {
			*out = append(*out, rec)
		}
	}
	if len(tb.buf) == 0 {
		tb.flushAddr = addr
	}
	tb.buf = append(tb.buf, data...)
}

// pass2 re-walks the intermediate stream, encoding each line and emitting
// H/T/M/E object records plus a listing line.
func pass2(p1 *Pass1Result) (*Output, error) {
	var object []string
	var listing []string

	tb := &textBuffer{flushAddr: p1.StartAddr}
	var mods []ModSpec
	base := int64(-1)
	firstExecAddr := int64(-1)
	endSeen := false

	object = append(object, objfmt.FormatHeader(p1.ProgName, p1.StartAddr, p1.ProgLength))

	for _, rec := range p1.Records {
		pl := rec.Line

		switch {
		case pl.Kind == KindComment:
			listing = append(listing, formatListingComment(pl))
			continue

		case pl.IsDir && pl.Dir == DirStart:
			listing = append(listing, formatListing(rec, nil, ""))
			continue

		case pl.IsDir && pl.Dir == DirBase:
			addr, ok := p1.Symbols.Find(strings.ToUpper(pl.Operand))
			if !ok {
				return nil, fmt.Errorf("line %d: BASE operand %q is undefined", pl.LineNo, pl.Operand)
			}
			base = int64(addr)
			listing = append(listing, formatListing(rec, nil, ""))
			continue

		case pl.IsDir && pl.Dir == DirEnd:
			if rec2, ok := tb.flush(rec.Address); ok {
				object = append(object, rec2)
			}
			if firstExecAddr < 0 {
				return nil, fmt.Errorf("line %d: END with no preceding instruction", pl.LineNo)
			}
			for _, m := range mods {
				object = append(object, objfmt.FormatMod(m.Addr, m.HalfBytes, objfmt.Add, 1))
			}
			object = append(object, objfmt.FormatEnd(uint32(firstExecAddr)))
			listing = append(listing, formatListing(rec, nil, ""))
			endSeen = true
			continue

		case pl.IsDir && (pl.Dir == DirResw || pl.Dir == DirResb):
			if rec.PCAfter > rec.Address {
				if rec2, ok := tb.flush(rec.PCAfter); ok {
					object = append(object, rec2)
				}
			}
			listing = append(listing, formatListing(rec, nil, ""))
			continue

		case pl.IsDir && pl.Dir == DirByte:
			data, _, err := parseByteOperand(pl.Operand)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", pl.LineNo, err)
			}
			tb.append(rec.Address, data, &object)
			listing = append(listing, formatListing(rec, data, ""))
			continue

		case pl.IsDir && pl.Dir == DirWord:
			v, err := parseDecimal(pl.Operand)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", pl.LineNo, err)
			}
			data := []byte{byte(v >> 16), byte(v >> 8), byte(v)}
			tb.append(rec.Address, data, &object)
			listing = append(listing, formatListing(rec, data, ""))
			continue

		default: // instruction
			code, mod, err := encodeInstruction(pl, rec.PCAfter, base, p1.Symbols, pl.LineNo)
			if err != nil {
				return nil, err
			}
			if firstExecAddr < 0 {
				firstExecAddr = int64(rec.Address)
			}
			if mod != nil {
				mods = append(mods, *mod)
			}
			tb.append(rec.Address, code, &object)
			listing = append(listing, formatListing(rec, code, ""))
		}
	}

	if !endSeen {
		return nil, fmt.Errorf("missing END record")
	}

	return &Output{Object: object, Listing: listing}, nil
}
