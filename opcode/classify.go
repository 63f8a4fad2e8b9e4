package opcode

// f1Bytes and f2Bytes are the fixed sets of opcode bytes (already masked to
// their low two bits zero) that are format 1 and format 2 instructions in
// the standard SIC/XE instruction set. Every other opcode byte present in
// the table is format 3/4.
var f1Bytes = map[byte]bool{
	0xC0: true, 0xC4: true, 0xC8: true,
	0xF0: true, 0xF4: true, 0xF8: true,
}

var f2Bytes = map[byte]bool{
	0x90: true, 0x94: true, 0x98: true, 0x9C: true,
	0xA0: true, 0xA4: true, 0xA8: true, 0xAC: true,
	0xB0: true, 0xB4: true, 0xB8: true,
}

// ClassifyByte determines the instruction format of a masked opcode byte
// as fetched from memory, independent of any mnemonic lookup. Bytes in the
// fixed format-1/format-2 sets are classified even when the table omits
// them; ok is false when the byte is in neither set and the table does
// not define it.
func (t *Table) ClassifyByte(b byte) (Format, bool) {
	masked := b & 0xFC
	if f1Bytes[masked] {
		return F1, true
	}
	if f2Bytes[masked] {
		return F2, true
	}
	if t.bytes[masked] {
		return F34, true
	}
	return 0, false
}
