package vm

import (
	"fmt"

	"github.com/mujjingun/sicxe/reg"
)

// AddrMode is the n/i addressing mode of a decoded format-3/4 instruction.
type AddrMode int

const (
	ModeSimple AddrMode = iota
	ModeIndirect
	ModeImmediate
)

// Decoded34 is the result of decoding one format-3/4 instruction: the
// addressing mode, the computed effective address (valid for every mode,
// used directly by store opcodes), the operand value (resolved per
// mode), whether the instruction was extended (format 4), and the opcode
// byte (already masked to its low two bits zero).
type Decoded34 struct {
	Opcode   byte
	Mode     AddrMode
	Extended bool
	Addr     uint32
	Value    int32
}

// stepF34 implements the fetch+decode+execute of one format-3/4
// instruction starting at pc.
func (c *CPU) stepF34(pc uint32, b0, masked byte) error {
	b1, err := c.Mem.ReadByte(pc + 1)
	if err != nil {
		return fmt.Errorf("fetch operand at %06X: %w", pc+1, err)
	}
	b2, err := c.Mem.ReadByte(pc + 2)
	if err != nil {
		return fmt.Errorf("fetch operand at %06X: %w", pc+2, err)
	}

	n := (b0 >> 1) & 1
	i := b0 & 1
	if n == 0 && i == 0 {
		return fmt.Errorf("PC %06X: SIC-legacy addressing form (n=i=0) is not supported", pc)
	}

	x := (b1 >> 7) & 1
	bFlag := (b1 >> 6) & 1
	p := (b1 >> 5) & 1
	e := (b1 >> 4) & 1

	dec := Decoded34{Opcode: masked}
	switch {
	case n == 1 && i == 1:
		dec.Mode = ModeSimple
	case n == 1 && i == 0:
		dec.Mode = ModeIndirect
	case n == 0 && i == 1:
		dec.Mode = ModeImmediate
	}

	var disp int64
	var nextPC uint32
	if e == 1 {
		b3, err := c.Mem.ReadByte(pc + 3)
		if err != nil {
			return fmt.Errorf("fetch operand at %06X: %w", pc+3, err)
		}
		raw := uint32(b1&0x0F)<<16 | uint32(b2)<<8 | uint32(b3)
		disp = signExtend(int64(raw), 20)
		nextPC = pc + 4
		dec.Extended = true
	} else {
		raw := uint32(b1&0x0F)<<8 | uint32(b2)
		disp = signExtend(int64(raw), 12)
		nextPC = pc + 3
	}
	c.Reg.SetU(reg.PC, nextPC)

	addr := disp
	if p == 1 {
		addr += int64(nextPC)
	}
	if bFlag == 1 {
		addr += int64(c.Reg.GetU(reg.B))
	}
	if x == 1 {
		addr += int64(c.Reg.Get(reg.X))
	}
	dec.Addr = uint32(addr) & 0xFFFFFF

	switch dec.Mode {
	case ModeImmediate:
		dec.Value = reg.SignExtend24(int32(dec.Addr))
	case ModeSimple:
		v, err := c.Mem.Read24(dec.Addr)
		if err != nil {
			return fmt.Errorf("PC %06X: operand fetch: %w", pc, err)
		}
		dec.Value = reg.SignExtend24(int32(v))
	case ModeIndirect:
		ind, err := c.Mem.Read24(dec.Addr)
		if err != nil {
			return fmt.Errorf("PC %06X: indirect address fetch: %w", pc, err)
		}
		dec.Addr = ind & 0xFFFFFF
		v, err := c.Mem.Read24(dec.Addr)
		if err != nil {
			return fmt.Errorf("PC %06X: indirect operand fetch: %w", pc, err)
		}
		dec.Value = reg.SignExtend24(int32(v))
	}

	return c.execF34(dec)
}

// signExtend sign-extends the low `bits` bits of v.
func signExtend(v int64, bits int) int64 {
	mask := int64(1)<<bits - 1
	v &= mask
	sign := int64(1) << (bits - 1)
	if v&sign != 0 {
		v -= mask + 1
	}
	return v
}
