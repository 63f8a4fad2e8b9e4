package vm

import (
	"fmt"

	"github.com/mujjingun/sicxe/reg"
)

// Standard SIC/XE opcode byte values (low two bits already masked to
// zero). These are fixed by the SIC/XE reference architecture,
// independent of whatever order the mnemonic file happens to list them
// in.
const (
	opLDA  = 0x00
	opLDX  = 0x04
	opLDL  = 0x08
	opSTA  = 0x0C
	opSTX  = 0x10
	opSTL  = 0x14
	opADD  = 0x18
	opSUB  = 0x1C
	opMUL  = 0x20
	opDIV  = 0x24
	opCOMP = 0x28
	opTIX  = 0x2C
	opJEQ  = 0x30
	opJGT  = 0x34
	opJLT  = 0x38
	opJ    = 0x3C
	opAND  = 0x40
	opOR   = 0x44
	opJSUB = 0x48
	opRSUB = 0x4C
	opLDCH = 0x50
	opSTCH = 0x54
	opLDB  = 0x68
	opLDS  = 0x6C
	opSTB  = 0x78
	opSTS  = 0x7C
	opLDT  = 0x74
	opSTT  = 0x84
	opTD   = 0xE0
	opRD   = 0xD8
	opWD   = 0xDC
)

const (
	f2ADDR   = 0x90
	f2SUBR   = 0x94
	f2MULR   = 0x98
	f2DIVR   = 0x9C
	f2COMPR  = 0xA0
	f2SHIFTL = 0xA4
	f2SHIFTR = 0xA8
	f2RMO    = 0xAC
	f2SVC    = 0xB0
	f2CLEAR  = 0xB4
	f2TIXR   = 0xB8
)

// execF1 runs a format-1 instruction. Every format-1 opcode in the
// architecture (FIX, FLOAT, HIO, NORM, SIO, TIO) is floating-point or
// I/O-channel control, both out of scope here; format-1 execution is
// therefore always fatal.
func (c *CPU) execF1(masked byte) error {
	return fmt.Errorf("unimplemented format-1 opcode %02X", masked)
}

// execF2 runs a format-2 instruction.
func (c *CPU) execF2(masked, operand byte) error {
	r1, ok1 := reg.FromNumber(int(operand >> 4))
	r2, ok2 := reg.FromNumber(int(operand & 0xF))
	if !ok1 {
		return fmt.Errorf("format-2 opcode %02X: invalid register number %d", masked, operand>>4)
	}

	switch masked {
	case f2ADDR:
		if !ok2 {
			return fmt.Errorf("ADDR: invalid destination register")
		}
		c.Reg.Set(r2, c.Reg.Get(r2)+c.Reg.Get(r1))
	case f2SUBR:
		if !ok2 {
			return fmt.Errorf("SUBR: invalid destination register")
		}
		c.Reg.Set(r2, c.Reg.Get(r2)-c.Reg.Get(r1))
	case f2MULR:
		if !ok2 {
			return fmt.Errorf("MULR: invalid destination register")
		}
		c.Reg.Set(r2, c.Reg.Get(r2)*c.Reg.Get(r1))
	case f2DIVR:
		if !ok2 {
			return fmt.Errorf("DIVR: invalid destination register")
		}
		divisor := c.Reg.Get(r1)
		if divisor == 0 {
			return fmt.Errorf("DIVR: division by zero")
		}
		c.Reg.Set(r2, c.Reg.Get(r2)/divisor)
	case f2COMPR:
		if !ok2 {
			return fmt.Errorf("COMPR: invalid second register")
		}
		c.Reg.SetSW(compareResult(c.Reg.Get(r1), c.Reg.Get(r2)))
	case f2CLEAR:
		c.Reg.Set(r1, 0)
	case f2RMO:
		if !ok2 {
			return fmt.Errorf("RMO: invalid destination register")
		}
		c.Reg.Set(r2, c.Reg.Get(r1))
	case f2TIXR:
		x := c.Reg.Get(reg.X) + 1
		c.Reg.Set(reg.X, x)
		c.Reg.SetSW(compareResult(c.Reg.Get(reg.X), c.Reg.Get(r1)))
	case f2SHIFTL, f2SHIFTR, f2SVC:
		return fmt.Errorf("unimplemented format-2 opcode %02X", masked)
	default:
		return fmt.Errorf("unsupported format-2 opcode %02X", masked)
	}
	return nil
}

// execF34 runs a format-3/4 instruction once its operand has been decoded
// and the effective address/value computed.
func (c *CPU) execF34(dec Decoded34) error {
	switch dec.Opcode {
	case opLDA:
		c.Reg.Set(reg.A, dec.Value)
	case opLDX:
		c.Reg.Set(reg.X, dec.Value)
	case opLDL:
		c.Reg.Set(reg.L, dec.Value)
	case opLDB:
		c.Reg.Set(reg.B, dec.Value)
	case opLDS:
		c.Reg.Set(reg.S, dec.Value)
	case opLDT:
		c.Reg.Set(reg.T, dec.Value)
	case opSTA:
		return c.Mem.Write24(dec.Addr, c.Reg.GetU(reg.A))
	case opSTX:
		return c.Mem.Write24(dec.Addr, c.Reg.GetU(reg.X))
	case opSTL:
		return c.Mem.Write24(dec.Addr, c.Reg.GetU(reg.L))
	case opSTB:
		return c.Mem.Write24(dec.Addr, c.Reg.GetU(reg.B))
	case opSTS:
		return c.Mem.Write24(dec.Addr, c.Reg.GetU(reg.S))
	case opSTT:
		return c.Mem.Write24(dec.Addr, c.Reg.GetU(reg.T))
	case opADD:
		c.Reg.Set(reg.A, c.Reg.Get(reg.A)+dec.Value)
	case opSUB:
		c.Reg.Set(reg.A, c.Reg.Get(reg.A)-dec.Value)
	case opMUL:
		c.Reg.Set(reg.A, c.Reg.Get(reg.A)*dec.Value)
	case opDIV:
		if dec.Value == 0 {
			return fmt.Errorf("DIV: division by zero")
		}
		c.Reg.Set(reg.A, c.Reg.Get(reg.A)/dec.Value)
	case opAND:
		c.Reg.Set(reg.A, c.Reg.Get(reg.A)&dec.Value)
	case opOR:
		c.Reg.Set(reg.A, c.Reg.Get(reg.A)|dec.Value)
	case opCOMP:
		c.Reg.SetSW(compareResult(c.Reg.Get(reg.A), dec.Value))
	case opLDCH:
		highByte := byte((uint32(dec.Value) >> 16) & 0xFF)
		a := c.Reg.GetU(reg.A)
		c.Reg.SetU(reg.A, (a&0xFFFF00)|uint32(highByte))
	case opSTCH:
		return c.Mem.WriteByte(dec.Addr, byte(c.Reg.GetU(reg.A)&0xFF))
	case opJ:
		c.Reg.SetU(reg.PC, dec.Addr)
	case opJEQ:
		if c.Reg.Sign() == reg.Equal {
			c.Reg.SetU(reg.PC, dec.Addr)
		}
	case opJGT:
		if c.Reg.Sign() == reg.Greater {
			c.Reg.SetU(reg.PC, dec.Addr)
		}
	case opJLT:
		if c.Reg.Sign() == reg.Less {
			c.Reg.SetU(reg.PC, dec.Addr)
		}
	case opJSUB:
		c.Reg.Set(reg.L, c.Reg.Get(reg.PC))
		c.Reg.SetU(reg.PC, dec.Addr)
	case opRSUB:
		c.Reg.Set(reg.PC, c.Reg.Get(reg.L))
	case opTIX:
		x := c.Reg.Get(reg.X) + 1
		c.Reg.Set(reg.X, x)
		c.Reg.SetSW(compareResult(c.Reg.Get(reg.X), dec.Value))
	case opTD:
		if c.Dev.TestReady() {
			c.Reg.SetSW(reg.Less)
		} else {
			c.Reg.SetSW(reg.Greater)
		}
	case opRD:
		b := c.Dev.ReadByte()
		a := c.Reg.GetU(reg.A)
		c.Reg.SetU(reg.A, (a&0xFFFF00)|uint32(b))
	case opWD:
		if c.Out != nil {
			c.Out.Write([]byte{byte(c.Reg.GetU(reg.A) & 0xFF)})
		}
	default:
		return fmt.Errorf("unsupported format-3/4 opcode %02X", dec.Opcode)
	}
	return nil
}

// compareResult turns a signed difference a-b into the ternary
// CompareResult the COMP/COMPR/TIX/TIXR family store into SW.
func compareResult(a, b int32) reg.CompareResult {
	switch {
	case a < b:
		return reg.Less
	case a > b:
		return reg.Greater
	default:
		return reg.Equal
	}
}
