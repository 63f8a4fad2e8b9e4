// Package vm implements the SIC/XE interpreter: the fetch/decode/execute
// loop, format-3/4 addressing modes, and the enumerated opcode semantics,
// operating over a shared memory image, register file, breakpoint set,
// and input device.
package vm

import (
	"fmt"
	"io"

	"github.com/mujjingun/sicxe/bp"
	"github.com/mujjingun/sicxe/device"
	"github.com/mujjingun/sicxe/mem"
	"github.com/mujjingun/sicxe/opcode"
	"github.com/mujjingun/sicxe/reg"
)

// CPU is the interpreter's state: the shared memory image, register file,
// breakpoint set, input device, and the opcode table it was constructed
// from. It implements the fetch/decode/execute loop.
type CPU struct {
	Mem   *mem.Image
	Reg   *reg.File
	BP    *bp.Set
	Dev   device.Device
	Table *opcode.Table
	// Out receives WD opcode output, one byte per write. A nil Out
	// discards WD output.
	Out io.Writer

	Running bool
}

// New builds a CPU over the given shared resources.
func New(m *mem.Image, r *reg.File, breakpoints *bp.Set, dev device.Device, table *opcode.Table) *CPU {
	return &CPU{Mem: m, Reg: r, BP: breakpoints, Dev: dev, Table: table, Running: true}
}

// StopReason describes why Run stopped.
type StopReason int

const (
	// StopHalt means an instruction failed; Run returns it together with
	// the error that stopped the interpreter.
	StopHalt StopReason = iota
	// StopBreakpoint means PC landed on a breakpoint after an instruction.
	StopBreakpoint
	// StopCycles means the caller's cycle cap was reached.
	StopCycles
)

// RunResult reports how Run stopped.
type RunResult struct {
	Reason StopReason
	Cycles int
}

// Run steps the interpreter until a breakpoint is hit, the cycle cap is
// reached, or an error (reported as a RuntimeError by the caller) occurs.
// maxCycles <= 0 means unbounded.
func (c *CPU) Run(maxCycles int) (RunResult, error) {
	cycles := 0
	for {
		if maxCycles > 0 && cycles >= maxCycles {
			return RunResult{Reason: StopCycles, Cycles: cycles}, nil
		}
		if err := c.Step(); err != nil {
			return RunResult{Reason: StopHalt, Cycles: cycles}, err
		}
		cycles++
		if c.BP.Has(c.Reg.GetU(reg.PC)) {
			return RunResult{Reason: StopBreakpoint, Cycles: cycles}, nil
		}
	}
}

// Step executes exactly one instruction: fetch, classify, decode, and
// dispatch -- everything but the breakpoint check, which Run performs
// after Step returns so a single Step can also be driven directly by a
// test or a future single-step command.
func (c *CPU) Step() error {
	pc := c.Reg.GetU(reg.PC)
	raw, err := c.Mem.ReadByte(pc)
	if err != nil {
		return fmt.Errorf("fetch at %06X: %w", pc, err)
	}

	masked := raw & 0xFC
	format, ok := c.Table.ClassifyByte(masked)
	if !ok {
		return fmt.Errorf("PC %06X: unsupported opcode byte %02X", pc, raw)
	}

	switch format {
	case opcode.F1:
		c.Reg.SetU(reg.PC, pc+1)
		return c.execF1(masked)
	case opcode.F2:
		b1, err := c.Mem.ReadByte(pc + 1)
		if err != nil {
			return fmt.Errorf("fetch operand at %06X: %w", pc+1, err)
		}
		c.Reg.SetU(reg.PC, pc+2)
		return c.execF2(masked, b1)
	case opcode.F34:
		return c.stepF34(pc, raw, masked)
	default:
		return fmt.Errorf("PC %06X: unclassified opcode byte %02X", pc, raw)
	}
}
