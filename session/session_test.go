package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mujjingun/sicxe/opcode"
	"github.com/mujjingun/sicxe/reg"
)

func mustTable(t *testing.T) *opcode.Table {
	t.Helper()
	table, err := opcode.LoadFrom(strings.NewReader("00 LDA 3/4\n"))
	require.NoError(t, err)
	return table
}

func TestNewSessionStartsEmpty(t *testing.T) {
	s := New(mustTable(t))
	assert.Equal(t, uint32(0), s.Reg.GetU(reg.A))
	assert.Empty(t, s.BP.List())
	_, ok := s.Symbols.Find("ANYTHING")
	assert.False(t, ok)
}

func TestResetZerosMemoryNotRegisters(t *testing.T) {
	s := New(mustTable(t))
	require.NoError(t, s.Mem.WriteByte(0x1000, 0xAB))
	s.Reg.SetU(reg.A, 0x0102AA)
	s.BP.Add(0x1000)

	s.Reset()

	b, err := s.Mem.ReadByte(0x1000)
	require.NoError(t, err)
	assert.Equal(t, byte(0), b)
	assert.Equal(t, uint32(0x0102AA), s.Reg.GetU(reg.A))
	assert.True(t, s.BP.Has(0x1000))
}

func TestDumpRegistersFormat(t *testing.T) {
	s := New(mustTable(t))
	s.Reg.SetU(reg.A, 0x000005)
	s.Reg.SetU(reg.PC, 0x001000)
	s.Reg.SetSW(reg.Equal)

	out := s.DumpRegisters()
	assert.Contains(t, out, "A=000005")
	assert.Contains(t, out, "PC=001000")
	assert.Contains(t, out, "SW=0")
}
