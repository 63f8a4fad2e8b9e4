package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteBytes(t *testing.T) {
	m := New()
	require.NoError(t, m.WriteBytes(0x1000, []byte{0x01, 0x02, 0x03}))
	got, err := m.ReadBytes(0x1000, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, got)
}

func TestReadWrite24(t *testing.T) {
	m := New()
	require.NoError(t, m.Write24(0x2000, 0xABCDEF))
	v, err := m.Read24(0x2000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xABCDEF), v)
}

func TestWrite24TruncatesToLow24Bits(t *testing.T) {
	m := New()
	require.NoError(t, m.Write24(0x2000, 0xFFABCDEF))
	v, err := m.Read24(0x2000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xABCDEF), v)
}

func TestOutOfRangeIsError(t *testing.T) {
	m := New()
	_, err := m.ReadByte(Size)
	assert.Error(t, err)

	err = m.WriteBytes(Size-1, []byte{1, 2})
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	m := New()
	require.NoError(t, m.WriteByte(0x500, 0xFF))
	m.Reset()
	b, err := m.ReadByte(0x500)
	require.NoError(t, err)
	assert.Equal(t, byte(0), b)
}
