package objfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHeaderPadsName(t *testing.T) {
	assert.Equal(t, "HCOPY  001000000006", FormatHeader("COPY", 0x1000, 0x06))
}

func TestFormatTextRecord(t *testing.T) {
	assert.Equal(t, "T00100003010203", FormatText(0x1000, []byte{0x01, 0x02, 0x03}))
}

func TestFormatModRecord(t *testing.T) {
	assert.Equal(t, "M00100105+01", FormatMod(0x1001, 5, Add, 1))
}

func TestFormatEndRecord(t *testing.T) {
	assert.Equal(t, "E001000", FormatEnd(0x1000))
}

func TestParseSectionRoundTrip(t *testing.T) {
	obj := strings.Join([]string{
		"HCOPY  001000000006",
		"T00100003010203",
		"M00100105+01",
		"E001000",
	}, "\n")

	sec, err := ParseSection(strings.NewReader(obj))
	require.NoError(t, err)

	assert.Equal(t, "COPY", sec.Name)
	assert.Equal(t, uint32(0x1000), sec.StartAddr)
	assert.Equal(t, uint32(0x06), sec.Length)
	require.Len(t, sec.Text, 1)
	assert.Equal(t, uint32(0x1000), sec.Text[0].Addr)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, sec.Text[0].Bytes)
	require.Len(t, sec.Mods, 1)
	assert.Equal(t, ModRecord{Addr: 0x1001, HalfBytes: 5, Sign: Add, RefIndex: 1}, sec.Mods[0])
	assert.True(t, sec.HasEntry)
	assert.Equal(t, uint32(0x1000), sec.Entry)
}

func TestParseSectionWithDefinesAndRefs(t *testing.T) {
	obj := strings.Join([]string{
		"HPROGA 000000000010",
		"DSUB   000004",
		"R02SUB   ",
		"T00000003010203",
	}, "\n")

	sec, err := ParseSection(strings.NewReader(obj))
	require.NoError(t, err)
	require.Len(t, sec.ExtDefs, 1)
	assert.Equal(t, "SUB", sec.ExtDefs[0].Name)
	assert.Equal(t, uint32(4), sec.ExtDefs[0].Offset)

	require.Len(t, sec.ExtRefs, 1)
	assert.Equal(t, 2, sec.ExtRefs[0].Index)
	assert.Equal(t, "SUB", sec.ExtRefs[0].Name)

	name, err := sec.RefName(1)
	require.NoError(t, err)
	assert.Equal(t, "PROGA", name)

	name, err = sec.RefName(2)
	require.NoError(t, err)
	assert.Equal(t, "SUB", name)

	_, err = sec.RefName(3)
	assert.Error(t, err)
}

func TestParseSectionRequiresHeader(t *testing.T) {
	_, err := ParseSection(strings.NewReader("T00000003010203\n"))
	assert.Error(t, err)
}

func TestParseSectionRejectsBadTextLength(t *testing.T) {
	_, err := ParseSection(strings.NewReader("HA     000000000003\nT0000001F" + strings.Repeat("AA", 0x1F)))
	assert.Error(t, err)
}
