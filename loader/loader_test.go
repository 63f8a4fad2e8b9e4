package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mujjingun/sicxe/mem"
)

func writeObj(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// TestLoadSingleSectionZeroFill loads a single section of length 6 whose
// text record is all zero bytes at 0x3000, and checks that
// 0x3000..0x3005 stays zero and PC is seeded at 0x3000.
func TestLoadSingleSectionZeroFill(t *testing.T) {
	obj := "HZERO  000000000006\n" +
		"T00000006000000000000\n" +
		"E000000\n"
	path := writeObj(t, "zero.obj", obj)

	img := mem.New()
	res, err := Load([]string{path}, 0x3000, img)
	require.NoError(t, err)

	require.True(t, res.HasEntry)
	assert.Equal(t, uint32(0x3000), res.Entry)

	bytes, err := img.ReadBytes(0x3000, 6)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 6), bytes)
}

// TestLoadTwoSectionsAppliesModRecord links section A (length 10, entry
// 0), which references external SUB in section B (length 6, extdef SUB
// at offset 4) via a modification record at A+3 width 5. After loading
// at progaddr 0x4000, the field at 0x4003 equals its original value plus
// the resolved address of SUB (0x4000+10+4).
func TestLoadTwoSectionsAppliesModRecord(t *testing.T) {
	// Section A: 10 bytes, all zero except the 3-byte field at offset 3
	// which starts as zero and will be bumped by the mod record.
	objA := "HA     00000000000A\n" +
		"T0000000A00000000000000000000\n" +
		"R02SUB   \n" +
		"M00000305+02\n" +
		"E000000\n"
	// Section B: 6 bytes, external definition SUB at offset 4.
	objB := "HB     000000000006\n" +
		"DSUB   000004\n" +
		"T000000060000000000AB\n"

	pathA := writeObj(t, "a.obj", objA)
	pathB := writeObj(t, "b.obj", objB)

	img := mem.New()
	res, err := Load([]string{pathA, pathB}, 0x4000, img)
	require.NoError(t, err)

	subAddr := uint32(0x4000 + 10 + 4)
	v, err := img.Read24(0x4003)
	require.NoError(t, err)
	assert.Equal(t, subAddr&0xFFFFFF, v)

	assert.True(t, res.HasEntry)
	assert.Equal(t, uint32(0x4000), res.Entry)
	assert.Equal(t, uint32(16), res.TotalBytes)

	symAddr, ok := res.Symbols.Find("SUB")
	require.True(t, ok)
	assert.Equal(t, subAddr, symAddr)
}

func TestLoadDuplicateSectionNameIsError(t *testing.T) {
	obj := "HDUP   000000000002\nT00000002AABB\n"
	path1 := writeObj(t, "a.obj", obj)
	path2 := writeObj(t, "b.obj", obj)

	img := mem.New()
	_, err := Load([]string{path1, path2}, 0, img)
	assert.Error(t, err)
}

func TestLoadTooManyFilesIsError(t *testing.T) {
	obj := "HA     000000000001\nT00000001AA\n"
	path := writeObj(t, "a.obj", obj)
	img := mem.New()
	_, err := Load([]string{path, path, path, path}, 0, img)
	assert.Error(t, err)
}

func TestLoadOverflowingImageIsError(t *testing.T) {
	obj := "HBIG   000000000010\nT00000010000102030405060708090A0B0C0D0E0F\n"
	path := writeObj(t, "big.obj", obj)
	img := mem.New()
	_, err := Load([]string{path}, mem.Size-1, img)
	assert.Error(t, err)
}

func TestFormatLinkMap(t *testing.T) {
	res := &Result{
		LinkMap: []LinkMapEntry{
			{Name: "A", Addr: 0x4000, Length: 0x0A, IsDef: false},
			{Name: "SUB", Addr: 0x4004, IsDef: true},
		},
		TotalBytes: 0x0A,
	}
	lines := FormatLinkMap(res)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "A")
	assert.Contains(t, lines[1], "SUB")
	assert.Contains(t, lines[2], "total length")
}
