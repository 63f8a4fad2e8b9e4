package reg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGetSignExtension(t *testing.T) {
	f := New()
	f.SetU(A, 0xFFFFFF) // -1 in 24-bit two's complement
	assert.Equal(t, int32(-1), f.Get(A))
	assert.Equal(t, uint32(0xFFFFFF), f.GetU(A))
}

func TestSetTruncatesBeforeExtending(t *testing.T) {
	f := New()
	f.Set(X, 0x01FFFFFF) // only the low 24 bits matter
	assert.Equal(t, int32(-1), f.Get(X))
}

func TestSignExtend24(t *testing.T) {
	assert.Equal(t, int32(-1), SignExtend24(0xFFFFFF))
	assert.Equal(t, int32(0x7FFFFF), SignExtend24(0x7FFFFF))
	assert.Equal(t, int32(0), SignExtend24(0))
}

func TestCompareResultAndSign(t *testing.T) {
	f := New()
	f.SetSW(Less)
	assert.Equal(t, Less, f.Sign())
	f.SetSW(Greater)
	assert.Equal(t, Greater, f.Sign())
	f.SetSW(Equal)
	assert.Equal(t, Equal, f.Sign())
}

func TestFromNumberAndByMnemonic(t *testing.T) {
	name, ok := FromNumber(8)
	assert.True(t, ok)
	assert.Equal(t, PC, name)

	num, ok := NumberOf(SW)
	assert.True(t, ok)
	assert.Equal(t, 9, num)

	name, ok = ByMnemonic("B")
	assert.True(t, ok)
	assert.Equal(t, B, name)

	_, ok = FromNumber(7)
	assert.False(t, ok)
}
