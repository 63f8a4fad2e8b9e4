package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicReadByte(t *testing.T) {
	d := NewDeterministic()
	for i := 0; i < 100; i++ {
		assert.Equal(t, byte(0xFF), d.ReadByte())
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, byte(0x00), d.ReadByte())
	}
}

func TestDeterministicAlwaysReady(t *testing.T) {
	d := NewDeterministic()
	assert.True(t, d.TestReady())
}

// fakeDevice lets tests inject a non-default stream.
type fakeDevice struct {
	stream []byte
	pos    int
	ready  bool
}

func (f *fakeDevice) ReadByte() byte {
	if f.pos >= len(f.stream) {
		return 0
	}
	b := f.stream[f.pos]
	f.pos++
	return b
}

func (f *fakeDevice) TestReady() bool { return f.ready }

func TestFakeDeviceSatisfiesInterface(t *testing.T) {
	var d Device = &fakeDevice{stream: []byte{1, 2, 3}, ready: false}
	assert.Equal(t, byte(1), d.ReadByte())
	assert.False(t, d.TestReady())
}
