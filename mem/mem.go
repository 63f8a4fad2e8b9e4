// Package mem implements the session's shared memory image: a flat,
// byte-addressable 1 MiB array mutated by the loader, read and written by
// the interpreter, and (outside this module's scope) the memory editor.
package mem

import "fmt"

// Size is the image size in bytes: 0x100000, a 20-bit address space.
const Size = 0x100000

// Image is the shared mutable memory of one session.
type Image struct {
	bytes [Size]byte
}

// New returns a zeroed memory image.
func New() *Image {
	return &Image{}
}

// Reset zeros the entire image.
func (m *Image) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}

func checkRange(addr uint32, length int) error {
	if addr >= Size || uint64(addr)+uint64(length) > Size {
		return fmt.Errorf("address %06X out of range (image size %06X)", addr, Size)
	}
	return nil
}

// ReadByte reads a single byte.
func (m *Image) ReadByte(addr uint32) (byte, error) {
	if err := checkRange(addr, 1); err != nil {
		return 0, err
	}
	return m.bytes[addr], nil
}

// WriteByte writes a single byte.
func (m *Image) WriteByte(addr uint32, v byte) error {
	if err := checkRange(addr, 1); err != nil {
		return err
	}
	m.bytes[addr] = v
	return nil
}

// ReadBytes copies length bytes starting at addr.
func (m *Image) ReadBytes(addr uint32, length int) ([]byte, error) {
	if err := checkRange(addr, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.bytes[addr:int(addr)+length])
	return out, nil
}

// WriteBytes copies data into the image starting at addr.
func (m *Image) WriteBytes(addr uint32, data []byte) error {
	if err := checkRange(addr, len(data)); err != nil {
		return err
	}
	copy(m.bytes[addr:int(addr)+len(data)], data)
	return nil
}

// Read24 reads a 24-bit big-endian unsigned value at addr.
func (m *Image) Read24(addr uint32) (uint32, error) {
	b, err := m.ReadBytes(addr, 3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// Write24 writes the low 24 bits of v, big-endian, at addr.
func (m *Image) Write24(addr uint32, v uint32) error {
	var b [3]byte
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
	return m.WriteBytes(addr, b[:])
}
