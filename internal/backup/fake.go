package backup

import "fmt"

// FakeRegisters is an in-memory test double for the backup register block.
type FakeRegisters struct {
	// Bytes holds the register contents. Pre-populate to simulate persisted
	// (or corrupt) state.
	Bytes [Size]byte

	// Writes records every WriteByte call in order.
	Writes []Write

	// ReadError, if set, will be returned by ReadByte.
	ReadError error

	// WriteError, if set, will be returned by WriteByte (the byte is not
	// stored).
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// Write is one recorded WriteByte call.
type Write struct {
	Offset int
	Value  byte
}

// NewFakeRegisters creates an all-zero FakeRegisters.
func NewFakeRegisters() *FakeRegisters {
	return &FakeRegisters{}
}

// SetU16 stores a little-endian 16-bit value at the given low offset,
// without recording writes. Useful for seeding test state.
func (f *FakeRegisters) SetU16(lo int, v uint16) {
	f.Bytes[lo] = byte(v & 0xFF)
	f.Bytes[lo+1] = byte(v >> 8)
}

// U16 reads back a little-endian 16-bit value at the given low offset.
func (f *FakeRegisters) U16(lo int) uint16 {
	return uint16(f.Bytes[lo]) | uint16(f.Bytes[lo+1])<<8
}

// ReadByte returns the stored byte.
func (f *FakeRegisters) ReadByte(offset int) (byte, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if offset < 0 || offset >= Size {
		return 0, fmt.Errorf("backup offset %d out of range", offset)
	}
	return f.Bytes[offset], nil
}

// WriteByte stores and records the byte.
func (f *FakeRegisters) WriteByte(offset int, b byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if offset < 0 || offset >= Size {
		return fmt.Errorf("backup offset %d out of range", offset)
	}
	f.Bytes[offset] = b
	f.Writes = append(f.Writes, Write{Offset: offset, Value: b})
	return nil
}

// Close marks the registers as closed.
func (f *FakeRegisters) Close() error {
	f.Closed = true
	return nil
}
