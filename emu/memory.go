package emu

import (
	"encoding/binary"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// DefaultMemorySize is the capacity, in bytes, of a memory created without
// an explicit size.
const DefaultMemorySize = 1024

// Memory is a fixed-capacity, byte-addressable, little-endian store.
// Every access is bounds-checked before any byte is touched, so a faulting
// write never leaves memory partially updated.
type Memory struct {
	storage  *mem.Storage
	capacity uint64
}

// NewMemory creates a zero-filled memory of the given capacity in bytes.
func NewMemory(capacity uint64) *Memory {
	return &Memory{
		storage:  mem.NewStorage(capacity),
		capacity: capacity,
	}
}

// Capacity returns the number of addressable bytes.
func (m *Memory) Capacity() uint64 {
	return m.capacity
}

func (m *Memory) check(addr uint32, size uint64, write bool) error {
	if uint64(addr)+size > m.capacity {
		return &MemoryFaultError{
			Addr:     addr,
			Size:     size,
			Capacity: m.capacity,
			Write:    write,
		}
	}
	return nil
}

// Read returns a copy of size bytes starting at addr.
func (m *Memory) Read(addr uint32, size uint64) ([]byte, error) {
	if err := m.check(addr, size, false); err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}

	data, err := m.storage.Read(uint64(addr), size)
	if err != nil {
		return nil, &MemoryFaultError{Addr: addr, Size: size, Capacity: m.capacity}
	}

	out := make([]byte, size)
	copy(out, data)
	return out, nil
}

// Write stores data starting at addr. Either every byte is written or,
// on a fault, none is.
func (m *Memory) Write(addr uint32, data []byte) error {
	size := uint64(len(data))
	if err := m.check(addr, size, true); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}

	if err := m.storage.Write(uint64(addr), data); err != nil {
		return &MemoryFaultError{Addr: addr, Size: size, Capacity: m.capacity, Write: true}
	}
	return nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) (uint8, error) {
	b, err := m.Read(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) (uint16, error) {
	b, err := m.Read(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	b, err := m.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value uint8) error {
	return m.Write(addr, []byte{value})
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) error {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, value)
	return m.Write(addr, buf)
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	return m.Write(addr, buf)
}

// LoadWords writes consecutive little-endian instruction words starting at
// addr.
func (m *Memory) LoadWords(addr uint32, words []uint32) error {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return m.Write(addr, buf)
}
