// Package memory provides the CHIP-8 address space.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter area, the font glyphs live at FontStart
//	0x200-0xFFF: User program space
package memory

import (
	"errors"
	"fmt"
)

const (
	// Size is the number of addressable bytes.
	Size = 0x1000

	// ProgramStart is the memory address where CHIP-8 programs are loaded and begin execution.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits between ProgramStart and the end of memory.
	MaxProgramSize = Size - ProgramStart
)

var (
	// ErrOutOfBounds is returned for accesses at or above Size.
	ErrOutOfBounds = errors.New("memory address out of bounds")
	// ErrCapacityExceeded is returned when a program does not fit into memory.
	ErrCapacityExceeded = errors.New("program exceeds memory capacity")
)

// Memory is a flat byte addressable store of Size bytes.
type Memory struct {
	data [Size]byte
}

// New returns a zeroed memory.
func New() *Memory {
	return &Memory{}
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) >= Size {
		return 0, fmt.Errorf("reading address $%04X: %w", address, ErrOutOfBounds)
	}
	return m.data[address], nil
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) >= Size {
		return fmt.Errorf("writing address $%04X: %w", address, ErrOutOfBounds)
	}
	m.data[address] = value
	return nil
}

// ReadRange returns a copy of n bytes starting at address.
// It fails without returning partial data if any byte lies outside of memory.
func (m *Memory) ReadRange(address uint16, n int) ([]byte, error) {
	if err := CheckRange(address, n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	copy(buf, m.data[address:int(address)+n])
	return buf, nil
}

// CheckRange verifies that the n bytes starting at address are addressable.
func CheckRange(address uint16, n int) error {
	if n < 0 || int(address)+n > Size {
		return fmt.Errorf("accessing %d bytes at $%04X: %w", n, address, ErrOutOfBounds)
	}
	return nil
}

// LoadProgram clears the memory, copies the font glyphs into the font region
// and the program bytes to ProgramStart. On failure the memory is not modified.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("program of %d bytes, maximum is %d: %w",
			len(program), MaxProgramSize, ErrCapacityExceeded)
	}

	m.data = [Size]byte{}
	copy(m.data[FontStart:], font[:])
	copy(m.data[ProgramStart:], program)
	return nil
}
