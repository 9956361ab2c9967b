package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is returned for opcode values that match no instruction.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrStackOverflow is returned when a call exceeds the stack depth.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when returning with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrInvalidKey is returned for key indexes outside of 0x0-0xF.
	ErrInvalidKey = errors.New("invalid key")
)

// UnknownOpcodeError describes an opcode that could not be decoded.
type UnknownOpcodeError struct {
	Opcode  uint16
	Address uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode $%04X at address $%04X", e.Opcode, e.Address)
}

// Is reports whether target is ErrUnknownOpcode.
func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}
