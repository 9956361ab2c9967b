package cpu

import "fmt"

// StackDepth is the maximum number of nested subroutine calls.
const StackDepth = 16

// FlagRegister is the index of VF, which doubles as carry, borrow and collision flag.
const FlagRegister = 0xF

// Registers contains the register file of the interpreter.
type Registers struct {
	V  [16]byte // general purpose registers V0-VF
	I  uint16   // index register
	PC uint16   // program counter

	stack [StackDepth]uint16
	sp    uint8
}

// Push stores a return address on the stack.
func (r *Registers) Push(address uint16) error {
	if int(r.sp) >= StackDepth {
		return fmt.Errorf("pushing return address $%04X: %w", address, ErrStackOverflow)
	}
	r.stack[r.sp] = address
	r.sp++
	return nil
}

// Pop removes and returns the most recent return address from the stack.
func (r *Registers) Pop() (uint16, error) {
	if r.sp == 0 {
		return 0, ErrStackUnderflow
	}
	r.sp--
	return r.stack[r.sp], nil
}

// SP returns the current stack depth.
func (r *Registers) SP() uint8 {
	return r.sp
}

// Stack returns a copy of the active stack frames, oldest first.
func (r *Registers) Stack() []uint16 {
	stack := make([]uint16, r.sp)
	copy(stack, r.stack[:r.sp])
	return stack
}

// Reset zeroes all registers and empties the stack.
func (r *Registers) Reset() {
	*r = Registers{}
}
