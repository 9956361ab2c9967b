// Package cpu implements the CHIP-8 register file, timers, keypad state and
// the instruction decoder and executor.
//
// The executor expects the program counter to already point to the instruction
// following the one being executed: jumps and calls overwrite it, skips advance
// it by another instruction.
package cpu

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/memory"
)

// InstructionSize is the size of every CHIP-8 instruction in bytes.
const InstructionSize = 2

// Memory is the address space the executor reads and writes.
type Memory interface {
	Read(address uint16) (byte, error)
	Write(address uint16, value byte) error
	ReadRange(address uint16, n int) ([]byte, error)
}

// Display is the framebuffer the executor draws on.
type Display interface {
	Clear()
	Draw(x, y byte, sprite []byte) bool
}

// Outcome tells the caller of Execute how to continue after an instruction.
type Outcome int

const (
	// Continue means the next instruction can be fetched.
	Continue Outcome = iota
	// WaitKey means execution is blocked until a key event completes the
	// FX0A instruction for the register X of the executed instruction.
	WaitKey
)

// CPU executes decoded instructions against its registers and the attached
// memory and display.
type CPU struct {
	Registers Registers
	Timers    Timers
	Keypad    Keypad

	quirks  Quirks
	random  func() byte
	memory  Memory
	display Display
}

// New returns a new CPU. The random function provides the bytes for CXKK.
func New(mem Memory, display Display, quirks Quirks, random func() byte) *CPU {
	return &CPU{
		quirks:  quirks,
		random:  random,
		memory:  mem,
		display: display,
	}
}

// Quirks returns the quirk configuration of the executor.
func (c *CPU) Quirks() Quirks {
	return c.quirks
}

// Reset clears registers, timers and keypad and sets the program counter
// to the program start.
func (c *CPU) Reset() {
	c.Registers.Reset()
	c.Registers.PC = memory.ProgramStart
	c.Timers = Timers{}
	c.Keypad.Reset()
}

// Fetch reads the big endian opcode at the program counter.
func (c *CPU) Fetch() (uint16, error) {
	data, err := c.memory.ReadRange(c.Registers.PC, InstructionSize)
	if err != nil {
		return 0, fmt.Errorf("fetching opcode: %w", err)
	}
	return uint16(data[0])<<8 | uint16(data[1]), nil
}

// Execute runs a single decoded instruction. All preconditions of an
// instruction are checked before any state is modified, a returned error
// means that registers, memory and display are unchanged.
func (c *CPU) Execute(ins Instruction) (Outcome, error) {
	r := &c.Registers

	switch ins.Op {
	case OpClear:
		c.display.Clear()

	case OpReturn:
		address, err := r.Pop()
		if err != nil {
			return Continue, err
		}
		r.PC = address

	case OpJump:
		r.PC = ins.NNN

	case OpCall:
		if err := r.Push(r.PC); err != nil {
			return Continue, err
		}
		r.PC = ins.NNN

	case OpSkipEqImm:
		c.skipIf(r.V[ins.X] == ins.KK)
	case OpSkipNeImm:
		c.skipIf(r.V[ins.X] != ins.KK)
	case OpSkipEqReg:
		c.skipIf(r.V[ins.X] == r.V[ins.Y])
	case OpSkipNeReg:
		c.skipIf(r.V[ins.X] != r.V[ins.Y])

	case OpLoadImm:
		r.V[ins.X] = ins.KK
	case OpAddImm:
		r.V[ins.X] += ins.KK

	case OpLoadReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpShiftRight, OpSubN, OpShiftLeft:
		c.executeALU(ins)

	case OpLoadIndex:
		r.I = ins.NNN

	case OpJumpOffset:
		offsetRegister := byte(0)
		if c.quirks.JumpWithOffsetUsesVX {
			offsetRegister = ins.X
		}
		r.PC = ins.NNN + uint16(r.V[offsetRegister])

	case OpRandom:
		r.V[ins.X] = c.random() & ins.KK

	case OpDraw:
		sprite, err := c.memory.ReadRange(r.I, int(ins.N))
		if err != nil {
			return Continue, fmt.Errorf("reading sprite: %w", err)
		}
		collision := c.display.Draw(r.V[ins.X], r.V[ins.Y], sprite)
		r.V[FlagRegister] = boolToFlag(collision)

	case OpSkipKey:
		c.skipIf(c.Keypad.IsKeyDown(r.V[ins.X]))
	case OpSkipNotKey:
		c.skipIf(!c.Keypad.IsKeyDown(r.V[ins.X]))

	case OpLoadDelay:
		r.V[ins.X] = c.Timers.Delay
	case OpWaitKey:
		return c.waitKey(ins.X), nil
	case OpSetDelay:
		c.Timers.Delay = r.V[ins.X]
	case OpSetSound:
		c.Timers.Sound = r.V[ins.X]

	case OpAddIndex:
		r.I += uint16(r.V[ins.X])
	case OpLoadFont:
		r.I = memory.FontAddress(r.V[ins.X])

	case OpStoreBCD:
		return Continue, c.storeBCD(r.V[ins.X])
	case OpStoreRegisters:
		return Continue, c.storeRegisters(ins.X)
	case OpLoadRegisters:
		return Continue, c.loadRegisters(ins.X)

	default:
		return Continue, &UnknownOpcodeError{Opcode: ins.Opcode}
	}

	return Continue, nil
}

// executeALU runs the register to register arithmetic and logic group.
// VF is written after the result so that the flag wins if X is VF.
func (c *CPU) executeALU(ins Instruction) {
	r := &c.Registers
	vx, vy := r.V[ins.X], r.V[ins.Y]

	switch ins.Op {
	case OpLoadReg:
		r.V[ins.X] = vy

	case OpOr:
		r.V[ins.X] = vx | vy
		c.resetFlagOnLogic()
	case OpAnd:
		r.V[ins.X] = vx & vy
		c.resetFlagOnLogic()
	case OpXor:
		r.V[ins.X] = vx ^ vy
		c.resetFlagOnLogic()

	case OpAddReg:
		sum := uint16(vx) + uint16(vy)
		r.V[ins.X] = byte(sum)
		r.V[FlagRegister] = boolToFlag(sum > 0xFF)

	case OpSub:
		r.V[ins.X] = vx - vy
		r.V[FlagRegister] = boolToFlag(vx >= vy)

	case OpSubN:
		r.V[ins.X] = vy - vx
		r.V[FlagRegister] = boolToFlag(vy >= vx)

	case OpShiftRight:
		source := c.shiftSource(vx, vy)
		r.V[ins.X] = source >> 1
		r.V[FlagRegister] = source & 0x01

	case OpShiftLeft:
		source := c.shiftSource(vx, vy)
		r.V[ins.X] = source << 1
		r.V[FlagRegister] = source >> 7

	default:
	}
}

func (c *CPU) shiftSource(vx, vy byte) byte {
	if c.quirks.ShiftUsesVY {
		return vy
	}
	return vx
}

func (c *CPU) resetFlagOnLogic() {
	if c.quirks.ResetVFOnLogicOps {
		c.Registers.V[FlagRegister] = 0
	}
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.Registers.PC += InstructionSize
	}
}

// waitKey completes FX0A right away if a key is down and key release
// is not required, otherwise the caller has to wait for a key event.
func (c *CPU) waitKey(register byte) Outcome {
	if c.quirks.WaitForKeyRelease {
		return WaitKey
	}
	key, ok := c.Keypad.Pressed()
	if !ok {
		return WaitKey
	}
	c.Registers.V[register] = key
	return Continue
}

// storeBCD writes the hundreds, tens and ones digit of value to I, I+1 and I+2.
func (c *CPU) storeBCD(value byte) error {
	i := c.Registers.I
	if err := memory.CheckRange(i, 3); err != nil {
		return fmt.Errorf("storing BCD: %w", err)
	}

	digits := [3]byte{value / 100, value / 10 % 10, value % 10}
	for offset, digit := range digits {
		if err := c.memory.Write(i+uint16(offset), digit); err != nil {
			return fmt.Errorf("storing BCD: %w", err)
		}
	}
	return nil
}

// storeRegisters writes V0 to VX to memory starting at I.
func (c *CPU) storeRegisters(x byte) error {
	r := &c.Registers
	count := int(x) + 1
	if err := memory.CheckRange(r.I, count); err != nil {
		return fmt.Errorf("storing registers: %w", err)
	}

	for offset := range count {
		if err := c.memory.Write(r.I+uint16(offset), r.V[offset]); err != nil {
			return fmt.Errorf("storing registers: %w", err)
		}
	}
	c.advanceIndex(count)
	return nil
}

// loadRegisters reads V0 to VX from memory starting at I.
func (c *CPU) loadRegisters(x byte) error {
	r := &c.Registers
	count := int(x) + 1
	data, err := c.memory.ReadRange(r.I, count)
	if err != nil {
		return fmt.Errorf("loading registers: %w", err)
	}

	copy(r.V[:count], data)
	c.advanceIndex(count)
	return nil
}

func (c *CPU) advanceIndex(count int) {
	if c.quirks.LoadStoreIncrementsIndex {
		c.Registers.I += uint16(count)
	}
}

func boolToFlag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
