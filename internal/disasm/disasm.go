// Package disasm renders CHIP-8 opcodes as assembly text.
// It is used for instruction tracing and for program listings.
package disasm

import (
	"fmt"
	"io"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/memory"
)

// Format returns the assembly representation of an opcode.
// Opcodes that do not decode to an instruction are rendered as data word.
func Format(opcode uint16) string {
	ins, err := cpu.Decode(opcode)
	if err != nil {
		return fmt.Sprintf(".word $%04X", opcode)
	}
	return FormatInstruction(ins)
}

// FormatInstruction returns the assembly representation of a decoded instruction.
func FormatInstruction(ins cpu.Instruction) string {
	name := ins.Op.Name()
	if params := formatParams(ins); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// Listing writes a linear disassembly of the program, assuming that it is
// loaded at the program start address. Every line contains the address,
// the instruction bytes and the instruction.
func Listing(w io.Writer, program []byte) error {
	address := uint16(memory.ProgramStart)

	for offset := 0; offset < len(program); offset += cpu.InstructionSize {
		var line string
		if offset+1 < len(program) {
			b1, b2 := program[offset], program[offset+1]
			opcode := uint16(b1)<<8 | uint16(b2)
			line = fmt.Sprintf("$%04X  %02X %02X  %s\n", address, b1, b2, Format(opcode))
		} else {
			b := program[offset]
			line = fmt.Sprintf("$%04X  %02X     .byte $%02X\n", address, b, b)
		}

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("writing listing line: %w", err)
		}
		address += cpu.InstructionSize
	}
	return nil
}

func formatParams(ins cpu.Instruction) string {
	switch ins.Op {
	case cpu.OpJump, cpu.OpCall:
		return fmt.Sprintf("$%03X", ins.NNN)
	case cpu.OpJumpOffset:
		return fmt.Sprintf("V0, $%03X", ins.NNN)

	case cpu.OpSkipEqImm, cpu.OpSkipNeImm, cpu.OpLoadImm, cpu.OpAddImm, cpu.OpRandom:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.KK)

	case cpu.OpSkipEqReg, cpu.OpSkipNeReg, cpu.OpLoadReg, cpu.OpOr, cpu.OpAnd,
		cpu.OpXor, cpu.OpAddReg, cpu.OpSub, cpu.OpSubN:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)

	case cpu.OpShiftRight, cpu.OpShiftLeft, cpu.OpSkipKey, cpu.OpSkipNotKey:
		return fmt.Sprintf("V%X", ins.X)

	case cpu.OpLoadIndex:
		return fmt.Sprintf("I, $%03X", ins.NNN)
	case cpu.OpDraw:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)

	default:
		return formatMiscParams(ins)
	}
}

// formatMiscParams formats the operands of the FX group.
func formatMiscParams(ins cpu.Instruction) string {
	switch ins.Op {
	case cpu.OpLoadDelay:
		return fmt.Sprintf("V%X, DT", ins.X)
	case cpu.OpWaitKey:
		return fmt.Sprintf("V%X, K", ins.X)
	case cpu.OpSetDelay:
		return fmt.Sprintf("DT, V%X", ins.X)
	case cpu.OpSetSound:
		return fmt.Sprintf("ST, V%X", ins.X)
	case cpu.OpAddIndex:
		return fmt.Sprintf("I, V%X", ins.X)
	case cpu.OpLoadFont:
		return fmt.Sprintf("F, V%X", ins.X)
	case cpu.OpStoreBCD:
		return fmt.Sprintf("B, V%X", ins.X)
	case cpu.OpStoreRegisters:
		return fmt.Sprintf("[I], V%X", ins.X)
	case cpu.OpLoadRegisters:
		return fmt.Sprintf("V%X, [I]", ins.X)
	default:
		return "" // cls, ret
	}
}
