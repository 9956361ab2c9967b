package cpu

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies one entry of the instruction table.
type Op int

// Instruction table, the comment lists the opcode pattern.
const (
	OpInvalid       Op = iota
	OpClear            // 00E0
	OpReturn           // 00EE
	OpJump             // 1NNN
	OpCall             // 2NNN
	OpSkipEqImm        // 3XKK
	OpSkipNeImm        // 4XKK
	OpSkipEqReg        // 5XY0
	OpLoadImm          // 6XKK
	OpAddImm           // 7XKK
	OpLoadReg          // 8XY0
	OpOr               // 8XY1
	OpAnd              // 8XY2
	OpXor              // 8XY3
	OpAddReg           // 8XY4
	OpSub              // 8XY5
	OpShiftRight       // 8XY6
	OpSubN             // 8XY7
	OpShiftLeft        // 8XYE
	OpSkipNeReg        // 9XY0
	OpLoadIndex        // ANNN
	OpJumpOffset       // BNNN
	OpRandom           // CXKK
	OpDraw             // DXYN
	OpSkipKey          // EX9E
	OpSkipNotKey       // EXA1
	OpLoadDelay        // FX07
	OpWaitKey          // FX0A
	OpSetDelay         // FX15
	OpSetSound         // FX18
	OpAddIndex         // FX1E
	OpLoadFont         // FX29
	OpStoreBCD         // FX33
	OpStoreRegisters   // FX55
	OpLoadRegisters    // FX65
)

// instructions maps every op to its instruction definition.
var instructions = map[Op]*chip8.Instruction{
	OpClear:          chip8.ClsInst,
	OpReturn:         chip8.RetInst,
	OpJump:           chip8.JpInst,
	OpCall:           chip8.CallInst,
	OpSkipEqImm:      chip8.SeInst,
	OpSkipNeImm:      chip8.SneInst,
	OpSkipEqReg:      chip8.SeInst,
	OpLoadImm:        chip8.LdInst,
	OpAddImm:         chip8.AddInst,
	OpLoadReg:        chip8.LdInst,
	OpOr:             chip8.OrInst,
	OpAnd:            chip8.AndInst,
	OpXor:            chip8.XorInst,
	OpAddReg:         chip8.AddInst,
	OpSub:            chip8.SubInst,
	OpShiftRight:     chip8.ShrInst,
	OpSubN:           chip8.SubnInst,
	OpShiftLeft:      chip8.ShlInst,
	OpSkipNeReg:      chip8.SneInst,
	OpLoadIndex:      chip8.LdInst,
	OpJumpOffset:     chip8.JpInst,
	OpRandom:         chip8.RndInst,
	OpDraw:           chip8.DrwInst,
	OpSkipKey:        chip8.SkpInst,
	OpSkipNotKey:     chip8.SknpInst,
	OpLoadDelay:      chip8.LdInst,
	OpWaitKey:        chip8.LdInst,
	OpSetDelay:       chip8.LdInst,
	OpSetSound:       chip8.LdInst,
	OpAddIndex:       chip8.AddInst,
	OpLoadFont:       chip8.LdInst,
	OpStoreBCD:       chip8.LdInst,
	OpStoreRegisters: chip8.LdInst,
	OpLoadRegisters:  chip8.LdInst,
}

// opcodeOps maps every opcode pattern of the instruction table to its op.
var opcodeOps = map[chip8.OpcodeInfo]Op{
	chip8.Opcode00E0: OpClear,
	chip8.Opcode00EE: OpReturn,
	chip8.Opcode1000: OpJump,
	chip8.Opcode2000: OpCall,
	chip8.Opcode3000: OpSkipEqImm,
	chip8.Opcode4000: OpSkipNeImm,
	chip8.Opcode5000: OpSkipEqReg,
	chip8.Opcode6000: OpLoadImm,
	chip8.Opcode7000: OpAddImm,
	chip8.Opcode8000: OpLoadReg,
	chip8.Opcode8001: OpOr,
	chip8.Opcode8002: OpAnd,
	chip8.Opcode8003: OpXor,
	chip8.Opcode8004: OpAddReg,
	chip8.Opcode8005: OpSub,
	chip8.Opcode8006: OpShiftRight,
	chip8.Opcode8007: OpSubN,
	chip8.Opcode800E: OpShiftLeft,
	chip8.Opcode9000: OpSkipNeReg,
	chip8.OpcodeA000: OpLoadIndex,
	chip8.OpcodeB000: OpJumpOffset,
	chip8.OpcodeC000: OpRandom,
	chip8.OpcodeD000: OpDraw,
	chip8.OpcodeE09E: OpSkipKey,
	chip8.OpcodeE0A1: OpSkipNotKey,
	chip8.OpcodeF007: OpLoadDelay,
	chip8.OpcodeF00A: OpWaitKey,
	chip8.OpcodeF015: OpSetDelay,
	chip8.OpcodeF018: OpSetSound,
	chip8.OpcodeF01E: OpAddIndex,
	chip8.OpcodeF029: OpLoadFont,
	chip8.OpcodeF033: OpStoreBCD,
	chip8.OpcodeF055: OpStoreRegisters,
	chip8.OpcodeF065: OpLoadRegisters,
}

// Instruction returns the instruction definition of the op or nil for OpInvalid.
func (o Op) Instruction() *chip8.Instruction {
	return instructions[o]
}

// Name returns the mnemonic of the op.
func (o Op) Name() string {
	ins := o.Instruction()
	if ins == nil {
		return ""
	}
	return ins.Name
}

// IsSkip returns true if the op conditionally skips the next instruction.
func (o Op) IsSkip() bool {
	ins := o.Instruction()
	if ins == nil {
		return false
	}
	return chip8.SkipInstructions.Contains(ins.Name)
}

// Instruction is a decoded opcode with its operand fields extracted.
type Instruction struct {
	Op     Op
	Opcode uint16

	X   byte   // register index from bits 8-11
	Y   byte   // register index from bits 4-7
	N   byte   // 4 bit immediate from bits 0-3
	KK  byte   // 8 bit immediate from bits 0-7
	NNN uint16 // 12 bit address from bits 0-11
}

// Decode returns the instruction for the given opcode by matching it against
// the opcode patterns of its first nibble.
// Opcode values outside of the instruction table return an *UnknownOpcodeError
// with the Address field left for the caller to fill in.
func Decode(opcode uint16) (Instruction, error) {
	ins := Instruction{
		Opcode: opcode,
		X:      byte(opcode >> 8 & 0x0F),
		Y:      byte(opcode >> 4 & 0x0F),
		N:      byte(opcode & 0x0F),
		KK:     byte(opcode & 0xFF),
		NNN:    opcode & 0x0FFF,
	}

	for _, op := range chip8.Opcodes[opcode>>12] {
		if opcode&op.Info.Mask != op.Info.Value {
			continue
		}
		ins.Op = opcodeOps[op.Info]
		return ins, nil
	}
	return ins, &UnknownOpcodeError{Opcode: opcode}
}
