package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		op     Op
	}{
		{"clear", 0x00E0, OpClear},
		{"return", 0x00EE, OpReturn},
		{"jump", 0x1234, OpJump},
		{"call", 0x2ABC, OpCall},
		{"skip equal immediate", 0x3A12, OpSkipEqImm},
		{"skip not equal immediate", 0x4A12, OpSkipNeImm},
		{"skip equal register", 0x5AB0, OpSkipEqReg},
		{"load immediate", 0x6A12, OpLoadImm},
		{"add immediate", 0x7A12, OpAddImm},
		{"load register", 0x8AB0, OpLoadReg},
		{"or", 0x8AB1, OpOr},
		{"and", 0x8AB2, OpAnd},
		{"xor", 0x8AB3, OpXor},
		{"add register", 0x8AB4, OpAddReg},
		{"sub", 0x8AB5, OpSub},
		{"shift right", 0x8AB6, OpShiftRight},
		{"subn", 0x8AB7, OpSubN},
		{"shift left", 0x8ABE, OpShiftLeft},
		{"skip not equal register", 0x9AB0, OpSkipNeReg},
		{"load index", 0xA123, OpLoadIndex},
		{"jump offset", 0xB123, OpJumpOffset},
		{"random", 0xCA0F, OpRandom},
		{"draw", 0xDAB5, OpDraw},
		{"skip key", 0xEA9E, OpSkipKey},
		{"skip not key", 0xEAA1, OpSkipNotKey},
		{"load delay", 0xFA07, OpLoadDelay},
		{"wait key", 0xFA0A, OpWaitKey},
		{"set delay", 0xFA15, OpSetDelay},
		{"set sound", 0xFA18, OpSetSound},
		{"add index", 0xFA1E, OpAddIndex},
		{"load font", 0xFA29, OpLoadFont},
		{"store bcd", 0xFA33, OpStoreBCD},
		{"store registers", 0xFA55, OpStoreRegisters},
		{"load registers", 0xFA65, OpLoadRegisters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, err := Decode(tt.opcode)
			assert.NoError(t, err)
			assert.Equal(t, tt.op, ins.Op)
			assert.Equal(t, tt.opcode, ins.Opcode)
		})
	}
}

func TestDecode_Fields(t *testing.T) {
	ins, err := Decode(0xD3A7)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x3), ins.X)
	assert.Equal(t, byte(0xA), ins.Y)
	assert.Equal(t, byte(0x7), ins.N)
	assert.Equal(t, byte(0xA7), ins.KK)
	assert.Equal(t, uint16(0x3A7), ins.NNN)
}

func TestDecode_Unknown(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
	}{
		{"system call", 0x0123},
		{"zero", 0x0000},
		{"skip equal register with low nibble", 0x5AB1},
		{"alu group gap", 0x8AB8},
		{"alu group high", 0x8ABF},
		{"skip not equal register with low nibble", 0x9AB3},
		{"key group", 0xEA00},
		{"misc group", 0xFA00},
		{"all bits set", 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, err := Decode(tt.opcode)
			assert.Error(t, err)
			assert.Equal(t, OpInvalid, ins.Op)
			assert.True(t, errors.Is(err, ErrUnknownOpcode))

			var unknown *UnknownOpcodeError
			assert.True(t, errors.As(err, &unknown))
			assert.Equal(t, tt.opcode, unknown.Opcode)
		})
	}
}

func TestDecode_OpcodeTable(t *testing.T) {
	count := 0
	for nibble, opcodes := range chip8.Opcodes {
		for _, op := range opcodes {
			ins, err := Decode(op.Info.Value | ^op.Info.Mask&0x0FFF)
			assert.NoError(t, err, "nibble %X value %04X", nibble, op.Info.Value)
			assert.NotEqual(t, OpInvalid, ins.Op)
			assert.True(t, ins.Op.Instruction() == op.Instruction, "instruction of %04X", op.Info.Value)
			count++
		}
	}
	assert.Equal(t, len(opcodeOps), count)
}

func TestOp_Instruction(t *testing.T) {
	tests := []struct {
		op       Op
		expected *chip8.Instruction
	}{
		{OpClear, chip8.ClsInst},
		{OpReturn, chip8.RetInst},
		{OpJumpOffset, chip8.JpInst},
		{OpShiftRight, chip8.ShrInst},
		{OpSkipNotKey, chip8.SknpInst},
		{OpStoreRegisters, chip8.LdInst},
		{OpAddIndex, chip8.AddInst},
	}

	for _, tt := range tests {
		t.Run(tt.expected.Name, func(t *testing.T) {
			assert.True(t, tt.op.Instruction() == tt.expected)
		})
	}
	assert.Nil(t, OpInvalid.Instruction())
}

func TestOp_Name(t *testing.T) {
	tests := []struct {
		op       Op
		expected string
	}{
		{OpClear, "cls"},
		{OpReturn, "ret"},
		{OpJump, "jp"},
		{OpJumpOffset, "jp"},
		{OpCall, "call"},
		{OpLoadImm, "ld"},
		{OpAddIndex, "add"},
		{OpShiftLeft, "shl"},
		{OpDraw, "drw"},
		{OpInvalid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.op.Name())
		})
	}
}

func TestOp_IsSkip(t *testing.T) {
	assert.True(t, OpSkipEqImm.IsSkip())
	assert.True(t, OpSkipNeReg.IsSkip())
	assert.True(t, OpSkipKey.IsSkip())
	assert.True(t, OpSkipNotKey.IsSkip())
	assert.False(t, OpJump.IsSkip())
	assert.False(t, OpLoadImm.IsSkip())
	assert.False(t, OpInvalid.IsSkip())
}
