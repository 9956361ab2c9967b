package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRegisters_Stack(t *testing.T) {
	var r Registers

	for i := range StackDepth {
		assert.NoError(t, r.Push(uint16(0x200+i*2)))
	}
	err := r.Push(0x400)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint8(StackDepth), r.SP())

	stack := r.Stack()
	assert.Len(t, stack, StackDepth)
	assert.Equal(t, uint16(0x200), stack[0])

	for i := StackDepth - 1; i >= 0; i-- {
		address, err := r.Pop()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x200+i*2), address)
	}
	_, err = r.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestRegisters_Reset(t *testing.T) {
	r := Registers{I: 0x300, PC: 0x400}
	r.V[3] = 9
	assert.NoError(t, r.Push(0x202))

	r.Reset()
	assert.Equal(t, Registers{}, r)
	assert.Empty(t, r.Stack())
}

func TestTimers_Tick(t *testing.T) {
	tests := []struct {
		name         string
		delay, sound byte
		ticks        int
	}{
		{"both count down", 5, 3, 2},
		{"floored at zero", 2, 1, 10},
		{"already zero", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timers := Timers{Delay: tt.delay, Sound: tt.sound}
			for range tt.ticks {
				timers.Tick()
			}
			assert.Equal(t, byte(max(0, int(tt.delay)-tt.ticks)), timers.Delay)
			assert.Equal(t, byte(max(0, int(tt.sound)-tt.ticks)), timers.Sound)
			assert.Equal(t, int(tt.sound) > tt.ticks, timers.SoundActive())
		})
	}
}

func TestKeypad(t *testing.T) {
	var k Keypad
	assert.False(t, k.AnyPressed())
	_, ok := k.Pressed()
	assert.False(t, ok)

	assert.NoError(t, k.SetKey(0xF, true))
	assert.NoError(t, k.SetKey(0x3, true))
	assert.True(t, k.IsKeyDown(0x3))
	assert.True(t, k.IsKeyDown(0x13))
	assert.False(t, k.IsKeyDown(0x4))
	assert.Equal(t, uint16(0x8008), k.Mask())

	key, ok := k.Pressed()
	assert.True(t, ok)
	assert.Equal(t, byte(0x3), key)

	assert.NoError(t, k.SetKey(0x3, false))
	assert.False(t, k.IsKeyDown(0x3))

	err := k.SetKey(0x10, true)
	assert.True(t, errors.Is(err, ErrInvalidKey))

	k.Reset()
	assert.False(t, k.AnyPressed())
}
