package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// countingProgram increments V0 in an endless loop.
var countingProgram = []byte{
	0x70, 0x01, // add V0, $01
	0x12, 0x00, // jp $200
}

func newTestRunner(t *testing.T, program []byte, cfg Config) (*Runner, *machine.Machine) {
	t.Helper()
	logger := log.NewTestLogger(t)
	cfg := machine.DefaultConfig()
	cfg.Logger = logger
	m := machine.New(cfg)
	assert.NoError(t, m.Load(program))

	r, err := New(logger, m, cfg)
	assert.NoError(t, err)
	return r, m
}

func TestNew_InvalidRate(t *testing.T) {
	logger := log.NewTestLogger(t)
	cfg := machine.DefaultConfig()
	cfg.Logger = logger
	m := machine.New(cfg)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero instruction rate", Config{InstructionsPerSecond: 0, TimerHz: 60}},
		{"negative timer rate", Config{InstructionsPerSecond: 700, TimerHz: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(logger, m, tt.cfg)
			assert.True(t, errors.Is(err, ErrInvalidRate))
		})
	}
}

func TestRunner_RunFrameInstructionBudget(t *testing.T) {
	r, m := newTestRunner(t, countingProgram, Config{
		InstructionsPerSecond: 700,
		TimerHz:               60,
	})

	// 700 instructions per second at 60 Hz are 11 or 12 per frame
	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(6), m.Snapshot().V[0])

	for range 59 {
		assert.NoError(t, r.RunFrame())
	}
	assert.Equal(t, 60, r.Frames())
	// 700 instructions in one second, every second instruction increments V0
	assert.Equal(t, byte(350%256), m.Snapshot().V[0])
}

func TestRunner_RunFrameTicksTimers(t *testing.T) {
	program := []byte{
		0x60, 0x02, // ld V0, $02
		0xF0, 0x18, // ld ST, V0
		0x12, 0x04, // jp $204
	}
	speaker := &mockSpeaker{}
	r, m := newTestRunner(t, program, Config{
		InstructionsPerSecond: 120,
		TimerHz:               60,
		Speaker:               speaker,
	})

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(1), m.Snapshot().Sound)
	assert.Equal(t, []bool{true}, speaker.changes)

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(0), m.Snapshot().Sound)
	assert.Equal(t, []bool{true, false}, speaker.changes)

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, []bool{true, false}, speaker.changes)
}

func TestRunner_RendersOnlyChangedFrames(t *testing.T) {
	program := []byte{
		0xF0, 0x29, // ld F, V0
		0xD0, 0x05, // drw V0, V0, $5
		0x12, 0x04, // jp $204
	}
	renderer := &mockRenderer{}
	r, _ := newTestRunner(t, program, Config{
		InstructionsPerSecond: 60,
		TimerHz:               60,
		Renderer:              renderer,
	})

	// the display is dirty after load
	assert.NoError(t, r.RunFrame())
	assert.Len(t, renderer.frames, 1)

	assert.NoError(t, r.RunFrame())
	assert.Len(t, renderer.frames, 2)
	assert.Contains(t, renderer.frames[1], "####")

	assert.NoError(t, r.RunFrame())
	assert.NoError(t, r.RunFrame())
	assert.Len(t, renderer.frames, 2)
}

func TestRunner_RenderAlways(t *testing.T) {
	renderer := &mockRenderer{}
	r, _ := newTestRunner(t, countingProgram, Config{
		InstructionsPerSecond: 60,
		TimerHz:               60,
		Renderer:              renderer,
		RenderAlways:          true,
	})

	for range 3 {
		assert.NoError(t, r.RunFrame())
	}
	assert.Len(t, renderer.frames, 3)
}

func TestRunner_RenderError(t *testing.T) {
	r, _ := newTestRunner(t, countingProgram, Config{
		InstructionsPerSecond: 60,
		TimerHz:               60,
		Renderer:              &mockRenderer{fail: true},
	})

	err := r.RunFrame()
	assert.True(t, errors.Is(err, errRender))
}

func TestRunner_KeyEvents(t *testing.T) {
	program := []byte{
		0xF3, 0x0A, // ld V3, K
		0x12, 0x02, // jp $202
	}
	r, m := newTestRunner(t, program, Config{
		InstructionsPerSecond: 60,
		TimerHz:               60,
	})

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, machine.AwaitingKey, m.State())

	r.Keys() <- KeyEvent{Key: 0xC, Pressed: true}
	r.Keys() <- KeyEvent{Key: 0x42, Pressed: true}
	assert.NoError(t, r.RunFrame())
	assert.Equal(t, machine.Running, m.State())
	assert.Equal(t, byte(0xC), m.Snapshot().V[3])
	assert.True(t, m.IsKeyDown(0xC))

	r.Keys() <- KeyEvent{Key: 0xC, Pressed: false}
	assert.NoError(t, r.RunFrame())
	assert.False(t, m.IsKeyDown(0xC))
}

func TestRunner_Fault(t *testing.T) {
	r, m := newTestRunner(t, []byte{0xFF, 0xFF}, Config{
		InstructionsPerSecond: 600,
		TimerHz:               60,
	})

	err := r.RunFrame()
	assert.True(t, errors.Is(err, cpu.ErrUnknownOpcode))
	assert.Equal(t, machine.Halted, m.State())

	err = r.Run(context.Background())
	assert.True(t, errors.Is(err, machine.ErrHalted))
}

func TestRunner_RunMaxFrames(t *testing.T) {
	r, _ := newTestRunner(t, countingProgram, Config{
		InstructionsPerSecond: 1000,
		TimerHz:               1000,
		MaxFrames:             5,
	})

	assert.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 5, r.Frames())
}

func TestRunner_RunCancelled(t *testing.T) {
	r, _ := newTestRunner(t, countingProgram, Config{
		InstructionsPerSecond: 700,
		TimerHz:               60,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, r.Run(ctx))
	assert.Equal(t, 0, r.Frames())
}
