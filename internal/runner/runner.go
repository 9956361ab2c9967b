// Package runner drives a machine in real time.
//
// All machine calls happen on the goroutine executing Run, input from other
// goroutines is passed in through the key event channel and applied before
// every instruction.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

const keyBufferSize = 64

// ErrInvalidRate is returned for instruction or timer rates that are not positive.
var ErrInvalidRate = errors.New("rate must be positive")

// Renderer presents the framebuffer.
type Renderer interface {
	Render(d *display.Display) error
}

// Speaker plays the tone while the sound timer is active.
type Speaker interface {
	SetTone(on bool)
}

// KeyEvent is a key press or release of a host input device.
type KeyEvent struct {
	Key     byte
	Pressed bool
}

// Config contains the runner configuration.
type Config struct {
	InstructionsPerSecond int
	TimerHz               int
	MaxFrames             int // 0 runs until cancelled

	Renderer Renderer // optional
	Speaker  Speaker  // optional

	// RenderAlways renders every frame instead of only frames that changed
	// the framebuffer.
	RenderAlways bool
}

// Runner executes a machine at the configured instruction rate and
// decrements its timers at the timer rate. A frame is one timer period.
type Runner struct {
	logger  *log.Logger
	machine *machine.Machine
	cfg     Config
	keys    chan KeyEvent

	budget int // instruction budget carried between frames, scaled by TimerHz
	frames int
	tone   bool
}

// New returns a new runner for the machine.
func New(logger *log.Logger, m *machine.Machine, cfg Config) (*Runner, error) {
	if cfg.InstructionsPerSecond <= 0 {
		return nil, fmt.Errorf("instructions per second %d: %w", cfg.InstructionsPerSecond, ErrInvalidRate)
	}
	if cfg.TimerHz <= 0 {
		return nil, fmt.Errorf("timer frequency %d: %w", cfg.TimerHz, ErrInvalidRate)
	}

	return &Runner{
		logger:  logger,
		machine: m,
		cfg:     cfg,
		keys:    make(chan KeyEvent, keyBufferSize),
	}, nil
}

// Keys returns the channel that key events are sent to.
func (r *Runner) Keys() chan<- KeyEvent {
	return r.keys
}

// Frames returns the number of executed frames.
func (r *Runner) Frames() int {
	return r.frames
}

// Run executes frames paced by the timer rate until the context is cancelled,
// the frame limit is reached or the machine faults. A fault is returned.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Starting execution",
		log.Int("instructions_per_second", r.cfg.InstructionsPerSecond),
		log.Int("timer_hz", r.cfg.TimerHz))

	ticker := time.NewTicker(time.Second / time.Duration(r.cfg.TimerHz))
	defer ticker.Stop()

	for {
		if r.cfg.MaxFrames > 0 && r.frames >= r.cfg.MaxFrames {
			r.logger.Debug("Frame limit reached", log.Int("frames", r.frames))
			return nil
		}

		select {
		case <-ctx.Done():
			r.logger.Debug("Execution stopped", log.Int("frames", r.frames))
			return nil
		case <-ticker.C:
		}

		if err := r.RunFrame(); err != nil {
			return err
		}
	}
}

// RunFrame executes the instructions of one timer period, ticks the timers
// once and presents the results. Over multiple frames the number of executed
// instructions matches the instruction rate exactly.
func (r *Runner) RunFrame() error {
	r.budget += r.cfg.InstructionsPerSecond
	steps := r.budget / r.cfg.TimerHz
	r.budget -= steps * r.cfg.TimerHz

	for range steps {
		r.applyKeys()
		if err := r.machine.Step(); err != nil {
			return fmt.Errorf("executing frame %d: %w", r.frames, err)
		}
	}

	r.machine.TickTimers()
	r.frames++

	r.updateTone()
	return r.render()
}

// applyKeys drains all pending key events without blocking.
func (r *Runner) applyKeys() {
	for {
		select {
		case event := <-r.keys:
			if err := r.machine.SetKey(event.Key, event.Pressed); err != nil {
				r.logger.Warn("Ignoring key event", log.Err(err))
			}
		default:
			return
		}
	}
}

func (r *Runner) updateTone() {
	active := r.machine.SoundActive()
	if active == r.tone {
		return
	}
	r.tone = active
	if r.cfg.Speaker != nil {
		r.cfg.Speaker.SetTone(active)
	}
}

func (r *Runner) render() error {
	d := r.machine.Display()
	if r.cfg.Renderer == nil || (!d.Dirty() && !r.cfg.RenderAlways) {
		return nil
	}
	if err := r.cfg.Renderer.Render(d); err != nil {
		return fmt.Errorf("rendering frame %d: %w", r.frames, err)
	}
	d.ResetDirty()
	return nil
}
