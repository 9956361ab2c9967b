// Package machine composes memory, CPU and display into a CHIP-8 virtual machine.
//
// The machine owns no real time: the host drives it by calling Step at the
// instruction rate and TickTimers at the timer rate. It is not safe for
// concurrent use, all calls have to come from the same goroutine.
package machine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/display"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

var (
	// ErrNotLoaded is returned when stepping before a program was loaded.
	ErrNotLoaded = errors.New("no program loaded")
	// ErrHalted is returned when stepping a halted machine.
	ErrHalted = errors.New("machine is halted")
	// ErrNotResumable is returned when resuming a machine that is not halted
	// on an unknown opcode.
	ErrNotResumable = errors.New("machine can not be resumed")
)

// Config contains the machine configuration.
type Config struct {
	// Quirks of the zero value are all disabled, DefaultConfig enables the
	// default profile.
	Quirks cpu.Quirks

	// Random returns the random bytes used by CXKK. If nil, a PCG source
	// seeded with Seed is used.
	Random func() byte
	Seed   uint64

	// Logger is optional, without it only errors are logged.
	Logger *log.Logger
	// Trace logs every executed instruction at debug level.
	Trace bool
}

// DefaultConfig returns a configuration using the default quirk profile.
func DefaultConfig() Config {
	return Config{
		Quirks: cpu.DefaultQuirks(),
	}
}

// Machine is a CHIP-8 virtual machine.
type Machine struct {
	logger *log.Logger
	trace  bool

	memory  *memory.Memory
	display *display.Display
	cpu     *cpu.CPU

	state   State
	program []byte
	fault   error

	wait keyWait
}

// keyWait tracks the key events of a pending FX0A instruction.
type keyWait struct {
	register byte
	key      byte
	pressed  bool // key was pressed while waiting
}

// New returns a new machine in the Uninitialized state.
func New(cfg Config) *Machine {
	logger := cfg.Logger
	if logger == nil {
		logCfg := log.DefaultConfig()
		logCfg.Level = log.ErrorLevel
		logger = log.NewWithConfig(logCfg)
	}

	random := cfg.Random
	if random == nil {
		rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9E3779B97F4A7C15))
		random = func() byte {
			return byte(rng.UintN(256))
		}
	}

	mem := memory.New()
	disp := display.New()

	return &Machine{
		logger:  logger,
		trace:   cfg.Trace,
		memory:  mem,
		display: disp,
		cpu:     cpu.New(mem, disp, cfg.Quirks, random),
		state:   Uninitialized,
	}
}

// Load resets the machine and loads the program at the program start address.
// On error the machine is not modified.
func (m *Machine) Load(program []byte) error {
	if err := m.memory.LoadProgram(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	m.program = append(m.program[:0], program...)
	m.display.Clear()
	m.cpu.Reset()
	m.fault = nil
	m.wait = keyWait{}
	m.setState(Ready)

	m.logger.Debug("Program loaded", log.Int("size", len(program)))
	return nil
}

// Reset reloads the last loaded program and starts over.
func (m *Machine) Reset() error {
	if m.state == Uninitialized {
		return ErrNotLoaded
	}
	return m.Load(m.program)
}

// Step executes a single instruction. While waiting for a key it checks the
// keypad instead. Execution faults halt the machine with the program counter
// pointing to the faulting instruction and are returned.
func (m *Machine) Step() error {
	switch m.state {
	case Uninitialized:
		return ErrNotLoaded
	case Halted:
		return ErrHalted
	case AwaitingKey:
		m.pollKey()
		return nil
	case Ready:
		m.setState(Running)
	default:
	}

	regs := &m.cpu.Registers
	address := regs.PC

	opcode, err := m.cpu.Fetch()
	if err != nil {
		return m.halt(address, err)
	}

	ins, err := cpu.Decode(opcode)
	if err != nil {
		return m.halt(address, err)
	}

	if m.trace {
		m.logger.Debug("Executing instruction",
			log.Hex("address", address),
			log.Hex("opcode", opcode),
			log.String("instruction", disasm.FormatInstruction(ins)))
	}

	regs.PC += cpu.InstructionSize
	outcome, err := m.cpu.Execute(ins)
	if err != nil {
		return m.halt(address, err)
	}

	if outcome == cpu.WaitKey {
		regs.PC = address
		m.wait = keyWait{register: ins.X}
		m.setState(AwaitingKey)
	}
	return nil
}

// Resume continues execution after a halt on an unknown opcode by skipping
// the offending instruction. All other faults require a Reset.
func (m *Machine) Resume() error {
	if m.state != Halted || !errors.Is(m.fault, cpu.ErrUnknownOpcode) {
		return ErrNotResumable
	}

	m.cpu.Registers.PC += cpu.InstructionSize
	m.fault = nil
	m.setState(Running)
	return nil
}

// TickTimers decrements the delay and sound timers by one.
// It can be called in any state.
func (m *Machine) TickTimers() {
	m.cpu.Timers.Tick()
}

// SetKey updates the pressed state of a key.
func (m *Machine) SetKey(key byte, pressed bool) error {
	if err := m.cpu.Keypad.SetKey(key, pressed); err != nil {
		return err
	}
	if m.state != AwaitingKey {
		return nil
	}

	if pressed && !m.wait.pressed {
		m.wait.key = key
		m.wait.pressed = true
	}
	return nil
}

// IsKeyDown returns whether the key is pressed.
func (m *Machine) IsKeyDown(key byte) bool {
	return m.cpu.Keypad.IsKeyDown(key)
}

// SoundActive returns whether the sound timer is running.
func (m *Machine) SoundActive() bool {
	return m.cpu.Timers.SoundActive()
}

// PixelAt returns whether the pixel at the wrapped coordinates is set.
func (m *Machine) PixelAt(x, y int) bool {
	return m.display.PixelAt(x, y)
}

// Display returns the framebuffer. It must only be modified by the machine,
// callers are allowed to use ResetDirty after presenting it.
func (m *Machine) Display() *display.Display {
	return m.display
}

// InstructionAt returns the disassembly of the instruction stored at the address.
func (m *Machine) InstructionAt(address uint16) (string, error) {
	b, err := m.memory.ReadRange(address, cpu.InstructionSize)
	if err != nil {
		return "", fmt.Errorf("reading instruction: %w", err)
	}
	return disasm.Format(uint16(b[0])<<8 | uint16(b[1])), nil
}

// State returns the run state.
func (m *Machine) State() State {
	return m.state
}

// Fault returns the error that halted the machine or nil.
func (m *Machine) Fault() error {
	return m.fault
}

// pollKey completes a pending FX0A instruction if the key events seen so far
// satisfy it.
func (m *Machine) pollKey() {
	keypad := &m.cpu.Keypad
	w := &m.wait

	if m.cpu.Quirks().WaitForKeyRelease {
		if !w.pressed {
			key, ok := keypad.Pressed()
			if !ok {
				return
			}
			w.key = key
			w.pressed = true
		}
		// the first pressed key is stored once all keys are released
		if keypad.AnyPressed() {
			return
		}
		m.completeKeyWait(w.key)
		return
	}

	if key, ok := keypad.Pressed(); ok {
		m.completeKeyWait(key)
		return
	}
	if w.pressed {
		m.completeKeyWait(w.key)
	}
}

func (m *Machine) completeKeyWait(key byte) {
	regs := &m.cpu.Registers
	regs.V[m.wait.register] = key
	regs.PC += cpu.InstructionSize
	m.wait = keyWait{}
	m.setState(Running)
}

// halt records the fault, restores the program counter to the faulting
// instruction and stops execution.
func (m *Machine) halt(address uint16, err error) error {
	var unknown *cpu.UnknownOpcodeError
	if errors.As(err, &unknown) {
		unknown.Address = address
	}

	m.cpu.Registers.PC = address
	m.fault = err
	m.setState(Halted)

	m.logger.Warn("Execution halted",
		log.Hex("address", address),
		log.Err(err))
	return err
}

func (m *Machine) setState(state State) {
	if m.state == state {
		return
	}
	m.logger.Debug("State changed",
		log.Stringer("from", m.state),
		log.Stringer("to", state))
	m.state = state
}
