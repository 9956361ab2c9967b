package machine

// Snapshot is a copy of the machine state for debugging and tests.
type Snapshot struct {
	State State

	V     [16]byte
	I     uint16
	PC    uint16
	Stack []uint16

	Delay byte
	Sound byte
	Keys  uint16

	// WaitRegister is the register that receives the key while in AwaitingKey.
	WaitRegister byte
}

// Snapshot returns a copy of the current machine state.
func (m *Machine) Snapshot() Snapshot {
	regs := &m.cpu.Registers
	return Snapshot{
		State:        m.state,
		V:            regs.V,
		I:            regs.I,
		PC:           regs.PC,
		Stack:        regs.Stack(),
		Delay:        m.cpu.Timers.Delay,
		Sound:        m.cpu.Timers.Sound,
		Keys:         m.cpu.Keypad.Mask(),
		WaitRegister: m.wait.register,
	}
}
