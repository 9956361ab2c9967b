package machine

// State is the run state of the machine.
type State int

const (
	// Uninitialized is the state before a program was loaded.
	Uninitialized State = iota
	// Ready means a program is loaded and no instruction was executed yet.
	Ready
	// Running means instructions are being executed.
	Running
	// AwaitingKey means execution is blocked on FX0A until a key event arrives.
	AwaitingKey
	// Halted means execution stopped on a fault, see Machine.Fault.
	Halted
)

var stateNames = map[State]string{
	Uninitialized: "uninitialized",
	Ready:         "ready",
	Running:       "running",
	AwaitingKey:   "awaiting key",
	Halted:        "halted",
}

func (s State) String() string {
	name, ok := stateNames[s]
	if !ok {
		return "unknown"
	}
	return name
}
