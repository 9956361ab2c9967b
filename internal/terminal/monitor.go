package terminal

import (
	"fmt"
	"strings"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/memory"
)

// MonitorWindow is the number of instructions listed before and after the
// program counter.
const MonitorWindow = 5

// Inspector provides the machine state shown by the monitor panel.
type Inspector interface {
	Snapshot() machine.Snapshot
	InstructionAt(address uint16) (string, error)
}

// keypadRows is the hex keypad layout of the COSMAC VIP.
var keypadRows = [4][4]byte{
	{0x1, 0x2, 0x3, 0xC},
	{0x4, 0x5, 0x6, 0xD},
	{0x7, 0x8, 0x9, 0xE},
	{0xA, 0x0, 0xB, 0xF},
}

// Monitor returns the text of the monitor panel. It lists the scalar
// registers, the V registers next to the keypad with pressed keys in
// brackets and the instructions around the program counter.
func Monitor(in Inspector) string {
	s := in.Snapshot()
	var sb strings.Builder

	fmt.Fprintf(&sb, "PC $%03X  I $%03X  SP %-2d  DT %-3d  ST %-3d  %-12s\n",
		s.PC, s.I, len(s.Stack), s.Delay, s.Sound, s.State)

	for row, keys := range keypadRows {
		base := row * 4
		fmt.Fprintf(&sb, "V%X-V%X ", base, base+3)
		for i := range 4 {
			fmt.Fprintf(&sb, " %02X", s.V[base+i])
		}

		sb.WriteString("   ")
		for _, key := range keys {
			if s.Keys&(1<<key) != 0 {
				fmt.Fprintf(&sb, "[%X]", key)
			} else {
				fmt.Fprintf(&sb, " %X ", key)
			}
		}
		sb.WriteString("\n")
	}

	for offset := -MonitorWindow; offset <= MonitorWindow; offset++ {
		marker := "  "
		if offset == 0 {
			marker = "> "
		}
		sb.WriteString(marker + monitorLine(in, int(s.PC)+offset*cpu.InstructionSize) + "\n")
	}
	return sb.String()
}

// monitorLine returns the listing line of the instruction at the address,
// addresses outside of the program area are shown as placeholder.
func monitorLine(in Inspector, address int) string {
	const placeholder = "-"
	if address < memory.ProgramStart || address+cpu.InstructionSize > memory.Size {
		return fmt.Sprintf("%-5s %-20s", placeholder, placeholder)
	}

	text, err := in.InstructionAt(uint16(address))
	if err != nil {
		return fmt.Sprintf("%-5s %-20s", placeholder, placeholder)
	}
	return fmt.Sprintf("$%03X  %-20s", address, text)
}
