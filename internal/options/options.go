// Package options contains the program options.
package options

import (
	"fmt"
	"strings"

	"github.com/retroenv/chip8vm/internal/cpu"
)

// Quirk profile names.
const (
	ProfileDefault = "default"
	ProfileVIP     = "vip"
	ProfileSCHIP   = "schip"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Device string `flag:"tty" usage:"terminal device to read keys from" default:"/dev/tty"`
}

// Flags contains behavior options.
type Flags struct {
	Disasm   bool `flag:"disasm" usage:"print a disassembly listing of the ROM and exit"`
	Headless bool `flag:"headless" usage:"run without terminal frontend and print the final display"`
	Monitor  bool `flag:"monitor" usage:"show registers, keypad and instructions below the display"`
	Trace    bool `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Debug    bool `flag:"debug" usage:"enable debug logging"`
	Quiet    bool `flag:"q" usage:"quiet mode"`
}

// Timing contains the execution rate options.
type Timing struct {
	InstructionsPerSecond int    `flag:"ips" usage:"instructions executed per second" default:"700"`
	TimerHz               int    `flag:"hz" usage:"timer decrements per second" default:"60"`
	MaxFrames             int    `flag:"frames" usage:"stop after this many timer frames, 0 runs until interrupted"`
	Seed                  uint64 `flag:"seed" usage:"seed of the random number generator"`
}

// QuirkFlags contains the quirk profile and optional overrides of single
// quirks. A nil override keeps the value of the profile.
type QuirkFlags struct {
	Profile string `flag:"quirks" usage:"quirk profile: default, vip, schip" default:"default"`

	ShiftUsesVY              *bool `flag:"shift-vy" usage:"8XY6/8XYE shift VY instead of VX"`
	JumpWithOffsetUsesVX     *bool `flag:"jump-vx" usage:"BNNN jumps to NNN+VX instead of NNN+V0"`
	LoadStoreIncrementsIndex *bool `flag:"index-increment" usage:"FX55/FX65 increment I"`
	ResetVFOnLogicOps        *bool `flag:"reset-vf" usage:"8XY1/8XY2/8XY3 reset VF"`
	WaitForKeyRelease        *bool `flag:"key-release" usage:"FX0A completes once all keys are released"`
}

// Program options of the virtual machine.
type Program struct {
	Parameters
	Flags
	Timing
	QuirkFlags
}

// Quirks returns the quirk configuration of the selected profile with all
// overrides applied.
func (p Program) Quirks() (cpu.Quirks, error) {
	var quirks cpu.Quirks
	switch strings.ToLower(p.Profile) {
	case "", ProfileDefault:
		quirks = cpu.DefaultQuirks()
	case ProfileVIP:
		quirks = cpu.VIPQuirks()
	case ProfileSCHIP:
		quirks = cpu.SCHIPQuirks()
	default:
		return cpu.Quirks{}, fmt.Errorf("unsupported quirk profile: %s. Valid options: %s",
			p.Profile, strings.Join([]string{ProfileDefault, ProfileVIP, ProfileSCHIP}, ", "))
	}

	override(&quirks.ShiftUsesVY, p.ShiftUsesVY)
	override(&quirks.JumpWithOffsetUsesVX, p.JumpWithOffsetUsesVX)
	override(&quirks.LoadStoreIncrementsIndex, p.LoadStoreIncrementsIndex)
	override(&quirks.ResetVFOnLogicOps, p.ResetVFOnLogicOps)
	override(&quirks.WaitForKeyRelease, p.WaitForKeyRelease)
	return quirks, nil
}

func override(value *bool, setting *bool) {
	if setting != nil {
		*value = *setting
	}
}
