// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/terminal"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args[0], os.Args[1:])
}

func parseArgs(name string, arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	// parse errors and usage are printed by UsageError.ShowUsage
	flags.SetOutput(io.Discard)
	var opts options.Program
	overrides := readOptionFlags(flags, &opts)

	if err := flags.Parse(arguments); err != nil {
		usageErr := &UsageError{flags: flags}
		if !errors.Is(err, flag.ErrHelp) {
			usageErr.msg = err.Error()
		}
		return opts, usageErr
	}
	args := flags.Args()
	if len(args) == 0 && opts.Input == "" {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}
	if len(args) > 0 {
		opts.Input = args[0]
	}

	applyQuirkOverrides(flags, &opts, overrides)

	if err := validateOptions(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: chip8vm [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptions validates option values and their combinations
func validateOptions(opts options.Program) error {
	if opts.InstructionsPerSecond <= 0 {
		return fmt.Errorf("instructions per second must be positive, got %d", opts.InstructionsPerSecond)
	}
	if opts.TimerHz <= 0 {
		return fmt.Errorf("timer frequency must be positive, got %d", opts.TimerHz)
	}
	if opts.MaxFrames < 0 {
		return fmt.Errorf("frame limit can not be negative, got %d", opts.MaxFrames)
	}
	if opts.Headless && opts.MaxFrames == 0 {
		return fmt.Errorf("headless mode requires a frame limit set with -frames")
	}
	if _, err := opts.Quirks(); err != nil {
		return err
	}
	return nil
}

// quirkOverrides holds the values of the single quirk flags, they are only
// applied if the flag was passed.
type quirkOverrides struct {
	shiftUsesVY              bool
	jumpWithOffsetUsesVX     bool
	loadStoreIncrementsIndex bool
	resetVFOnLogicOps        bool
	waitForKeyRelease        bool
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) *quirkOverrides {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Device, "tty", terminal.DefaultDevice, "terminal device to read keys from")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the ROM and exit")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal frontend and print the final display")
	flags.BoolVar(&opts.Monitor, "monitor", false, "show registers, keypad and instructions below the display")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.IntVar(&opts.InstructionsPerSecond, "ips", 700, "instructions executed per second")
	flags.IntVar(&opts.TimerHz, "hz", 60, "delay and sound timer decrements per second")
	flags.IntVar(&opts.MaxFrames, "frames", 0, "stop after this many timer frames, 0 runs until interrupted")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator")

	flags.StringVar(&opts.Profile, "quirks", options.ProfileDefault, "quirk profile to use (default/vip/schip)")

	overrides := &quirkOverrides{}
	flags.BoolVar(&overrides.shiftUsesVY, "shift-vy", false, "8XY6/8XYE shift VY into VX instead of shifting VX")
	flags.BoolVar(&overrides.jumpWithOffsetUsesVX, "jump-vx", false, "BNNN jumps to NNN+VX instead of NNN+V0")
	flags.BoolVar(&overrides.loadStoreIncrementsIndex, "index-increment", false, "FX55/FX65 increment the index register")
	flags.BoolVar(&overrides.resetVFOnLogicOps, "reset-vf", false, "8XY1/8XY2/8XY3 reset VF to 0")
	flags.BoolVar(&overrides.waitForKeyRelease, "key-release", false, "FX0A completes once all keys are released")
	return overrides
}

// applyQuirkOverrides sets the quirk overrides of all quirk flags that were passed.
func applyQuirkOverrides(flags *flag.FlagSet, opts *options.Program, overrides *quirkOverrides) {
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shift-vy":
			opts.ShiftUsesVY = &overrides.shiftUsesVY
		case "jump-vx":
			opts.JumpWithOffsetUsesVX = &overrides.jumpWithOffsetUsesVX
		case "index-increment":
			opts.LoadStoreIncrementsIndex = &overrides.loadStoreIncrementsIndex
		case "reset-vf":
			opts.ResetVFOnLogicOps = &overrides.resetVFOnLogicOps
		case "key-release":
			opts.WaitForKeyRelease = &overrides.waitForKeyRelease
		}
	})
}
