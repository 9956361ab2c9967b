// Package app wires the loader, machine and frontends into the program modes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/terminal"
	archsys "github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the loaded ROM.
func PrintInfo(logger *log.Logger, opts options.Program, programSize int) {
	if opts.Quiet {
		return
	}

	logger.Info("Processing Chip-8 ROM",
		log.String("file", opts.Input),
		log.Stringer("system", archsys.CHIP8System),
		log.Int("size", programSize),
		log.String("quirks", opts.Profile),
	)
}

// Run loads the ROM and executes the mode selected by the options.
// Output of the disassembly and headless modes is written to out.
func Run(ctx context.Context, logger *log.Logger, opts options.Program, out io.Writer) error {
	program, err := loader.New(logger).Load(opts.Input)
	if err != nil {
		return err
	}
	PrintInfo(logger, opts, len(program))

	if opts.Disasm {
		return disasm.Listing(out, program)
	}

	quirks, err := opts.Quirks()
	if err != nil {
		return err
	}
	cfg := machine.DefaultConfig()
	cfg.Quirks = quirks
	cfg.Seed = opts.Seed
	cfg.Logger = logger
	cfg.Trace = opts.Trace
	m := machine.New(cfg)
	if err := m.Load(program); err != nil {
		return err
	}

	if opts.Headless {
		return runHeadless(ctx, logger, m, opts, out)
	}
	return runTerminal(ctx, logger, m, opts)
}

// runHeadless executes the configured number of frames without pacing and
// writes the final framebuffer.
func runHeadless(ctx context.Context, logger *log.Logger, m *machine.Machine, opts options.Program, out io.Writer) error {
	r, err := runner.New(logger, m, runnerConfig(opts))
	if err != nil {
		return err
	}

	for r.Frames() < opts.MaxFrames {
		if ctx.Err() != nil {
			break
		}
		if err := r.RunFrame(); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(out, m.Display().String()); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	if opts.Monitor {
		if _, err := io.WriteString(out, terminal.Monitor(m)); err != nil {
			return fmt.Errorf("writing monitor: %w", err)
		}
	}
	return nil
}

// runTerminal executes the machine in real time with the terminal frontend
// until it is interrupted, the quit key is pressed or the machine faults.
func runTerminal(ctx context.Context, logger *log.Logger, m *machine.Machine, opts options.Program) error {
	keyboard, err := terminal.OpenKeyboard(logger, opts.Device)
	if err != nil {
		return err
	}
	defer func() {
		if err := keyboard.Close(); err != nil {
			logger.Error("Restoring terminal failed", log.Err(err))
		}
	}()

	renderer := terminal.NewRenderer(filepath.Base(opts.Input))
	cfg := runnerConfig(opts)
	cfg.Renderer = renderer
	cfg.Speaker = renderer
	if opts.Monitor {
		renderer.ShowMonitor(m)
		cfg.RenderAlways = true
	}

	r, err := runner.New(logger, m, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyboardDone := make(chan struct{})
	go func() {
		defer close(keyboardDone)
		err := keyboard.Run(ctx, r.Keys())
		switch {
		case errors.Is(err, terminal.ErrQuit):
			logger.Info("Quit key pressed")
		case err != nil:
			logger.Error("Reading keyboard failed", log.Err(err))
		}
		cancel()
	}()

	err = r.Run(ctx)
	cancel()
	<-keyboardDone
	return err
}

func runnerConfig(opts options.Program) runner.Config {
	return runner.Config{
		InstructionsPerSecond: opts.InstructionsPerSecond,
		TimerHz:               opts.TimerHz,
		MaxFrames:             opts.MaxFrames,
	}
}
