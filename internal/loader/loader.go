// Package loader handles CHIP-8 ROM file loading.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// ErrEmptyProgram is returned for ROM files without content.
var ErrEmptyProgram = errors.New("program is empty")

// Loader handles loading ROM files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new ROM loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads a raw CHIP-8 ROM file. ROM files contain the program bytes as
// they are placed in memory at the program start address, without header.
// A warning is logged if the file name indicates a ROM of another system.
func (l *Loader) Load(path string) ([]byte, error) {
	if system := DetectSystem(path); system != arch.CHIP8System {
		l.logger.Warn("File does not look like a CHIP-8 ROM",
			log.String("file", path),
			log.Stringer("system", system))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	program, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return program, nil
}

// LoadFromReader reads a raw CHIP-8 program and verifies that it fits into memory.
func (l *Loader) LoadFromReader(r io.Reader) ([]byte, error) {
	// read one byte more than fits to detect oversized programs without
	// reading arbitrary large input
	program, err := io.ReadAll(io.LimitReader(r, memory.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	switch {
	case len(program) == 0:
		return nil, ErrEmptyProgram
	case len(program) > memory.MaxProgramSize:
		return nil, fmt.Errorf("program exceeds %d bytes: %w", memory.MaxProgramSize, memory.ErrCapacityExceeded)
	}
	return program, nil
}
