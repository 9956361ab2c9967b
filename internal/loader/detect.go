package loader

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/arch"
)

// DetectSystem returns the system that ROM files with the extension of the
// given file name are usually made for. Unknown extensions are assumed to
// be CHIP-8 programs.
func DetectSystem(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".nes":
		return arch.NES
	default:
		return arch.CHIP8System
	}
}
