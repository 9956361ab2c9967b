// Package terminal provides a text terminal frontend for the machine:
// a renderer drawing the framebuffer with block characters and an optional
// monitor panel, and a keyboard reading raw key presses from the tty.
package terminal

import (
	"strings"

	tm "github.com/buger/goterm"
	"github.com/retroenv/chip8vm/internal/display"
)

// Block characters used to draw two framebuffer rows per text line.
const (
	blockFull  = "█"
	blockUpper = "▀"
	blockLower = "▄"
	blockEmpty = " "

	bell = "\a"
)

// Renderer draws the framebuffer to the terminal. It also implements the
// speaker by ringing the terminal bell when the tone starts.
type Renderer struct {
	title   string
	cleared bool
	monitor Inspector
}

// NewRenderer returns a new renderer that shows the title above the framebuffer.
func NewRenderer(title string) *Renderer {
	return &Renderer{
		title: title,
	}
}

// ShowMonitor enables the monitor panel below the framebuffer.
func (r *Renderer) ShowMonitor(in Inspector) {
	r.monitor = in
}

// Render draws the framebuffer, the screen is cleared on the first call.
func (r *Renderer) Render(d *display.Display) error {
	if !r.cleared {
		tm.Clear()
		r.cleared = true
	}

	tm.MoveCursor(1, 1)
	if _, err := tm.Print(Frame(r.title, d)); err != nil {
		return err
	}
	if r.monitor != nil {
		if _, err := tm.Print(Monitor(r.monitor)); err != nil {
			return err
		}
	}
	tm.Flush()
	return nil
}

// SetTone rings the terminal bell when the tone turns on.
func (r *Renderer) SetTone(on bool) {
	if !on {
		return
	}
	_, _ = tm.Output.WriteString(bell)
	_ = tm.Output.Flush()
}

// Frame returns the text representation of the framebuffer inside a border.
// Each text line combines two framebuffer rows.
func Frame(title string, d *display.Display) string {
	var sb strings.Builder
	border := strings.Repeat("─", display.Width)

	sb.WriteString("┌" + border + "┐ " + title + "\n")
	for y := 0; y < display.Height; y += 2 {
		sb.WriteString("│")
		for x := range display.Width {
			sb.WriteString(block(d.PixelAt(x, y), d.PixelAt(x, y+1)))
		}
		sb.WriteString("│\n")
	}
	sb.WriteString("└" + border + "┘\n")
	return sb.String()
}

func block(upper, lower bool) string {
	switch {
	case upper && lower:
		return blockFull
	case upper:
		return blockUpper
	case lower:
		return blockLower
	default:
		return blockEmpty
	}
}
