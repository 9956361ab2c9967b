package runner

import (
	"errors"

	"github.com/retroenv/chip8vm/internal/display"
)

var errRender = errors.New("render failed")

// mockRenderer records rendered frames.
type mockRenderer struct {
	frames []string
	fail   bool
}

func (m *mockRenderer) Render(d *display.Display) error {
	if m.fail {
		return errRender
	}
	m.frames = append(m.frames, d.String())
	return nil
}

// mockSpeaker records tone changes.
type mockSpeaker struct {
	changes []bool
}

func (m *mockSpeaker) SetTone(on bool) {
	m.changes = append(m.changes, on)
}
