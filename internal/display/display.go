// Package display provides the CHIP-8 monochrome framebuffer.
package display

import "strings"

const (
	// Width is the number of pixel columns.
	Width = 64
	// Height is the number of pixel rows.
	Height = 32

	// SpriteWidth is the fixed width of a sprite row in pixels.
	SpriteWidth = 8
	// MaxSpriteHeight is the tallest sprite a single draw instruction can address.
	MaxSpriteHeight = 15
)

// Display is a row-major 64x32 grid of pixels that is mutated by XOR drawing.
type Display struct {
	pixels [Height][Width]bool
	dirty  bool
}

// New returns a cleared display.
func New() *Display {
	return &Display{}
}

// Clear turns all pixels off.
func (d *Display) Clear() {
	d.pixels = [Height][Width]bool{}
	d.dirty = true
}

// Draw XORs an 8 pixel wide sprite with one row per byte onto the display.
// The start position is wrapped into the screen, pixels that leave the screen
// wrap around individually to the opposite edge.
// It returns true if any pixel was turned off by the draw.
func (d *Display) Draw(x, y byte, sprite []byte) bool {
	originX := int(x) % Width
	originY := int(y) % Height

	collision := false
	for row, data := range sprite {
		py := (originY + row) % Height
		for col := range SpriteWidth {
			if data&(0x80>>col) == 0 {
				continue
			}

			px := (originX + col) % Width
			if d.pixels[py][px] {
				collision = true
			}
			d.pixels[py][px] = !d.pixels[py][px]
		}
	}

	d.dirty = true
	return collision
}

// PixelAt returns whether the pixel at the wrapped coordinates is set.
func (d *Display) PixelAt(x, y int) bool {
	return d.pixels[wrap(y, Height)][wrap(x, Width)]
}

// Snapshot returns a copy of the framebuffer.
func (d *Display) Snapshot() [Height][Width]bool {
	return d.pixels
}

// Dirty returns whether the framebuffer changed since the last ResetDirty call.
func (d *Display) Dirty() bool {
	return d.dirty
}

// ResetDirty marks the current framebuffer content as presented.
func (d *Display) ResetDirty() {
	d.dirty = false
}

// String returns the framebuffer as text, one line per row.
func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for _, row := range d.pixels {
		for _, set := range row {
			if set {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func wrap(value, size int) int {
	value %= size
	if value < 0 {
		value += size
	}
	return value
}
