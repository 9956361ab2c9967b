package cpu

import "fmt"

// KeyCount is the number of keys on the hexadecimal keypad.
const KeyCount = 16

// Keypad holds the pressed state of the 16 keys as a bitmask.
type Keypad struct {
	keys uint16
}

// SetKey updates the pressed state of a key.
func (k *Keypad) SetKey(key byte, pressed bool) error {
	if key >= KeyCount {
		return fmt.Errorf("key %d: %w", key, ErrInvalidKey)
	}
	if pressed {
		k.keys |= 1 << key
	} else {
		k.keys &^= 1 << key
	}
	return nil
}

// IsKeyDown returns whether the key selected by the low nibble is pressed.
func (k *Keypad) IsKeyDown(key byte) bool {
	return k.keys&(1<<(key&0x0F)) != 0
}

// Pressed returns the lowest pressed key.
func (k *Keypad) Pressed() (byte, bool) {
	for key := range byte(KeyCount) {
		if k.IsKeyDown(key) {
			return key, true
		}
	}
	return 0, false
}

// AnyPressed returns whether at least one key is pressed.
func (k *Keypad) AnyPressed() bool {
	return k.keys != 0
}

// Mask returns the pressed keys as bitmask, bit n is set if key n is pressed.
func (k *Keypad) Mask() uint16 {
	return k.keys
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.keys = 0
}
