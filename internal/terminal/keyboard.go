package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/term"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

const (
	// DefaultDevice is the controlling terminal of the process.
	DefaultDevice = "/dev/tty"

	// DefaultHold is the time a key stays pressed after its last key stroke.
	// Terminals do not report key releases, auto repeat of a held key
	// extends the press.
	DefaultHold = 150 * time.Millisecond

	readTimeout = 20 * time.Millisecond
	escapeKey   = 0x1B
)

// ErrQuit is returned by Run when the quit key was pressed.
var ErrQuit = errors.New("quit key pressed")

// keyLayout maps the left side of a QWERTY keyboard onto the hexadecimal keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var keyLayout = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyFor returns the keypad key for a keyboard character.
// Upper case characters map to the same keys as lower case ones.
func KeyFor(r rune) (byte, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	key, ok := keyLayout[r]
	return key, ok
}

// Keyboard reads key strokes from a terminal and converts them to key events.
type Keyboard struct {
	logger *log.Logger
	input  io.Reader
	closer func() error
	hold   time.Duration
	now    func() time.Time

	// readTimeouts is set for terminals that report an expired read
	// timeout as io.EOF.
	readTimeouts bool

	released map[byte]time.Time // release time of every held key
}

// OpenKeyboard opens the terminal device in cbreak mode. Signals like Ctrl+C
// keep working in this mode. The terminal is restored by Close.
func OpenKeyboard(logger *log.Logger, device string) (*Keyboard, error) {
	t, err := term.Open(device, term.CBreakMode, term.ReadTimeout(readTimeout))
	if err != nil {
		return nil, fmt.Errorf("opening terminal %s: %w", device, err)
	}

	closer := func() error {
		restoreErr := t.Restore()
		closeErr := t.Close()
		return errors.Join(restoreErr, closeErr)
	}
	k := newKeyboard(logger, t, closer)
	k.readTimeouts = true
	return k, nil
}

func newKeyboard(logger *log.Logger, input io.Reader, closer func() error) *Keyboard {
	return &Keyboard{
		logger:   logger,
		input:    input,
		closer:   closer,
		hold:     DefaultHold,
		now:      time.Now,
		released: map[byte]time.Time{},
	}
}

// Close restores the terminal settings and closes the device.
func (k *Keyboard) Close() error {
	if k.closer == nil {
		return nil
	}
	return k.closer()
}

// Run reads key strokes and sends key events until the context is cancelled,
// the input ends or the escape key is pressed.
func (k *Keyboard) Run(ctx context.Context, events chan<- runner.KeyEvent) error {
	buf := make([]byte, 16)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := k.input.Read(buf)
		if quit := k.handleInput(ctx, buf[:n], events); quit {
			return ErrQuit
		}
		k.releaseExpired(ctx, events)

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			if !k.readTimeouts {
				k.releaseAll(ctx, events)
				return nil
			}
		default:
			return fmt.Errorf("reading terminal input: %w", err)
		}
	}
}

// handleInput sends press events for all mapped characters and returns
// whether the quit key was pressed.
func (k *Keyboard) handleInput(ctx context.Context, input []byte, events chan<- runner.KeyEvent) bool {
	for _, b := range input {
		if b == escapeKey {
			return true
		}

		key, ok := KeyFor(rune(b))
		if !ok {
			continue
		}

		_, held := k.released[key]
		k.released[key] = k.now().Add(k.hold)
		if !held {
			k.send(ctx, events, runner.KeyEvent{Key: key, Pressed: true})
		}
	}
	return false
}

// releaseExpired sends release events for keys whose hold time passed.
func (k *Keyboard) releaseExpired(ctx context.Context, events chan<- runner.KeyEvent) {
	now := k.now()
	for key, release := range k.released {
		if now.Before(release) {
			continue
		}
		delete(k.released, key)
		k.send(ctx, events, runner.KeyEvent{Key: key, Pressed: false})
	}
}

func (k *Keyboard) releaseAll(ctx context.Context, events chan<- runner.KeyEvent) {
	for key := range k.released {
		delete(k.released, key)
		k.send(ctx, events, runner.KeyEvent{Key: key, Pressed: false})
	}
}

func (k *Keyboard) send(ctx context.Context, events chan<- runner.KeyEvent, event runner.KeyEvent) {
	select {
	case events <- event:
		k.logger.Debug("Key event",
			log.Hex("key", event.Key),
			log.String("pressed", strconv.FormatBool(event.Pressed)))
	case <-ctx.Done():
	}
}
