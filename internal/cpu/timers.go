package cpu

// Timers contains the delay and sound timers. Both count down towards zero
// at the logical timer rate, independent of the instruction rate.
type Timers struct {
	Delay byte
	Sound byte
}

// Tick decrements both timers by one without going below zero.
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}

// SoundActive returns whether the tone should be playing.
func (t *Timers) SoundActive() bool {
	return t.Sound > 0
}
