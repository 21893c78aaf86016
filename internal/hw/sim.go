package hw

import (
	"context"
	"sync"
	"time"
)

// simSenseFullScale is the idle reading of every simulated sense channel,
// the 10-bit converter's maximum.
const simSenseFullScale = 1023

// PinTransition is one recorded output edge.
type PinTransition struct {
	Pin  int
	High bool
}

// SimBank is an in-memory bank for development and tests. Outputs are
// tracked (and recorded in order when Record is set), input pins and sense
// channels return scripted values, and sleeps can be scaled down, captured,
// or replaced. All methods are safe for concurrent use.
type SimBank struct {
	// TimeScale divides every sleep; zero or one sleeps in real time.
	TimeScale int

	// Record captures transitions and sleep durations instead of sleeping.
	Record bool

	// SleepFunc, when set, replaces the sleep behavior entirely. Tests use
	// it to step scripted conditions between polls.
	SleepFunc func(ctx context.Context, d time.Duration) error

	mu          sync.Mutex
	pins        map[int]bool
	inputs      map[int][]bool
	sense       map[int]uint16
	transitions []PinTransition
	sleeps      []time.Duration
	closed      bool
}

func NewSimBank() *SimBank {
	return &SimBank{
		pins:   make(map[int]bool),
		inputs: make(map[int][]bool),
		sense:  make(map[int]uint16),
	}
}

func (b *SimBank) SetPin(pin int, high bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pins[pin] = high
	if b.Record {
		b.transitions = append(b.transitions, PinTransition{Pin: pin, High: high})
	}
	return nil
}

// ReadPin returns the next scripted sample for an input pin; when the
// script runs out the last value repeats. Unscripted pins read low.
func (b *SimBank) ReadPin(pin int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	script := b.inputs[pin]
	if len(script) == 0 {
		return false, nil
	}
	v := script[0]
	if len(script) > 1 {
		b.inputs[pin] = script[1:]
	}
	return v, nil
}

// ReadChannel returns the scripted sense level; channels never touched by
// SetSense read full scale.
func (b *SimBank) ReadChannel(ch int) (uint16, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.sense[ch]
	if !ok {
		return simSenseFullScale, nil
	}
	return v, nil
}

func (b *SimBank) Sleep(ctx context.Context, d time.Duration) error {
	if b.SleepFunc != nil {
		return b.SleepFunc(ctx, d)
	}
	b.mu.Lock()
	record := b.Record
	if record {
		b.sleeps = append(b.sleeps, d)
	}
	b.mu.Unlock()
	if record {
		return ctx.Err()
	}
	if b.TimeScale > 1 {
		d /= time.Duration(b.TimeScale)
	}
	return TimerSleeper{}.Sleep(ctx, d)
}

func (b *SimBank) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// ScriptInput queues successive ReadPin results for a pin.
func (b *SimBank) ScriptInput(pin int, samples ...bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inputs[pin] = append(b.inputs[pin], samples...)
}

// SetSense pins a sense channel at a raw level.
func (b *SimBank) SetSense(ch int, raw uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sense[ch] = raw
}

// PinState reports the current level of an output pin.
func (b *SimBank) PinState(pin int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pins[pin]
}

// Transitions returns a copy of the recorded output edges.
func (b *SimBank) Transitions() []PinTransition {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PinTransition, len(b.transitions))
	copy(out, b.transitions)
	return out
}

// Sleeps returns a copy of the recorded sleep durations.
func (b *SimBank) Sleeps() []time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]time.Duration, len(b.sleeps))
	copy(out, b.sleeps)
	return out
}

// Closed reports whether Close was called.
func (b *SimBank) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
