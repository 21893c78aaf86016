package hw

import (
	"context"
	"time"
)

// DigitalIO drives and samples the bank's GPIO lines by BCM pin number.
type DigitalIO interface {
	SetPin(pin int, high bool) error
	ReadPin(pin int) (bool, error)
}

// AnalogReader samples one ADC channel and returns the raw converter count.
type AnalogReader interface {
	ReadChannel(ch int) (uint16, error)
}

// Sleeper is the delay primitive the sequencer and the sense monitor run on.
// Sleep returns ctx.Err() when the context ends before the duration does.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Bank bundles the hardware surface of one pump bank.
type Bank interface {
	DigitalIO
	AnalogReader
	Sleeper
	Close() error
}

// TimerSleeper sleeps on the wall clock.
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
