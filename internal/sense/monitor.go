package sense

import (
	"context"
	"time"

	"pumpbank/internal/hw"
)

// recoveryPoll is the rescan period while the bank is halted on a fault.
const recoveryPoll = 250 * time.Millisecond

// Monitor gates actuation on per-channel supply presence: every sense
// channel must read at or above the trip threshold before a cycle may fire.
type Monitor struct {
	adc       hw.AnalogReader
	sleep     hw.Sleeper
	channels  []int
	threshold uint16
	poll      time.Duration
}

// NewMonitor scans the given ADC channels in the listed order against the
// standard trip threshold.
func NewMonitor(adc hw.AnalogReader, sleep hw.Sleeper, channels []int) *Monitor {
	return &Monitor{
		adc:       adc,
		sleep:     sleep,
		channels:  channels,
		threshold: hw.SenseThreshold,
		poll:      recoveryPoll,
	}
}

// Scan samples every channel in fixed order. ok is true when all read at or
// above the threshold; otherwise failing is the 1-based number of the first
// channel below it. A read error counts as absent supply.
func (m *Monitor) Scan() (ok bool, failing int) {
	for i, ch := range m.channels {
		v, err := m.adc.ReadChannel(ch)
		if err != nil || v < m.threshold {
			return false, i + 1
		}
	}
	return true, 0
}

// WaitRecovery polls until a full scan passes. There is no timeout: the
// bank stays halted until every channel is back or ctx ends.
func (m *Monitor) WaitRecovery(ctx context.Context) error {
	for {
		if ok, _ := m.Scan(); ok {
			return nil
		}
		if err := m.sleep.Sleep(ctx, m.poll); err != nil {
			return err
		}
	}
}
