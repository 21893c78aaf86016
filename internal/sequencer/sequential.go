package sequencer

import (
	"context"
	"fmt"
	"time"

	"pumpbank/internal/hw"
)

// triggerPoll is the sampling period while waiting for the manual trigger.
const triggerPoll = 10 * time.Millisecond

// debounceHold keeps the channel asserted after the trigger is seen, long
// enough to ride out contact bounce on the panel button.
const debounceHold = 50 * time.Millisecond

// Sequential fires the bank's channels one at a time in fixed order. The
// mode-select input chooses between timed and manual stepping; it is
// sampled once per cycle, at the start.
type Sequential struct {
	bank  hw.Bank
	pins  hw.Pinout
	sched Schedule
}

func NewSequential(bank hw.Bank, pins hw.Pinout, sched Schedule) *Sequential {
	return &Sequential{bank: bank, pins: pins, sched: sched}
}

// RunCycle walks every channel once: assert, hold for the per-phase delay
// (or until the manual trigger), deassert, then wait the interval before
// the next channel.
func (s *Sequential) RunCycle(ctx context.Context) error {
	manual := s.manualMode()
	for i, pin := range s.pins.PhaseA {
		if err := s.fireChannel(ctx, pin, manual); err != nil {
			return fmt.Errorf("channel %d: %w", i+1, err)
		}
		if err := s.bank.Sleep(ctx, s.sched.Interval()); err != nil {
			return err
		}
	}
	return nil
}

// fireChannel drives one pump through its active window. The deassert is
// deferred so the channel is never left on, whatever ended the hold.
func (s *Sequential) fireChannel(ctx context.Context, pin int, manual bool) (err error) {
	if err := s.bank.SetPin(pin, true); err != nil {
		return err
	}
	defer func() {
		if derr := s.bank.SetPin(pin, false); err == nil {
			err = derr
		}
	}()
	if manual {
		return s.awaitTrigger(ctx)
	}
	return s.bank.Sleep(ctx, s.sched.PhaseDelay())
}

// manualMode samples the mode-select input. A read failure falls back to
// timed stepping.
func (s *Sequential) manualMode() bool {
	if s.pins.ModeSelect < 0 {
		return false
	}
	high, err := s.bank.ReadPin(s.pins.ModeSelect)
	return err == nil && high
}

// awaitTrigger holds the channel until the trigger input asserts, then
// keeps it for the debounce hold. No timeout: manual stepping waits for the
// operator.
func (s *Sequential) awaitTrigger(ctx context.Context) error {
	for {
		high, err := s.bank.ReadPin(s.pins.Trigger)
		if err != nil {
			return err
		}
		if high {
			break
		}
		if err := s.bank.Sleep(ctx, triggerPoll); err != nil {
			return err
		}
	}
	return s.bank.Sleep(ctx, debounceHold)
}
