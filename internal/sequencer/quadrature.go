package sequencer

import (
	"context"

	"pumpbank/internal/hw"
)

// Quadrature steps all four channels together through the shared two-phase
// pattern: every A coil on, every B coil on, every A coil off, every B coil
// off, each edge held for the per-phase delay.
type Quadrature struct {
	bank  hw.Bank
	pins  hw.Pinout
	sched Schedule
}

func NewQuadrature(bank hw.Bank, pins hw.Pinout, sched Schedule) *Quadrature {
	return &Quadrature{bank: bank, pins: pins, sched: sched}
}

func (s *Quadrature) RunCycle(ctx context.Context) error {
	if err := s.walk(ctx); err != nil {
		s.allOff()
		return err
	}
	return nil
}

// walk drives the four-state pattern and the trailing interval.
func (s *Quadrature) walk(ctx context.Context) error {
	steps := []struct {
		pins []int
		high bool
	}{
		{s.pins.PhaseA, true},
		{s.pins.PhaseB, true},
		{s.pins.PhaseA, false},
		{s.pins.PhaseB, false},
	}
	for _, step := range steps {
		if err := s.setAll(step.pins, step.high); err != nil {
			return err
		}
		if err := s.bank.Sleep(ctx, s.sched.PhaseDelay()); err != nil {
			return err
		}
	}
	return s.bank.Sleep(ctx, s.sched.Interval())
}

func (s *Quadrature) setAll(pins []int, high bool) error {
	for _, pin := range pins {
		if err := s.bank.SetPin(pin, high); err != nil {
			return err
		}
	}
	return nil
}

// allOff deasserts both coils of every channel, best effort.
func (s *Quadrature) allOff() {
	for _, pin := range s.pins.AllOutputs() {
		_ = s.bank.SetPin(pin, false)
	}
}
