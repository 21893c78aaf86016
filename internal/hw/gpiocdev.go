//go:build linux

package hw

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// CdevBank drives the bank through the Linux GPIO character device plus the
// IIO sysfs ADC.
type CdevBank struct {
	chip *gpiocdev.Chip
	out  map[int]*gpiocdev.Line
	in   map[int]*gpiocdev.Line
	adc  *sysfsADC
	TimerSleeper
}

// NewCdevBank requests every pin of the pinout on the named chip
// ("gpiochip0" on a Pi) and points the sense channels at adcDir. Outputs
// start deasserted; inputs get a pull-down to match Pi boot defaults.
func NewCdevBank(chipName, adcDir string, p Pinout) (*CdevBank, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %q: %w", chipName, err)
	}

	b := &CdevBank{
		chip: chip,
		out:  make(map[int]*gpiocdev.Line),
		in:   make(map[int]*gpiocdev.Line),
		adc:  newSysfsADC(adcDir),
	}
	for _, pin := range p.AllOutputs() {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request output pin %d: %w", pin, err)
		}
		b.out[pin] = line
	}
	for _, pin := range p.AllInputs() {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request input pin %d: %w", pin, err)
		}
		b.in[pin] = line
	}
	return b, nil
}

func (b *CdevBank) SetPin(pin int, high bool) error {
	line, ok := b.out[pin]
	if !ok {
		return fmt.Errorf("pin %d not requested as output", pin)
	}
	v := 0
	if high {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("set pin %d: %w", pin, err)
	}
	return nil
}

func (b *CdevBank) ReadPin(pin int) (bool, error) {
	line, ok := b.in[pin]
	if !ok {
		return false, fmt.Errorf("pin %d not requested as input", pin)
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v != 0, nil
}

func (b *CdevBank) ReadChannel(ch int) (uint16, error) {
	return b.adc.Read(ch)
}

// Close releases every requested line and the chip. Outputs are
// reconfigured to inputs first so the pumps are left unpowered across a
// daemon restart.
func (b *CdevBank) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for pin, line := range b.out {
		keep(line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown))
		keep(line.Close())
		delete(b.out, pin)
	}
	for pin, line := range b.in {
		keep(line.Close())
		delete(b.in, pin)
	}
	keep(b.chip.Close())
	return firstErr
}
