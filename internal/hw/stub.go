//go:build !linux

package hw

import "errors"

// CdevBank is only available on Linux, where the GPIO character device
// lives. Other platforms run the sim backend.
type CdevBank struct {
	TimerSleeper
}

func NewCdevBank(chipName, adcDir string, p Pinout) (*CdevBank, error) {
	return nil, errors.New("gpio backend requires linux")
}

func (b *CdevBank) SetPin(pin int, high bool) error {
	return errors.New("gpio backend requires linux")
}

func (b *CdevBank) ReadPin(pin int) (bool, error) {
	return false, errors.New("gpio backend requires linux")
}

func (b *CdevBank) ReadChannel(ch int) (uint16, error) {
	return 0, errors.New("gpio backend requires linux")
}

func (b *CdevBank) Close() error { return nil }
