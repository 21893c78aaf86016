package hw

import "pumpbank/internal/models"

// SenseThreshold is the raw converter count a sense channel must reach to be
// considered present: 3.3 V through a 10-bit converter against a 5.0 V
// reference, 3.3/5.0 * 1023 = 675.
const SenseThreshold uint16 = 675

// Pinout maps bank channels to BCM line offsets and ADC channels. PhaseA
// holds the drive pin of each channel; PhaseB holds the second coil of the
// quadrature build and is empty for the sequential one. ModeSelect and
// Trigger are the panel inputs of the sequential build, -1 when absent.
type Pinout struct {
	PhaseA     []int
	PhaseB     []int
	Sense      []int
	ModeSelect int
	Trigger    int
}

// AllOutputs lists every drive pin of the pinout.
func (p Pinout) AllOutputs() []int {
	out := make([]int, 0, len(p.PhaseA)+len(p.PhaseB))
	out = append(out, p.PhaseA...)
	out = append(out, p.PhaseB...)
	return out
}

// AllInputs lists the panel input pins present in the pinout.
func (p Pinout) AllInputs() []int {
	var in []int
	for _, pin := range []int{p.ModeSelect, p.Trigger} {
		if pin >= 0 {
			in = append(in, pin)
		}
	}
	return in
}

// SequentialPinout is the fixed wiring of the 12-channel build.
func SequentialPinout() Pinout {
	return Pinout{
		PhaseA:     []int{2, 3, 4, 17, 27, 22, 10, 9, 11, 5, 6, 13},
		Sense:      []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		ModeSelect: 19,
		Trigger:    26,
	}
}

// QuadraturePinout is the fixed wiring of the 4-channel build.
func QuadraturePinout() Pinout {
	return Pinout{
		PhaseA:     []int{2, 3, 4, 17},
		PhaseB:     []int{27, 22, 10, 9},
		Sense:      []int{0, 1, 2, 3},
		ModeSelect: -1,
		Trigger:    -1,
	}
}

// PinoutFor resolves the wiring table of a variant.
func PinoutFor(v models.Variant) Pinout {
	if v == models.VariantQuadrature {
		return QuadraturePinout()
	}
	return SequentialPinout()
}
