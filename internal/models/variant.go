package models

import (
	"fmt"
	"strings"
)

// Variant selects which pump bank build the daemon drives.
type Variant string

const (
	// VariantSequential is the 12-channel build: single-phase pumps fired
	// one at a time in fixed order.
	VariantSequential Variant = "sequential"

	// VariantQuadrature is the 4-channel build: two-phase pumps stepped
	// together through a shared four-state pattern.
	VariantQuadrature Variant = "quadrature"
)

// ParseVariant resolves a configured variant name. Empty selects the
// sequential build.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantSequential:
		return VariantSequential, nil
	case VariantQuadrature:
		return VariantQuadrature, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// Channels is the number of pump channels in the bank.
func (v Variant) Channels() int {
	if v == VariantQuadrature {
		return 4
	}
	return 12
}

// PhaseDivisor converts a configured cycle time into the per-phase hold.
// The sequential build spreads the cycle time across its twelve channels;
// the quadrature build's operators always entered the per-phase delay
// directly, so its divisor is one.
func (v Variant) PhaseDivisor() uint16 {
	if v == VariantQuadrature {
		return 1
	}
	return 12
}

// SenseEnforcedDefault reports whether cycles are gated on the supply sense
// scan when no override is configured. The quadrature build ships with the
// check off.
func (v Variant) SenseEnforcedDefault() bool {
	return v != VariantQuadrature
}

// DefaultCycleTimeMs is the factory cycle time for the variant.
func (v Variant) DefaultCycleTimeMs() uint16 {
	if v == VariantQuadrature {
		return 1000
	}
	return 1200
}

// DefaultIntervalMs is the factory inter-cycle interval for the variant.
func (v Variant) DefaultIntervalMs() uint16 {
	if v == VariantQuadrature {
		return 1000
	}
	return 500
}

// DefaultRecord is the profile a reset persists: zeroed counters and the
// factory cycle time.
func (v Variant) DefaultRecord() ConfigRecord {
	return ConfigRecord{CycleTimeMs: v.DefaultCycleTimeMs()}
}

// DefaultTiming is the runtime schedule a bank starts with when the store
// is empty.
func (v Variant) DefaultTiming() Timing {
	return Timing{CycleTimeMs: v.DefaultCycleTimeMs(), IntervalMs: v.DefaultIntervalMs()}
}
