package models

// Accepted window for the cycle time and the inter-cycle interval, in
// milliseconds. Values outside it are rejected without touching current
// state.
const (
	MinDurationMs = 40
	MaxDurationMs = 65535
)

// DurationInRange reports whether v is an acceptable millisecond duration
// for a cycle-time or interval change. It takes uint64 so oversized operator
// input is range-checked instead of silently truncated.
func DurationInRange(v uint64) bool {
	return v >= MinDurationMs && v <= MaxDurationMs
}

// Timing is the runtime schedule of the bank. CycleTimeMs mirrors the
// persisted profile; IntervalMs is runtime-only and never persisted.
type Timing struct {
	CycleTimeMs uint16 `json:"cycle_time_ms"`
	IntervalMs  uint16 `json:"interval_ms"`
}

// PhaseDelayMs derives the per-phase hold from the cycle time under the
// variant's conversion policy. Integer division, remainder dropped.
func (t Timing) PhaseDelayMs(v Variant) uint16 {
	return t.CycleTimeMs / v.PhaseDivisor()
}
