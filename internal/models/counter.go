package models

// CycleAccount tracks completed actuation cycles in the same 16-bit
// registers the profile stores. Cycles wraps from 65535 back to zero and
// each wrap carries one into Overflows; Overflows itself wraps without
// further cascading.
type CycleAccount struct {
	Cycles    uint16 `json:"cycles"`
	Overflows uint16 `json:"overflows"`
}

// RecordCycle adds one completed cycle and reports whether the cycle
// register wrapped.
func (a *CycleAccount) RecordCycle() bool {
	a.Cycles++
	if a.Cycles == 0 {
		a.Overflows++
		return true
	}
	return false
}

// Reset clears both counters.
func (a *CycleAccount) Reset() {
	a.Cycles = 0
	a.Overflows = 0
}
