package models

import "time"

// Engine statuses reported in a Snapshot.
const (
	EngineIdle    = "IDLE"
	EngineCycling = "CYCLING"
	EnginePaused  = "PAUSED"
	EngineFaulted = "FAULTED"
)

// Snapshot is the live view of the bank: the in-memory counters and timing
// the engine runs on, next to the last persisted profile. FaultChannel is
// the 1-based sense channel that tripped the gate, 0 when none.
type Snapshot struct {
	Variant      Variant      `json:"variant"`
	Engine       string       `json:"engine"`
	FaultChannel int          `json:"fault_channel"`
	Account      CycleAccount `json:"account"`
	Timing       Timing       `json:"timing"`
	PhaseDelayMs uint16       `json:"phase_delay_ms"`
	Saved        ConfigRecord `json:"saved"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
