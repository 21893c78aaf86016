package models

import "time"

// Event types appended by the controller.
// STARTUP/SHUTDOWN mark daemon lifetime, FAULT/RECOVERY the sense gate,
// CHECKPOINT/TIME_CHANGE/RESET the profile store, PAUSE/RESUME the engine
// gate.
const (
	EventStartup    = "STARTUP"
	EventShutdown   = "SHUTDOWN"
	EventFault      = "FAULT"
	EventRecovery   = "RECOVERY"
	EventCheckpoint = "CHECKPOINT"
	EventTimeChange = "TIME_CHANGE"
	EventPause      = "PAUSE"
	EventResume     = "RESUME"
	EventReset      = "RESET"
)

// PumpEvent is one entry in the controller's event log.
type PumpEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
