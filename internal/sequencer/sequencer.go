package sequencer

import (
	"context"
	"time"
)

// Schedule supplies the current per-phase hold and inter-cycle interval.
// The engine wires it to the runtime state, so timing changes made over the
// console or the API apply from the next hold without restarting anything.
type Schedule interface {
	PhaseDelay() time.Duration
	Interval() time.Duration
}

// Sequencer advances the bank through exactly one full actuation cycle.
// Implementations leave every output deasserted when they return an error.
type Sequencer interface {
	RunCycle(ctx context.Context) error
}
