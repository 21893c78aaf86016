package state

import (
	"context"
	"sync"
	"time"

	"pumpbank/internal/models"
)

// Bank is the authoritative runtime state of the pump bank. The original
// controller ran one cooperative loop; here the console, the HTTP surface
// and the engine goroutine all touch the same counters and timing, so every
// access goes through the mutex.
type Bank struct {
	mu      sync.Mutex
	variant models.Variant
	account models.CycleAccount
	timing  models.Timing
	engine  string
	faultCh int
	paused  bool
	resume  chan struct{}
}

// New seeds the runtime mirror from the persisted record. A zero cycle time
// in the record falls back to the variant default.
func New(v models.Variant, rec models.ConfigRecord) *Bank {
	b := &Bank{
		variant: v,
		account: models.CycleAccount{Cycles: rec.ActiveCycles, Overflows: rec.Overflows},
		timing:  v.DefaultTiming(),
		engine:  models.EngineIdle,
		resume:  openGate(),
	}
	if rec.CycleTimeMs != 0 {
		b.timing.CycleTimeMs = rec.CycleTimeMs
	}
	return b
}

func openGate() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (b *Bank) Variant() models.Variant {
	return b.variant
}

// RecordCycle adds one completed cycle and reports the counters after the
// increment plus whether the cycle register wrapped.
func (b *Bank) RecordCycle() (models.CycleAccount, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	wrapped := b.account.RecordCycle()
	return b.account, wrapped
}

func (b *Bank) Account() models.CycleAccount {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.account
}

func (b *Bank) Timing() models.Timing {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timing
}

// PhaseDelay is the per-phase hold the sequencer runs on, derived from the
// current cycle time.
func (b *Bank) PhaseDelay() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return time.Duration(b.timing.PhaseDelayMs(b.variant)) * time.Millisecond
}

// Interval is the current inter-cycle wait.
func (b *Bank) Interval() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return time.Duration(b.timing.IntervalMs) * time.Millisecond
}

// Mirror captures the counters and cycle time as one record, the shape the
// profile store persists.
func (b *Bank) Mirror() models.ConfigRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return models.ConfigRecord{
		ActiveCycles: b.account.Cycles,
		Overflows:    b.account.Overflows,
		CycleTimeMs:  b.timing.CycleTimeMs,
	}
}

// SetCycleTime installs a validated cycle time and clears the counters, the
// combined effect of a cycle-time change. Returns the previous value.
func (b *Bank) SetCycleTime(ms uint16) uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.timing.CycleTimeMs
	b.timing.CycleTimeMs = ms
	b.account.Reset()
	return old
}

// SetInterval installs a validated inter-cycle interval. Returns the
// previous value.
func (b *Bank) SetInterval(ms uint16) uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.timing.IntervalMs
	b.timing.IntervalMs = ms
	return old
}

// Pause closes the engine gate. Returns false when already paused.
func (b *Bank) Pause() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.paused {
		return false
	}
	b.paused = true
	b.resume = make(chan struct{})
	return true
}

// Resume reopens the gate. Returns false when not paused.
func (b *Bank) Resume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.paused {
		return false
	}
	b.paused = false
	close(b.resume)
	return true
}

func (b *Bank) Paused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paused
}

// AwaitResume blocks while the bank is paused. The engine calls it at the
// top of every pass.
func (b *Bank) AwaitResume(ctx context.Context) error {
	b.mu.Lock()
	gate := b.resume
	b.mu.Unlock()
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetEngine publishes the engine status; faultCh is the 1-based sense
// channel that tripped the gate, 0 otherwise.
func (b *Bank) SetEngine(status string, faultCh int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.engine = status
	b.faultCh = faultCh
}

// Snapshot captures the live view next to the supplied persisted record.
// A paused bank reports PAUSED whatever the engine was doing.
func (b *Bank) Snapshot(saved models.ConfigRecord) models.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	engine := b.engine
	if b.paused {
		engine = models.EnginePaused
	}
	return models.Snapshot{
		Variant:      b.variant,
		Engine:       engine,
		FaultChannel: b.faultCh,
		Account:      b.account,
		Timing:       b.timing,
		PhaseDelayMs: b.timing.PhaseDelayMs(b.variant),
		Saved:        saved,
		UpdatedAt:    time.Now().UTC(),
	}
}
