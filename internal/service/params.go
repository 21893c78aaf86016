package service

import (
	"fmt"
	"time"

	"pumpbank/internal/models"
)

// ChangedValue reports an operator-visible timing change.
type ChangedValue struct {
	OldMs uint16 `json:"old_ms"`
	NewMs uint16 `json:"new_ms"`
}

// OutOfRangeError rejects a cycle-time or interval argument outside the
// accepted window. The offending value is kept for the operator reply.
type OutOfRangeError struct {
	Value uint64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value %d out of range [%d, %d] ms", e.Value, models.MinDurationMs, models.MaxDurationMs)
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "STARTUP", "FAULT", "CHECKPOINT", ...
}
