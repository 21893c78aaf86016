package service

import (
	"context"
	"fmt"
	"time"

	"pumpbank/internal/models"
	"pumpbank/internal/repository"
	"pumpbank/internal/state"

	"github.com/google/uuid"
)

// PumpService implements the operator control surface against the runtime
// mirror and the profile store.
type PumpService struct {
	bank        *state.Bank
	profileRepo repository.ProfileRepo
	eventRepo   repository.EventRepo
}

func NewPumpService(bank *state.Bank, profileRepo repository.ProfileRepo, eventRepo repository.EventRepo) *PumpService {
	return &PumpService{bank: bank, profileRepo: profileRepo, eventRepo: eventRepo}
}

// Profile reads the persisted record. On a store the bank never
// checkpointed into, the variant defaults are returned with found=false.
func (s *PumpService) Profile(ctx context.Context) (models.ConfigRecord, bool, error) {
	rec, found, err := s.profileRepo.Load(ctx)
	if err != nil {
		return models.ConfigRecord{}, false, err
	}
	if !found {
		rec = s.bank.Variant().DefaultRecord()
	}
	return rec, found, nil
}

// SetCycleTime validates the requested cycle time, installs it, clears the
// live counters and persists the whole record. Cycle accounting restarts
// with the new cycle time.
func (s *PumpService) SetCycleTime(ctx context.Context, ms uint64) (ChangedValue, error) {
	if !models.DurationInRange(ms) {
		return ChangedValue{}, &OutOfRangeError{Value: ms}
	}
	now := time.Now().UTC()

	old := s.bank.SetCycleTime(uint16(ms))
	if err := s.profileRepo.Save(ctx, models.ConfigRecord{CycleTimeMs: uint16(ms), UpdatedAt: now}); err != nil {
		return ChangedValue{}, err
	}

	return ChangedValue{OldMs: old, NewMs: uint16(ms)}, s.eventRepo.Append(ctx, models.PumpEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventTimeChange,
		Description: fmt.Sprintf("Cycle time changed from %d to %d ms", old, ms),
		Metadata: map[string]any{
			"old_ms": old,
			"new_ms": ms,
		},
	})
}

// SetInterval validates the requested inter-cycle interval and applies it
// to the runtime only; the interval is never part of the persisted record.
func (s *PumpService) SetInterval(ms uint64) (ChangedValue, error) {
	if !models.DurationInRange(ms) {
		return ChangedValue{}, &OutOfRangeError{Value: ms}
	}
	old := s.bank.SetInterval(uint16(ms))
	return ChangedValue{OldMs: old, NewMs: uint16(ms)}, nil
}

// Checkpoint persists the live counters and cycle time as one record.
func (s *PumpService) Checkpoint(ctx context.Context) (models.ConfigRecord, error) {
	now := time.Now().UTC()

	rec := s.bank.Mirror()
	rec.UpdatedAt = now
	if err := s.profileRepo.Save(ctx, rec); err != nil {
		return models.ConfigRecord{}, err
	}

	return rec, s.eventRepo.Append(ctx, models.PumpEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventCheckpoint,
		Description: "Profile checkpointed",
		Metadata: map[string]any{
			"active_cycles": rec.ActiveCycles,
			"overflows":     rec.Overflows,
			"cycle_time_ms": rec.CycleTimeMs,
		},
	})
}

// Reset persists the variant defaults with zeroed counters. The live state
// keeps running on the old values until the controller restarts; the stored
// profile is what changes.
func (s *PumpService) Reset(ctx context.Context) (models.ConfigRecord, error) {
	now := time.Now().UTC()

	rec := s.bank.Variant().DefaultRecord()
	rec.UpdatedAt = now
	if err := s.profileRepo.Save(ctx, rec); err != nil {
		return models.ConfigRecord{}, err
	}

	return rec, s.eventRepo.Append(ctx, models.PumpEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventReset,
		Description: "Profile reset to defaults; restart required to apply",
	})
}

// Pause closes the engine gate. Returns false when already paused.
func (s *PumpService) Pause(ctx context.Context) bool {
	if !s.bank.Pause() {
		return false
	}
	_ = s.eventRepo.Append(ctx, models.PumpEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventPause,
		Description: "Actuation paused",
	})
	return true
}

// Resume reopens the engine gate. Returns false when not paused.
func (s *PumpService) Resume(ctx context.Context) bool {
	if !s.bank.Resume() {
		return false
	}
	_ = s.eventRepo.Append(ctx, models.PumpEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventResume,
		Description: "Actuation resumed",
	})
	return true
}
