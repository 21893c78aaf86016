package service

import (
	"context"

	"pumpbank/internal/models"
	"pumpbank/internal/repository"
	"pumpbank/internal/state"
)

// MonitoringService assembles the live snapshot from the runtime mirror and
// the persisted profile.
type MonitoringService struct {
	bank        *state.Bank
	profileRepo repository.ProfileRepo
}

func NewMonitoringService(bank *state.Bank, profileRepo repository.ProfileRepo) *MonitoringService {
	return &MonitoringService{bank: bank, profileRepo: profileRepo}
}

// GetState returns the live view next to the last persisted record. A store
// the bank never checkpointed into reads as the variant defaults.
func (s *MonitoringService) GetState(ctx context.Context) (models.Snapshot, error) {
	saved, found, err := s.profileRepo.Load(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	if !found {
		saved = s.bank.Variant().DefaultRecord()
	}
	return s.bank.Snapshot(saved), nil
}
