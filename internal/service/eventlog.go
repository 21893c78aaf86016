package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pumpbank/internal/models"
	"pumpbank/internal/repository"
)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// EventLogService answers filtered queries over the controller's event log.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns the events the filter selects, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.PumpEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}

// normalizeAndValidateFilter converts the bounds to UTC, canonicalizes the
// type filter and rejects an inverted window.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}
	return from, to, normalizeEventType(f.Type), nil
}

// normalizeToUTC converts t to UTC; the zero time stays zero so open bounds
// survive normalization.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType maps operator input onto the stored TYPE spelling.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}
