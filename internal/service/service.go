package service

import (
	"context"

	"pumpbank/internal/hw"
	"pumpbank/internal/logger"
	"pumpbank/internal/models"
	"pumpbank/internal/repository"
	"pumpbank/internal/sense"
	"pumpbank/internal/sequencer"
	"pumpbank/internal/state"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Pump exposes the operator control operations shared by the serial console
// and the HTTP API.
type Pump interface {
	Profile(ctx context.Context) (models.ConfigRecord, bool, error)
	SetCycleTime(ctx context.Context, ms uint64) (ChangedValue, error)
	SetInterval(ms uint64) (ChangedValue, error)
	Checkpoint(ctx context.Context) (models.ConfigRecord, error)
	Reset(ctx context.Context) (models.ConfigRecord, error)
	Pause(ctx context.Context) bool
	Resume(ctx context.Context) bool
}

// Monitoring exposes the live view: counters, timing, engine status.
type Monitoring interface {
	GetState(ctx context.Context) (models.Snapshot, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.PumpEvent, error)
}

// Engine runs the actuation loop that drives the bank.
// Stop via context cancellation in main() for graceful shutdown.
type Engine interface {
	Run(ctx context.Context)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Pump
	Monitoring
	EventLog
	Engine
	Authorization
}

// Deps carries the runtime pieces NewService wires beyond the repositories:
// the shared bank state, the variant's sequencer and the sense monitor.
type Deps struct {
	Bank          *state.Bank
	Sequencer     sequencer.Sequencer
	Sense         *sense.Monitor
	SenseEnforced bool
	Sleeper       hw.Sleeper
	Log           *logger.Logger
}

// NewService wires the repository layer and the runtime deps into concrete
// services.
func NewService(repos *repository.Repository, d Deps) *Service {
	return &Service{
		Pump:          NewPumpService(d.Bank, repos.ProfileRepo, repos.EventRepo),
		Monitoring:    NewMonitoringService(d.Bank, repos.ProfileRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Engine:        NewEngineService(d.Bank, d.Sequencer, d.Sense, d.SenseEnforced, d.Sleeper, repos.ProfileRepo, repos.EventRepo, d.Log),
		Authorization: NewAuthService(repos.Auth),
	}
}
