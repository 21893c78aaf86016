package service

import (
	"context"
	"fmt"
	"time"

	"pumpbank/internal/hw"
	"pumpbank/internal/logger"
	"pumpbank/internal/models"
	"pumpbank/internal/repository"
	"pumpbank/internal/sense"
	"pumpbank/internal/sequencer"
	"pumpbank/internal/state"

	"github.com/google/uuid"
)

// cycleRetryDelay is the backoff after a failed cycle, so a wedged output
// stage cannot spin the loop.
const cycleRetryDelay = time.Second

// EngineService owns the actuation loop: it gates every cycle behind the
// pause switch and the sense scan, runs the sequencer, and accounts the
// completed cycle.
type EngineService struct {
	bank          *state.Bank
	seq           sequencer.Sequencer
	sense         *sense.Monitor
	senseEnforced bool
	sleep         hw.Sleeper
	profileRepo   repository.ProfileRepo
	eventRepo     repository.EventRepo
	log           *logger.Logger
}

func NewEngineService(
	bank *state.Bank,
	seq sequencer.Sequencer,
	senseMon *sense.Monitor,
	senseEnforced bool,
	sleep hw.Sleeper,
	profileRepo repository.ProfileRepo,
	eventRepo repository.EventRepo,
	log *logger.Logger,
) *EngineService {
	return &EngineService{
		bank:          bank,
		seq:           seq,
		sense:         senseMon,
		senseEnforced: senseEnforced,
		sleep:         sleep,
		profileRepo:   profileRepo,
		eventRepo:     eventRepo,
		log:           log,
	}
}

// Run drives cycles until ctx ends. Store failures are logged and do not
// stop actuation; hardware failures back off and retry.
func (e *EngineService) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if err := e.bank.AwaitResume(ctx); err != nil {
			return
		}
		if e.senseEnforced {
			if err := e.guardSense(ctx); err != nil {
				return
			}
		}

		e.bank.SetEngine(models.EngineCycling, 0)
		if err := e.seq.RunCycle(ctx); err != nil {
			e.bank.SetEngine(models.EngineIdle, 0)
			if ctx.Err() != nil {
				return
			}
			e.log.Errorw("cycle failed", "err", err)
			if err := e.sleep.Sleep(ctx, cycleRetryDelay); err != nil {
				return
			}
			continue
		}

		acct, wrapped := e.bank.RecordCycle()
		if wrapped {
			e.log.Infow("cycle counter wrapped", "overflows", acct.Overflows)
		}
		e.bank.SetEngine(models.EngineIdle, 0)
	}
}

// guardSense blocks actuation while any sense channel reads below the trip
// threshold. The first detection checkpoints the counters and logs the
// failing channel; recovery is announced before cycling continues.
func (e *EngineService) guardSense(ctx context.Context) error {
	ok, failing := e.sense.Scan()
	if ok {
		return nil
	}
	now := time.Now().UTC()

	e.bank.SetEngine(models.EngineFaulted, failing)
	e.log.Warnw("sense fault, actuation halted", "channel", failing)

	// Counters must survive a power cut while the bank sits halted.
	mirror := e.bank.Mirror()
	mirror.UpdatedAt = now
	if err := e.profileRepo.Save(ctx, mirror); err != nil {
		e.log.Errorw("fault checkpoint failed", "err", err)
	}
	if err := e.eventRepo.Append(ctx, models.PumpEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventFault,
		Description: fmt.Sprintf("Pump %d supply below threshold", failing),
		Metadata:    map[string]any{"channel": failing},
	}); err != nil {
		e.log.Errorw("fault event append failed", "err", err)
	}

	if err := e.sense.WaitRecovery(ctx); err != nil {
		return err
	}

	e.bank.SetEngine(models.EngineIdle, 0)
	e.log.Infow("sense recovered, actuation resumes", "channel", failing)
	if err := e.eventRepo.Append(ctx, models.PumpEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventRecovery,
		Description: "All sense channels recovered",
		Metadata:    map[string]any{"channel": failing},
	}); err != nil {
		e.log.Errorw("recovery event append failed", "err", err)
	}
	return nil
}
