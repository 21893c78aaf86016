package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pumpbank/internal/hw"
	"pumpbank/internal/logger"
	"pumpbank/internal/models"
	"pumpbank/internal/sense"
	"pumpbank/internal/state"
)

type stubSequencer struct {
	runs int
	hook func(run int) error
}

func (s *stubSequencer) RunCycle(ctx context.Context) error {
	s.runs++
	if s.hook != nil {
		return s.hook(s.runs)
	}
	return nil
}

func TestEngineService_Run_CyclesUntilCancelled(t *testing.T) {
	bank := state.New(models.VariantSequential, models.ConfigRecord{CycleTimeMs: 1200})
	sim := hw.NewSimBank()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seq := &stubSequencer{hook: func(run int) error {
		if run == 3 {
			cancel()
		}
		return nil
	}}
	eng := &EngineService{
		bank:  bank,
		seq:   seq,
		sleep: sim,
		log:   logger.Get(logger.ErrorLevel),
	}

	eng.Run(ctx)

	if seq.runs != 3 {
		t.Fatalf("sequencer ran %d times, want 3", seq.runs)
	}
	if acct := bank.Account(); acct.Cycles != 3 || acct.Overflows != 0 {
		t.Fatalf("account = %+v", acct)
	}
	if snap := bank.Snapshot(models.ConfigRecord{}); snap.Engine != models.EngineIdle {
		t.Fatalf("engine left in %q", snap.Engine)
	}
}

func TestEngineService_Run_PausedGateBlocksSequencer(t *testing.T) {
	bank := state.New(models.VariantSequential, models.ConfigRecord{CycleTimeMs: 1200})
	bank.Pause()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	seq := &stubSequencer{}
	eng := &EngineService{
		bank:  bank,
		seq:   seq,
		sleep: hw.NewSimBank(),
		log:   logger.Get(logger.ErrorLevel),
	}

	eng.Run(ctx)

	if seq.runs != 0 {
		t.Fatalf("sequencer ran %d times while paused", seq.runs)
	}
}

func TestEngineService_Run_FaultCheckpointsAndRecovers(t *testing.T) {
	bank := state.New(models.VariantSequential, models.ConfigRecord{ActiveCycles: 7, CycleTimeMs: 1200})
	prepo := &fakeProfileRepo{}
	erepo := &localEventRepo{}

	sim := hw.NewSimBank()
	sim.SetSense(0, 100)
	polls := 0
	sim.SleepFunc = func(ctx context.Context, d time.Duration) error {
		polls++
		if polls >= 2 {
			sim.SetSense(0, 800)
		}
		return ctx.Err()
	}
	mon := sense.NewMonitor(sim, sim, []int{0, 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ranAfterRecovery := false
	seq := &stubSequencer{hook: func(run int) error {
		ranAfterRecovery = len(erepo.events) == 2
		cancel()
		return nil
	}}
	eng := &EngineService{
		bank:          bank,
		seq:           seq,
		sense:         mon,
		senseEnforced: true,
		sleep:         sim,
		profileRepo:   prepo,
		eventRepo:     erepo,
		log:           logger.Get(logger.ErrorLevel),
	}

	eng.Run(ctx)

	if seq.runs != 1 {
		t.Fatalf("sequencer ran %d times, want 1", seq.runs)
	}
	if !ranAfterRecovery {
		t.Fatalf("sequencer ran before the fault cleared")
	}

	if len(prepo.savedCalls) != 1 {
		t.Fatalf("expected one fault checkpoint, got %d", len(prepo.savedCalls))
	}
	if saved := prepo.savedCalls[0]; saved.ActiveCycles != 7 || saved.CycleTimeMs != 1200 {
		t.Fatalf("checkpointed record = %+v", saved)
	}

	if len(erepo.events) != 2 {
		t.Fatalf("expected FAULT and RECOVERY, got %#v", erepo.events)
	}
	fault, recovery := erepo.events[0], erepo.events[1]
	if fault.Type != models.EventFault || recovery.Type != models.EventRecovery {
		t.Fatalf("event order = %q, %q", fault.Type, recovery.Type)
	}
	if !strings.Contains(fault.Description, "Pump 1") {
		t.Fatalf("fault description = %q", fault.Description)
	}

	if acct := bank.Account(); acct.Cycles != 8 {
		t.Fatalf("account = %+v", acct)
	}
	if snap := bank.Snapshot(models.ConfigRecord{}); snap.Engine != models.EngineIdle || snap.FaultChannel != 0 {
		t.Fatalf("engine left in %q fault %d", snap.Engine, snap.FaultChannel)
	}
}

func TestEngineService_Run_SenseIgnoredWhenNotEnforced(t *testing.T) {
	bank := state.New(models.VariantQuadrature, models.ConfigRecord{CycleTimeMs: 1000})
	prepo := &fakeProfileRepo{}
	erepo := &localEventRepo{}

	sim := hw.NewSimBank()
	sim.SetSense(0, 0)
	mon := sense.NewMonitor(sim, sim, []int{0})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seq := &stubSequencer{hook: func(run int) error {
		cancel()
		return nil
	}}
	eng := &EngineService{
		bank:        bank,
		seq:         seq,
		sense:       mon,
		sleep:       sim,
		profileRepo: prepo,
		eventRepo:   erepo,
		log:         logger.Get(logger.ErrorLevel),
	}

	eng.Run(ctx)

	if seq.runs != 1 {
		t.Fatalf("sequencer ran %d times, want 1", seq.runs)
	}
	if len(prepo.savedCalls) != 0 || len(erepo.events) != 0 {
		t.Fatalf("unenforced sense produced store traffic: %d saves, %d events",
			len(prepo.savedCalls), len(erepo.events))
	}
}

func TestEngineService_Run_CycleErrorBacksOffAndRetries(t *testing.T) {
	bank := state.New(models.VariantSequential, models.ConfigRecord{CycleTimeMs: 1200})
	sleepSim := hw.NewSimBank()
	sleepSim.Record = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seq := &stubSequencer{hook: func(run int) error {
		if run == 1 {
			return errors.New("stuck valve")
		}
		cancel()
		return nil
	}}
	eng := &EngineService{
		bank:  bank,
		seq:   seq,
		sleep: sleepSim,
		log:   logger.Get(logger.ErrorLevel),
	}

	eng.Run(ctx)

	if seq.runs != 2 {
		t.Fatalf("sequencer ran %d times, want 2", seq.runs)
	}
	if acct := bank.Account(); acct.Cycles != 1 {
		t.Fatalf("failed cycle was counted: %+v", acct)
	}
	sleeps := sleepSim.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != cycleRetryDelay {
		t.Fatalf("backoff sleeps = %v", sleeps)
	}
}

func TestEngineService_Run_CounterWrapBumpsOverflows(t *testing.T) {
	bank := state.New(models.VariantSequential, models.ConfigRecord{ActiveCycles: 65535, Overflows: 3, CycleTimeMs: 1200})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seq := &stubSequencer{hook: func(run int) error {
		cancel()
		return nil
	}}
	eng := &EngineService{
		bank:  bank,
		seq:   seq,
		sleep: hw.NewSimBank(),
		log:   logger.Get(logger.ErrorLevel),
	}

	eng.Run(ctx)

	if acct := bank.Account(); acct.Cycles != 0 || acct.Overflows != 4 {
		t.Fatalf("account after wrap = %+v", acct)
	}
}
