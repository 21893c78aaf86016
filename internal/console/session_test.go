package console

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"pumpbank"
	"pumpbank/internal/logger"
	"pumpbank/internal/models"
	"pumpbank/internal/service"
	"pumpbank/internal/state"
)

type stubProfileRepo struct {
	rec   models.ConfigRecord
	found bool
	saves []models.ConfigRecord
}

// Load reflects the latest Save so read-back commands see writes.
func (f *stubProfileRepo) Load(ctx context.Context) (models.ConfigRecord, bool, error) {
	if n := len(f.saves); n > 0 {
		return f.saves[n-1], true, nil
	}
	return f.rec, f.found, nil
}

func (f *stubProfileRepo) Save(ctx context.Context, rec models.ConfigRecord) error {
	f.saves = append(f.saves, rec)
	return nil
}

type stubEventRepo struct {
	events []models.PumpEvent
}

func (f *stubEventRepo) Append(ctx context.Context, e models.PumpEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *stubEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.PumpEvent, error) {
	return nil, nil
}

func newConsoleService(rec models.ConfigRecord) (*service.Service, *state.Bank, *stubProfileRepo) {
	bank := state.New(models.VariantSequential, rec)
	prepo := &stubProfileRepo{rec: rec, found: true}
	return &service.Service{
		Pump:       service.NewPumpService(bank, prepo, &stubEventRepo{}),
		Monitoring: service.NewMonitoringService(bank, prepo),
	}, bank, prepo
}

func runSession(t *testing.T, svc *service.Service, senseOn bool, input string) string {
	t.Helper()
	var out bytes.Buffer
	sess := NewSession(svc, strings.NewReader(input), &out, senseOn, logger.Get(logger.ErrorLevel))
	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("session error: %v", err)
	}
	return out.String()
}

func TestSession_DisplayData(t *testing.T) {
	svc, _, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	got := runSession(t, svc, true, "D;\n")
	want := "CYCLES: 0 OVERFLOWS: 0\nCYCLE TIME: 1200 MS INTERVAL: 500 MS\nENGINE: IDLE\n\n"
	if got != want {
		t.Fatalf("output = %q; want %q", got, want)
	}
}

func TestSession_InvalidLines(t *testing.T) {
	for _, in := range []string{"D\n", "\n", "Q;1\n", "help\n"} {
		svc, _, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})
		got := runSession(t, svc, true, in)
		if got != "INVALID COMMAND\n\n" {
			t.Fatalf("input %q: output = %q", in, got)
		}
	}
}

func TestSession_WriteTimeThenReadBack(t *testing.T) {
	svc, bank, prepo := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	got := runSession(t, svc, true, "W;2400\nR;\n")
	want := "CYCLE TIME 1200 -> 2400 MS\nCOUNTERS CLEARED\n\n" +
		"STORED CYCLES: 0 OVERFLOWS: 0\nSTORED CYCLE TIME: 2400 MS\n\n"
	if got != want {
		t.Fatalf("output = %q; want %q", got, want)
	}
	if got := bank.Timing().CycleTimeMs; got != 2400 {
		t.Fatalf("bank cycle time = %d", got)
	}
	if len(prepo.saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(prepo.saves))
	}
}

func TestSession_WriteTimeOutOfRange(t *testing.T) {
	svc, bank, prepo := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	for _, in := range []string{"W;39\n", "W;65536\n", "I;99999999999999999999999\n"} {
		got := runSession(t, svc, true, in)
		if got != "VALUE OUT OF RANGE (40-65535 MS)\n\n" {
			t.Fatalf("input %q: output = %q", in, got)
		}
	}
	if len(prepo.saves) != 0 {
		t.Fatalf("rejected values reached the store")
	}
	if got := bank.Timing().CycleTimeMs; got != 1200 {
		t.Fatalf("bank cycle time mutated: %d", got)
	}
}

func TestSession_SetInterval(t *testing.T) {
	svc, bank, prepo := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	got := runSession(t, svc, true, "I;900\n")
	if got != "INTERVAL 500 -> 900 MS\n\n" {
		t.Fatalf("output = %q", got)
	}
	if got := bank.Timing().IntervalMs; got != 900 {
		t.Fatalf("interval = %d", got)
	}
	if len(prepo.saves) != 0 {
		t.Fatalf("interval change reached the store")
	}
}

func TestSession_LogData(t *testing.T) {
	svc, _, prepo := newConsoleService(models.ConfigRecord{ActiveCycles: 5, CycleTimeMs: 1200})

	got := runSession(t, svc, true, "S;\n")
	if got != "SAVED CYCLES: 5 OVERFLOWS: 0\n\n" {
		t.Fatalf("output = %q", got)
	}
	if len(prepo.saves) != 1 || prepo.saves[0].ActiveCycles != 5 {
		t.Fatalf("saves = %+v", prepo.saves)
	}
}

func TestSession_PauseConsumesExactlyOneByte(t *testing.T) {
	svc, bank, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	// The X after the pause line is the resume byte; the D; line after it
	// must still dispatch intact.
	got := runSession(t, svc, true, "P;\nXD;\n")
	want := "CYCLES: 0 OVERFLOWS: 0\nCYCLE TIME: 1200 MS INTERVAL: 500 MS\nENGINE: PAUSED\n\n" +
		"PAUSED - SEND ANY BYTE TO RESUME\n\n" +
		"RESUMED\n\n" +
		"CYCLES: 0 OVERFLOWS: 0\nCYCLE TIME: 1200 MS INTERVAL: 500 MS\nENGINE: IDLE\n\n"
	if got != want {
		t.Fatalf("output = %q; want %q", got, want)
	}
	if bank.Paused() {
		t.Fatalf("bank left paused")
	}
}

func TestSession_PauseReleasedOnDisconnect(t *testing.T) {
	svc, bank, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	got := runSession(t, svc, true, "P;\n")
	want := "CYCLES: 0 OVERFLOWS: 0\nCYCLE TIME: 1200 MS INTERVAL: 500 MS\nENGINE: PAUSED\n\n" +
		"PAUSED - SEND ANY BYTE TO RESUME\n\n"
	if got != want {
		t.Fatalf("output = %q; want %q", got, want)
	}
	if bank.Paused() {
		t.Fatalf("bank left paused after disconnect")
	}
}

func TestSession_Reset(t *testing.T) {
	svc, bank, prepo := newConsoleService(models.ConfigRecord{ActiveCycles: 9, CycleTimeMs: 2000})

	got := runSession(t, svc, true, "X;\n")
	if got != "PROFILE RESET TO DEFAULTS\nRESTART REQUIRED TO APPLY\n\n" {
		t.Fatalf("output = %q", got)
	}
	if len(prepo.saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(prepo.saves))
	}
	if rec := prepo.saves[0]; rec.ActiveCycles != 0 || rec.CycleTimeMs != models.VariantSequential.DefaultCycleTimeMs() {
		t.Fatalf("stored record = %+v", rec)
	}
	// Live values keep running until restart.
	if bank.Timing().CycleTimeMs != 2000 || bank.Account().Cycles != 9 {
		t.Fatalf("live state mutated by reset")
	}
}

func TestSession_Version(t *testing.T) {
	svc, _, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	got := runSession(t, svc, true, "V;\n")
	if want := fmt.Sprintf("PUMPBANK %s SENSE:ON\n\n", pumpbank.Version); got != want {
		t.Fatalf("output = %q; want %q", got, want)
	}

	got = runSession(t, svc, false, "V;\n")
	if want := fmt.Sprintf("PUMPBANK %s SENSE:OFF\n\n", pumpbank.Version); got != want {
		t.Fatalf("output = %q; want %q", got, want)
	}
}

func TestSession_Menu(t *testing.T) {
	svc, _, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	got := runSession(t, svc, true, "M;\n")
	for _, line := range []string{
		"R; READ STORED PROFILE",
		"W;<MS> SET CYCLE TIME (40-65535)",
		"M; THIS MENU",
	} {
		if !strings.Contains(got, line) {
			t.Fatalf("menu missing %q:\n%s", line, got)
		}
	}
}

func TestSession_OverlongLineRejected(t *testing.T) {
	svc, _, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	got := runSession(t, svc, false, strings.Repeat("A", 300)+"\nV;\n")
	want := "INVALID COMMAND\n\n" + fmt.Sprintf("PUMPBANK %s SENSE:OFF\n\n", pumpbank.Version)
	if got != want {
		t.Fatalf("output = %q; want %q", got, want)
	}
}

func TestSession_PartialLineAtEOFDiscarded(t *testing.T) {
	svc, _, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	if got := runSession(t, svc, true, "D;"); got != "" {
		t.Fatalf("output = %q; want empty", got)
	}
}

func TestSession_CarriageReturnTolerated(t *testing.T) {
	svc, _, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})

	got := runSession(t, svc, true, "D;\r\n")
	want := "CYCLES: 0 OVERFLOWS: 0\nCYCLE TIME: 1200 MS INTERVAL: 500 MS\nENGINE: IDLE\n\n"
	if got != want {
		t.Fatalf("output = %q; want %q", got, want)
	}
}
