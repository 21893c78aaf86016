package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pumpbank/internal/console"
	"pumpbank/internal/handlers"
	"pumpbank/internal/hw"
	"pumpbank/internal/logger"
	"pumpbank/internal/models"
	"pumpbank/internal/repository"
	"pumpbank/internal/sense"
	"pumpbank/internal/sequencer"
	"pumpbank/internal/server"
	"pumpbank/internal/service"
	"pumpbank/internal/state"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// @title           Pumpbank Controller API
// @version         2.4.0
// @description     REST control surface for the pump actuator bank controller.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	variant, err := models.ParseVariant(viper.GetString("variant"))
	if err != nil {
		log.Fatalw("invalid variant", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := repository.NewRepository(db)

	// open the hardware bank for the variant's pinout
	pins := hw.PinoutFor(variant)
	bankHW, err := openBank(pins, log)
	if err != nil {
		log.Fatalw("failed to open hardware bank", "err", err)
	}
	defer func() {
		if cerr := bankHW.Close(); cerr != nil {
			log.Errorw("failed to close hardware bank", "err", cerr)
		}
	}()

	// load (or seed) the persisted profile and build the live bank state
	rec, err := loadOrSeedProfile(context.Background(), repos, variant, log)
	if err != nil {
		log.Fatalw("failed to load profile", "err", err)
	}
	bank := state.New(variant, rec)
	log.Infow("bank state loaded",
		"variant", variant,
		"channels", variant.Channels(),
		"cycles", rec.ActiveCycles,
		"overflows", rec.Overflows,
		"cycle_time_ms", rec.CycleTimeMs,
	)

	senseEnforced := resolveSenseEnforced(variant)

	// wire dependencies
	services := service.NewService(repos, service.Deps{
		Bank:          bank,
		Sequencer:     newSequencer(variant, bankHW, pins, bank),
		Sense:         sense.NewMonitor(bankHW, bankHW, pins.Sense),
		SenseEnforced: senseEnforced,
		Sleeper:       bankHW,
		Log:           log,
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recordEvent(ctx, repos, models.EventStartup, fmt.Sprintf("Controller started (%s variant)", variant), log)

	// start the actuation engine
	go services.Engine.Run(ctx)

	// start the operator console
	consoleSrv := console.NewServer(services, senseEnforced, log)
	go func() {
		if err := consoleSrv.Run(ctx, consoleAddr()); err != nil {
			log.Errorw("console server stopped", "err", err)
		}
	}()

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, services, repos, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "pumpbank.db")
		dbPath = "pumpbank.db"
	}
	return repository.InitDB(dbPath)
}

// openBank opens the configured hardware backend. "sim" runs cycles in
// memory; "gpio" drives character-device lines and the IIO ADC.
func openBank(pins hw.Pinout, log *logger.Logger) (hw.Bank, error) {
	backend := viper.GetString("hw.backend")
	switch backend {
	case "", "sim":
		sim := hw.NewSimBank()
		sim.TimeScale = viper.GetInt("sim.time_scale")
		log.Infow("hardware backend: simulator", "time_scale", sim.TimeScale)
		return sim, nil
	case "gpio":
		chip := viper.GetString("hw.chip")
		if chip == "" {
			chip = "gpiochip0"
		}
		adc := viper.GetString("hw.adc_device")
		if adc == "" {
			adc = "/sys/bus/iio/devices/iio:device0"
		}
		log.Infow("hardware backend: gpio", "chip", chip, "adc", adc)
		return hw.NewCdevBank(chip, adc, pins)
	default:
		return nil, fmt.Errorf("unknown hw.backend %q", backend)
	}
}

// loadOrSeedProfile returns the stored record. On first boot the store is
// seeded from an EEPROM image when one is configured, else from the
// variant defaults, so every later boot finds a record.
func loadOrSeedProfile(ctx context.Context, repos *repository.Repository, variant models.Variant, log *logger.Logger) (models.ConfigRecord, error) {
	rec, found, err := repos.ProfileRepo.Load(ctx)
	if err != nil {
		return models.ConfigRecord{}, err
	}
	if found {
		return rec, nil
	}

	rec = variant.DefaultRecord()
	if img := viper.GetString("profile.eeprom_image"); img != "" {
		imported, ierr := readEEPROMImage(img)
		if ierr != nil {
			log.Warnw("eeprom image unreadable, using defaults", "path", img, "err", ierr)
		} else {
			rec = imported
			log.Infow("profile imported from eeprom image", "path", img)
		}
	}
	rec.UpdatedAt = time.Now().UTC()
	if err := repos.ProfileRepo.Save(ctx, rec); err != nil {
		return models.ConfigRecord{}, err
	}
	return rec, nil
}

// readEEPROMImage parses a raw 6-byte dump of the original controller's
// storage into a record.
func readEEPROMImage(path string) (models.ConfigRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.ConfigRecord{}, err
	}
	var rec models.ConfigRecord
	if err := rec.UnmarshalBinary(raw); err != nil {
		return models.ConfigRecord{}, err
	}
	return rec, nil
}

func newSequencer(variant models.Variant, bankHW hw.Bank, pins hw.Pinout, bank *state.Bank) sequencer.Sequencer {
	if variant == models.VariantQuadrature {
		return sequencer.NewQuadrature(bankHW, pins, bank)
	}
	return sequencer.NewSequential(bankHW, pins, bank)
}

// resolveSenseEnforced applies the config override on top of the variant
// default (sequential checks supplies, quadrature does not).
func resolveSenseEnforced(variant models.Variant) bool {
	if viper.IsSet("sense.enforce") {
		return viper.GetBool("sense.enforce")
	}
	return variant.SenseEnforcedDefault()
}

func consoleAddr() string {
	addr := viper.GetString("console.addr")
	if addr == "" {
		addr = ":7070"
	}
	return addr
}

func recordEvent(ctx context.Context, repos *repository.Repository, typ, desc string, log *logger.Logger) {
	if err := repos.EventRepo.Append(ctx, models.PumpEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
	}); err != nil {
		log.Errorw("event append failed", "type", typ, "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful
// shutdown: the engine and console stop, the counters are checkpointed one
// last time, then in-flight HTTP requests drain.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, services *service.Service, repos *repository.Repository, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// counters survive the restart even if nobody checkpointed recently
	if _, err := services.Pump.Checkpoint(ctx); err != nil {
		log.Errorw("final checkpoint failed", "err", err)
	}
	recordEvent(ctx, repos, models.EventShutdown, "Controller stopped", log)

	// allow in-flight requests to complete
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
