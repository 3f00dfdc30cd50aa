// Command worker runs a dedicated job worker pool against the shared
// database. Deploy it alongside cmd/server with jobs.run_workers disabled
// there, or scale it independently of the API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/job"
	"github.com/carelog/summary-api/internal/metrics"
	"github.com/carelog/summary-api/internal/platform"
	"github.com/carelog/summary-api/internal/platform/logger"
	"github.com/carelog/summary-api/internal/platform/postgres"
	"github.com/carelog/summary-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		slog.Error("worker exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(db, cfg.Database.Driver); err != nil {
		return err
	}

	generator, err := platform.NewGenerator(ctx, cfg.Backend, log)
	if err != nil {
		return fmt.Errorf("constructing generation backend: %w", err)
	}

	appMetrics := metrics.New(prometheus.NewRegistry())

	patientStore := postgres.NewPatientStore(db)
	noteStore := postgres.NewNoteStore(db)
	summarySvc := service.NewSummaryService(patientStore, noteStore, generator, cfg.Summary, appMetrics, log)
	manager := job.NewManager(postgres.NewJobStore(db), cfg.Jobs, appMetrics, log)

	runner := job.NewRunner(manager, summarySvc, cfg.Jobs, log)
	runner.Start()
	log.Info("job workers started",
		slog.Int("count", cfg.Jobs.WorkerCount),
		slog.String("backend", generator.Name()))

	<-ctx.Done()
	log.Info("shutting down")
	runner.Stop()
	return nil
}
