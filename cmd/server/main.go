// Command server runs the patient summary HTTP API: patient and note
// management, synchronous summary generation, and the asynchronous
// submit/poll job endpoints. With jobs.run_workers enabled it also embeds
// the worker pool that drains the job queue.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/carelog/summary-api/internal/api"
	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/job"
	"github.com/carelog/summary-api/internal/metrics"
	"github.com/carelog/summary-api/internal/platform"
	"github.com/carelog/summary-api/internal/platform/logger"
	"github.com/carelog/summary-api/internal/platform/postgres"
	"github.com/carelog/summary-api/internal/service"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
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
	log.Info("generation backend ready", slog.String("backend", generator.Name()))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	appMetrics := metrics.New(registry)
	httpMetrics := metrics.NewHTTPMiddleware(registry)

	patientStore := postgres.NewPatientStore(db)
	noteStore := postgres.NewNoteStore(db)
	jobStore := postgres.NewJobStore(db)

	patientSvc := service.NewPatientService(patientStore, log)
	noteSvc := service.NewNoteService(patientStore, noteStore, log)
	summarySvc := service.NewSummaryService(patientStore, noteStore, generator, cfg.Summary, appMetrics, log)
	manager := job.NewManager(jobStore, cfg.Jobs, appMetrics, log)

	router := api.NewRouter(api.RouterConfig{
		Patients:          patientSvc,
		Notes:             noteSvc,
		Summaries:         summarySvc,
		Jobs:              manager,
		MetricsMiddleware: httpMetrics.Handler,
		MetricsHandler:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:            log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var runner *job.Runner
	if cfg.Jobs.RunWorkers {
		runner = job.NewRunner(manager, summarySvc, cfg.Jobs, log)
		runner.Start()
		log.Info("embedded job workers started", slog.Int("count", cfg.Jobs.WorkerCount))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		if runner != nil {
			runner.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
