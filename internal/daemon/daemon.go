// Package daemon runs full sync passes on a fixed interval and exposes
// Prometheus metrics over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"

	syncerrors "git.home.luguber.info/inful/notionsync/internal/errors"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
	syncsvc "git.home.luguber.info/inful/notionsync/internal/sync"
)

// Daemon schedules periodic sync runs.
type Daemon struct {
	service    *syncsvc.Service
	databaseID string
	interval   time.Duration
	listen     string
	scheduler  gocron.Scheduler
}

// New creates a daemon that syncs databaseID every interval and serves
// /metrics and /healthz on listen.
func New(service *syncsvc.Service, databaseID string, interval time.Duration, listen string) (*Daemon, error) {
	if interval <= 0 {
		return nil, syncerrors.New(syncerrors.CategoryDaemon, syncerrors.SeverityFatal,
			"sync interval must be positive")
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Daemon{
		service:    service,
		databaseID: databaseID,
		interval:   interval,
		listen:     listen,
		scheduler:  scheduler,
	}, nil
}

// Run starts the scheduler (with an immediate first sync) and the metrics
// server, then blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	_, err := d.scheduler.NewJob(
		gocron.DurationJob(d.interval),
		gocron.NewTask(d.executeSync, ctx),
		gocron.WithName("sync"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create periodic sync job: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	server := &http.Server{
		Addr:              d.listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Metrics server listening", slog.String("addr", d.listen))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("Starting scheduler", slog.String("interval", d.interval.String()))
	d.scheduler.Start()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		_ = d.scheduler.Shutdown()
		return syncerrors.Wrap(err, syncerrors.CategoryDaemon, syncerrors.SeverityFatal, "metrics server failed")
	}

	slog.Info("Stopping scheduler")
	if err := d.scheduler.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown failed", logfields.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// executeSync is called by gocron for every scheduled run. Failures are
// counted and logged; the daemon keeps running.
func (d *Daemon) executeSync(ctx context.Context) {
	report, err := d.service.Sync(ctx, d.databaseID)
	observeRun(report, err)
	if err != nil {
		slog.Error("Scheduled sync failed", logfields.Error(err))
		return
	}
	slog.Info("Scheduled sync complete",
		logfields.RunID(report.RunID),
		logfields.Count(report.Pages),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
}
