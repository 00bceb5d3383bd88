package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	initOnce    sync.Once
	serverMutex sync.Mutex
	currentSrv  *http.Server

	// FilesDeletedTotal counts files actually removed (dry-run and
	// missing targets excluded).
	FilesDeletedTotal prometheus.Counter
	// FoldersDeletedTotal counts directories actually removed.
	FoldersDeletedTotal prometheus.Counter
	// MissingTargetsTotal counts deletions absorbed because the target
	// was already gone.
	MissingTargetsTotal prometheus.Counter
	// ErrorsTotal counts hard failures across resolution and deletion.
	ErrorsTotal prometheus.Counter
	// RunDuration observes wall time of full sweep batches.
	RunDuration prometheus.Histogram
	// LastRunTimestamp is the unix time of the most recent batch.
	LastRunTimestamp prometheus.Gauge
)

// Init registers all sweep metrics with the default registry.
// Safe to call multiple times (uses sync.Once).
func Init() {
	initOnce.Do(func() {
		FilesDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "globsweep_files_deleted_total",
			Help: "Total number of files deleted",
		})
		FoldersDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "globsweep_folders_deleted_total",
			Help: "Total number of folders deleted",
		})
		MissingTargetsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "globsweep_missing_targets_total",
			Help: "Deletions skipped because the target no longer existed",
		})
		ErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "globsweep_errors_total",
			Help: "Total number of hard errors",
		})
		RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "globsweep_run_duration_seconds",
			Help:    "Duration of sweep batches in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		})
		LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "globsweep_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last sweep batch",
		})

		prometheus.MustRegister(
			FilesDeletedTotal,
			FoldersDeletedTotal,
			MissingTargetsTotal,
			ErrorsTotal,
			RunDuration,
			LastRunTimestamp,
		)

		// Zero value so the series exist before the first batch.
		LastRunTimestamp.Set(0)
	})
}

// RecordRun marks the start of a sweep batch.
func RecordRun() {
	LastRunTimestamp.Set(float64(time.Now().Unix()))
}

// StartServer starts the metrics HTTP server on addr, exposing /metrics and
// /health. No-op if a server is already running.
func StartServer(addr string, logger zerolog.Logger) {
	serverMutex.Lock()
	defer serverMutex.Unlock()

	if currentSrv != nil {
		logger.Warn().Str("addr", currentSrv.Addr).Msg("metrics server already running")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	currentSrv = srv

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}

// Shutdown gracefully stops the metrics server if one is running.
func Shutdown(ctx context.Context, logger zerolog.Logger) {
	serverMutex.Lock()
	defer serverMutex.Unlock()

	if currentSrv == nil {
		return
	}
	if err := currentSrv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("metrics server shutdown error")
	}
	currentSrv = nil
}
