package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
)

// NewMonitoringHandler serves /metrics from gatherer and /healthz from health.
func NewMonitoringHandler(gatherer prometheus.Gatherer, health http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.Handle("/healthz", health)

	return mux
}

// StartMonitoringServer runs the metrics and health server until ctx is done.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	gatherer prometheus.Gatherer,
	health http.Handler,
	port int,
	shutdownTimeout time.Duration,
) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           NewMonitoringHandler(gatherer, health),
		ReadHeaderTimeout: 5 * time.Second, //nolint: mnd // internal endpoint
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	log.InfoContext(ctx, "Starting monitoring server", "port", port)

	return Serve(ctx, log, srv, shutdownTimeout)
}

// Serve runs srv until ctx is done and then shuts it down gracefully.
func Serve(ctx context.Context, log *slog.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WarnContext(shutdownCtx, "could not shutdown the server", "addr", srv.Addr, sl.Err(err))
		return err
	}
	log.InfoContext(shutdownCtx, "server closed", "addr", srv.Addr)

	return nil
}
