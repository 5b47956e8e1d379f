package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/UnknownOlympus/hestia/internal/config"
	"github.com/UnknownOlympus/hestia/internal/gql"
	"github.com/UnknownOlympus/hestia/internal/hub"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/UnknownOlympus/hestia/internal/rpc"
	"github.com/UnknownOlympus/hestia/internal/server"
	"github.com/UnknownOlympus/hestia/internal/services/employees"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"

	probeTimeout = 3 * time.Second
)

// main is the entry point of the application.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	if err := run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", sl.Err(err))
		stop()
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Create a separate registry for application metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	opts := []repository.Option{repository.WithSeed(cfg.Directory.Seed...)}
	if cfg.Directory.RejectDuplicateIDs {
		opts = append(opts, repository.WithRejectDuplicateIDs())
	}
	directory := repository.NewEmployeeRepository(appMetrics, opts...)

	employeeHub := hub.New(logger, appMetrics, hub.WithHandshakeTimeout(cfg.HTTP.ReadHeaderTimeout))
	defer employeeHub.Close()

	staff := employees.NewStaff(logger, directory, employeeHub)

	schema, err := gql.NewSchema(staff)
	if err != nil {
		return fmt.Errorf("failed to build graphql schema: %w", err)
	}

	apiServer := server.NewHTTPServer(cfg.HTTP.Address, cfg.HTTP.ReadHeaderTimeout, server.NewRouter(server.RouterOptions{
		Log:     logger,
		Metrics: appMetrics,
		Service: staff,
		GraphQL: gql.NewHandler(schema, logger),
		Hub:     employeeHub.Handler(staff),
	}), logger)
	// Hijacked hub connections are not closed by Shutdown.
	apiServer.RegisterOnShutdown(employeeHub.Close)

	grpcServer := rpc.NewGRPCServer(logger, appMetrics, staff)
	grpcListener, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GRPC.Address, err)
	}

	probeConn, err := rpc.Dial(localAddress(cfg.GRPC.Address))
	if err != nil {
		return fmt.Errorf("failed to create grpc probe client: %w", err)
	}
	defer probeConn.Close()

	healthChecker := server.NewHealthChecker(logger, map[string]server.Pinger{
		"directory": directory,
		"api":       server.HTTPProbe(&http.Client{Timeout: probeTimeout}, "http://"+localAddress(cfg.HTTP.Address)+"/livez"),
		"grpc":      server.GRPCProbe(probeConn, rpc.ServiceName),
	})

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.InfoContext(gctx, "Starting API server", "addr", cfg.HTTP.Address)
		return server.Serve(gctx, logger, apiServer, cfg.HTTP.ShutdownTimeout)
	})

	group.Go(func() error {
		logger.InfoContext(gctx, "Starting gRPC server", "addr", grpcListener.Addr().String())
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("grpc server failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		stopGRPC(grpcServer.GracefulStop, grpcServer.Stop, cfg.HTTP.ShutdownTimeout)
		logger.InfoContext(gctx, "gRPC server stopped")
		return nil
	})

	group.Go(func() error {
		return server.StartMonitoringServer(gctx, logger, reg, healthChecker, cfg.Monitoring.Port,
			cfg.HTTP.ShutdownTimeout)
	})

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	return group.Wait()
}

// stopGRPC waits for in-flight calls up to timeout and then forces the server down.
func stopGRPC(graceful, force func(), timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		graceful()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		force()
		<-done
	}
}

// localAddress turns a listen address such as ":8080" into one reachable from this host.
func localAddress(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{Key: "", Value: slog.Value{}}
		}
		return a
	}

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: dropTime}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError, ReplaceAttr: dropTime}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
