package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type check struct {
	name   string
	pinger Pinger
}

// HealthChecker answers /healthz by running every registered check.
type HealthChecker struct {
	checks  []check
	timeout time.Duration
	log     *slog.Logger
}

func NewHealthChecker(log *slog.Logger, checks map[string]Pinger) *HealthChecker {
	checkTO := 5
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	hc := &HealthChecker{timeout: time.Duration(checkTO) * time.Second, log: log}
	for _, name := range names {
		hc.checks = append(hc.checks, check{name: name, pinger: checks[name]})
	}

	return hc
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	overallStatus := http.StatusOK

	for _, c := range h.checks {
		if err := c.pinger.Ping(ctx); err != nil {
			status[c.name] = "unavailable"
			overallStatus = http.StatusServiceUnavailable
			h.log.WarnContext(req.Context(), "Health check failed", "check", c.name, "error", err)
			continue
		}
		status[c.name] = "ok"
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", "error", err)
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}

// HTTPProbe checks that url answers HEAD with a non-error status.
func HTTPProbe(client *http.Client, url string) Pinger {
	return PingerFunc(func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create probe request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("host unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("host degraded, status code: %d", resp.StatusCode)
		}

		return nil
	})
}

// GRPCProbe asks the standard gRPC health service about service.
// Health messages are protobuf even when conn defaults to another codec.
func GRPCProbe(conn grpc.ClientConnInterface, service string) Pinger {
	client := grpc_health_v1.NewHealthClient(conn)

	return PingerFunc(func(ctx context.Context) error {
		resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service},
			grpc.CallContentSubtype("proto"))
		if err != nil {
			return fmt.Errorf("grpc health check failed: %w", err)
		}
		if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
			return fmt.Errorf("grpc service %s is %s", service, resp.GetStatus())
		}

		return nil
	})
}
