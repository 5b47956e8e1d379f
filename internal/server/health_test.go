package server_test

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/UnknownOlympus/hestia/internal/server"
)

type MockPinger struct {
	ShouldFail bool
}

func (m *MockPinger) Ping(_ context.Context) error {
	if m.ShouldFail {
		return errors.New("mock directory error")
	}
	return nil
}

func newAPIProbe(t *testing.T, code int) server.Pinger {
	t.Helper()

	mockAPIServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}))
	t.Cleanup(mockAPIServer.Close)

	return server.HTTPProbe(mockAPIServer.Client(), mockAPIServer.URL)
}

func serveHealth(healthChecker http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	healthChecker.ServeHTTP(rr, req)

	return rr
}

func TestHealthChecker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("all systems ok", func(t *testing.T) {
		healthChecker := server.NewHealthChecker(logger, map[string]server.Pinger{
			"directory": &MockPinger{},
			"api":       newAPIProbe(t, http.StatusOK),
		})

		rr := serveHealth(healthChecker)

		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, `{"directory":"ok","api":"ok"}`, rr.Body.String())
	})

	t.Run("directory unavailable", func(t *testing.T) {
		healthChecker := server.NewHealthChecker(logger, map[string]server.Pinger{
			"directory": &MockPinger{ShouldFail: true},
			"api":       newAPIProbe(t, http.StatusOK),
		})

		rr := serveHealth(healthChecker)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		require.JSONEq(t, `{"directory":"unavailable","api":"ok"}`, rr.Body.String())
	})

	t.Run("api degraded", func(t *testing.T) {
		healthChecker := server.NewHealthChecker(logger, map[string]server.Pinger{
			"directory": &MockPinger{},
			"api":       newAPIProbe(t, http.StatusInternalServerError),
		})

		rr := serveHealth(healthChecker)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		require.JSONEq(t, `{"directory":"ok","api":"unavailable"}`, rr.Body.String())
	})

	t.Run("api unreachable", func(t *testing.T) {
		healthChecker := server.NewHealthChecker(logger, map[string]server.Pinger{
			"api": server.HTTPProbe(http.DefaultClient, "http://127.0.0.1:1"),
		})

		rr := serveHealth(healthChecker)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		require.JSONEq(t, `{"api":"unavailable"}`, rr.Body.String())
	})

	t.Run("invalid api url", func(t *testing.T) {
		healthChecker := server.NewHealthChecker(logger, map[string]server.Pinger{
			"api": server.HTTPProbe(http.DefaultClient, "://bad-url"),
		})

		rr := serveHealth(healthChecker)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("no checks", func(t *testing.T) {
		rr := serveHealth(server.NewHealthChecker(logger, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, `{}`, rr.Body.String())
	})
}

func TestGRPCProbe(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	healthServer := health.NewServer()
	healthServer.SetServingStatus("svc.up", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("svc.down", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	srv := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	require.NoError(t, server.GRPCProbe(conn, "svc.up").Ping(ctx))
	require.Error(t, server.GRPCProbe(conn, "svc.down").Ping(ctx))
	require.Error(t, server.GRPCProbe(conn, "svc.unknown").Ping(ctx))
}
