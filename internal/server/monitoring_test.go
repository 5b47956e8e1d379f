package server_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/server"
)

func TestMonitoringHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg)
	health := server.NewHealthChecker(slog.Default(), map[string]server.Pinger{"directory": &MockPinger{}})

	srv := httptest.NewServer(server.NewMonitoringHandler(reg, health))
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "hestia_directory_operations_total")

	resp, err = srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func freePort(t *testing.T) int {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())

	return port
}

func TestStartMonitoringServer_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	port := freePort(t)
	reg := prometheus.NewRegistry()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartMonitoringServer(ctx, slog.Default(), reg,
			server.NewHealthChecker(slog.Default(), nil), port, time.Second)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("monitoring server did not stop")
	}
}

func TestServe_ListenError(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lis.Close() })

	srv := &http.Server{Addr: lis.Addr().String(), ReadHeaderTimeout: time.Second}

	require.Error(t, server.Serve(context.Background(), slog.Default(), srv, time.Second))
}
