// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package observability

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, ready ReadinessChecker) *Server {
	t.Helper()
	srv := NewServer("127.0.0.1:0", ready)
	_, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, srv.Stop(ctx))
	})
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // local test server
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := startServer(t, nil)
	srv.Metrics().RequestsTotal.WithLabelValues("/command", "200").Inc()
	srv.Metrics().SessionsStarted.Inc()

	status, body := get(t, "http://"+srv.Addr()+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "derelict_http_requests_total")
	assert.Contains(t, body, "derelict_sessions_started_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestServer_HealthProbes(t *testing.T) {
	ready := false
	srv := startServer(t, func() bool { return ready })

	status, body := get(t, "http://"+srv.Addr()+"/healthz/liveness")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)

	status, body = get(t, "http://"+srv.Addr()+"/healthz/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not ready\n", body)

	ready = true
	status, _ = get(t, "http://"+srv.Addr()+"/healthz/readiness")
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_DoubleStartRejected(t *testing.T) {
	srv := startServer(t, nil)
	_, err := srv.Start()
	require.Error(t, err)
}

func TestServer_StopIdempotent(t *testing.T) {
	srv := NewServer("127.0.0.1:0", nil)
	_, err := srv.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, srv.Stop(ctx), "second stop is a no-op")
}
