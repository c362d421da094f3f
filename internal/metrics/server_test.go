package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goran-ethernal/ReorgTracker/pkg/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url) //nolint:noctx
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// Tests in this file share the package-level health map, so they run sequentially.
func TestServer_Handler(t *testing.T) {
	srv := NewServer(&config.MetricsConfig{Enabled: true, ListenAddress: ":0", Path: "/metrics"}, nil)
	ComponentHealthSet("tracker", true)
	ComponentHealthSet("alerter", true)
	UpdateSystemMetrics()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	code, body := get(t, ts.URL+"/health")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "OK", body)

	code, body = get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `reorgtracker_component_health{component="tracker"} 1`)
	require.Contains(t, body, "reorgtracker_goroutines")
	require.Contains(t, body, `reorgtracker_heap_bytes{type="inuse"}`)
}

func TestServer_HealthReportsUnhealthyComponents(t *testing.T) {
	srv := NewServer(&config.MetricsConfig{Enabled: true, Path: "/metrics"}, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ComponentHealthSet("tracker", false)
	ComponentHealthSet("alerter", false)
	t.Cleanup(func() {
		ComponentHealthSet("tracker", true)
		ComponentHealthSet("alerter", true)
	})

	code, body := get(t, ts.URL+"/health")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, body, "unhealthy: alerter,tracker")

	ComponentHealthSet("alerter", true)
	ComponentHealthSet("tracker", true)

	code, _ = get(t, ts.URL+"/health")
	require.Equal(t, http.StatusOK, code)
}

func TestComponentHealthSet(t *testing.T) {
	ComponentHealthSet("snapshot", true)
	require.InDelta(t, 1, testutil.ToFloat64(ComponentHealth.WithLabelValues("snapshot")), 0)
	require.NotContains(t, UnhealthyComponents(), "snapshot")

	ComponentHealthSet("snapshot", false)
	require.InDelta(t, 0, testutil.ToFloat64(ComponentHealth.WithLabelValues("snapshot")), 0)
	require.Contains(t, UnhealthyComponents(), "snapshot")

	ComponentHealthSet("snapshot", true)
}

func TestServer_DisabledIsNoop(t *testing.T) {
	srv := NewServer(&config.MetricsConfig{Enabled: false}, nil)
	require.NoError(t, srv.Start(context.Background()))
	require.NoError(t, srv.Stop(context.Background()))
}

func TestServer_StartStop(t *testing.T) {
	srv := NewServer(&config.MetricsConfig{Enabled: true, ListenAddress: "127.0.0.1:0", Path: "/metrics"}, nil)
	require.NoError(t, srv.Start(context.Background()))
	require.NoError(t, srv.Stop(context.Background()))
}
