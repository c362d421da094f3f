package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apimocks "github.com/goran-ethernal/ReorgTracker/internal/api/mocks"
	"github.com/goran-ethernal/ReorgTracker/internal/common"
	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Parallel()

	cfg := &config.APIConfig{
		Enabled:       true,
		ListenAddress: "localhost:8080",
		ReadTimeout:   common.Duration{Duration: 5 * time.Second},
		WriteTimeout:  common.Duration{Duration: 10 * time.Second},
		IdleTimeout:   common.Duration{Duration: 60 * time.Second},
	}

	server := NewServer(cfg, apimocks.NewStatusProvider(t), logger.NewNopLogger())

	require.NotNil(t, server.handler)
	require.NotNil(t, server.server)
	require.Equal(t, "localhost:8080", server.server.Addr)
	require.Equal(t, 5*time.Second, server.server.ReadTimeout)
	require.Equal(t, 10*time.Second, server.server.WriteTimeout)
	require.Equal(t, 60*time.Second, server.server.IdleTimeout)
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	provider := apimocks.NewStatusProvider(t)
	provider.EXPECT().Status().Return(sampleStatus())

	cfg := &config.APIConfig{
		Enabled:       true,
		ListenAddress: ":0",
		CORS:          config.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}},
	}
	server := NewServer(cfg, provider, logger.NewNopLogger())

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/status", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://dashboard.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "https://dashboard.example.com", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, err = http.Post(ts.URL+"/api/v1/status", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/swagger/doc.json")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_StartDisabled(t *testing.T) {
	t.Parallel()

	server := NewServer(&config.APIConfig{Enabled: false}, apimocks.NewStatusProvider(t), logger.NewNopLogger())
	require.NoError(t, server.Start(context.Background()))
}

func TestServer_StartAndShutdown(t *testing.T) {
	t.Parallel()

	cfg := &config.APIConfig{Enabled: true, ListenAddress: "127.0.0.1:0"}
	server := NewServer(cfg, apimocks.NewStatusProvider(t), logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
