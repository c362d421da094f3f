package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/pkg/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	systemMetricsInterval = 15 * time.Second
	readHeaderTimeout     = 5 * time.Second
)

// Server exposes Prometheus metrics and a component health probe.
type Server struct {
	config *config.MetricsConfig
	server *http.Server
	log    *logger.Logger
	cancel context.CancelFunc
}

// NewServer creates a metrics server. A nil logger discards output.
func NewServer(cfg *config.MetricsConfig, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Server{config: cfg, log: log}
}

// Handler serves the metrics path and /health. /health answers 503 while any
// component is reported unhealthy.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.config.Path, promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if unhealthy := UnhealthyComponents(); len(unhealthy) > 0 {
			http.Error(w, "unhealthy: "+strings.Join(unhealthy, ","), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Start listens in the background and refreshes system metrics until ctx is
// done or Stop is called. It is a no-op when metrics are disabled.
func (s *Server) Start(ctx context.Context) error {
	if s.config == nil || !s.config.Enabled {
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.server = &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go s.refreshSystemMetrics(ctx)

	go func() {
		s.log.Infow("metrics server listening", "address", s.config.ListenAddress, "path", s.config.Path)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorw("metrics server error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown metrics server: %w", err)
	}
	return nil
}

func (s *Server) refreshSystemMetrics(ctx context.Context) {
	UpdateSystemMetrics()

	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			UpdateSystemMetrics()
		case <-ctx.Done():
			return
		}
	}
}
