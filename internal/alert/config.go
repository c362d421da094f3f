package alert

import (
	"fmt"

	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	pkgalert "github.com/goran-ethernal/ReorgTracker/pkg/alert"
	"github.com/goran-ethernal/ReorgTracker/pkg/config"
)

// NewFromConfig builds the alert fan-out described by cfg.
// With nothing configured the result only logs alerts.
// The returned close function releases connections held by the sinks.
func NewFromConfig(cfg *config.AlertConfig, log *logger.Logger) (*MultiAlerter, func() error, error) {
	noop := func() error { return nil }

	if cfg == nil || !cfg.IsConfigured() {
		return NewMultiAlerter(log, NewLogAlerter(log)), noop, nil
	}

	var sinks []pkgalert.Sink
	closeFn := noop

	if cfg.URL != "" {
		sinks = append(sinks, NewWebhookAlerter(cfg.URL, cfg.Timeout.Duration))
	}

	if cfg.Redis != nil && cfg.Redis.URL != "" {
		r, err := NewRedisAlerter(cfg.Redis.URL, cfg.Redis.ChannelPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("redis alerter: %w", err)
		}
		sinks = append(sinks, r)
		closeFn = r.Close
	}

	return NewMultiAlerter(log, sinks...), closeFn, nil
}
