package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	pkgalert "github.com/goran-ethernal/ReorgTracker/pkg/alert"
)

var (
	_ pkgalert.Sink = (*MultiAlerter)(nil)
	_ pkgalert.Sink = (*WebhookAlerter)(nil)
	_ pkgalert.Sink = (*LogAlerter)(nil)
)

// namedSink is implemented by sinks that report a stable name for logs and metrics.
type namedSink interface {
	Name() string
}

func sinkName(s pkgalert.Sink) string {
	if n, ok := s.(namedSink); ok {
		return n.Name()
	}
	return "unknown"
}

// MultiAlerter fans out alerts to every configured sink.
// Delivery is best-effort: failures are logged and counted, never returned.
type MultiAlerter struct {
	sinks []pkgalert.Sink
	log   *logger.Logger
}

// NewMultiAlerter creates a fan-out alerter over sinks.
func NewMultiAlerter(log *logger.Logger, sinks ...pkgalert.Sink) *MultiAlerter {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &MultiAlerter{sinks: sinks, log: log}
}

// Alert dispatches the event to all sinks.
func (m *MultiAlerter) Alert(ctx context.Context, channel, event string, metadata map[string]string) error {
	for _, s := range m.sinks {
		name := sinkName(s)
		if err := s.Alert(ctx, channel, event, metadata); err != nil {
			m.log.Warnw("alert send failed",
				"sink", name,
				"channel", channel,
				"event", event,
				"error", err,
			)
			AlertFailedInc(name, channel)
			continue
		}
		AlertSentInc(name, channel)
	}
	return nil
}

// Sinks returns the number of configured sinks.
func (m *MultiAlerter) Sinks() int {
	return len(m.sinks)
}

// WebhookAlerter posts alerts as JSON to an HTTP endpoint.
type WebhookAlerter struct {
	url    string
	client *http.Client
}

// NewWebhookAlerter creates a webhook alerter with the given request timeout.
func NewWebhookAlerter(url string, timeout time.Duration) *WebhookAlerter {
	return &WebhookAlerter{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Name identifies the webhook sink in logs and metrics.
func (w *WebhookAlerter) Name() string { return "webhook" }

type webhookPayload struct {
	Channel  string            `json:"channel"`
	Event    string            `json:"event"`
	Metadata map[string]string `json:"metadata"`
}

// Alert sends the event to the webhook endpoint.
func (w *WebhookAlerter) Alert(ctx context.Context, channel, event string, metadata map[string]string) error {
	body, err := json.Marshal(webhookPayload{Channel: channel, Event: event, Metadata: metadata})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// LogAlerter only logs alerts. Used when no destination is configured.
type LogAlerter struct {
	log *logger.Logger
}

// NewLogAlerter creates a sink that only logs. A nil logger discards output.
func NewLogAlerter(log *logger.Logger) *LogAlerter {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LogAlerter{log: log}
}

// Name identifies the log sink in logs and metrics.
func (l *LogAlerter) Name() string { return "log" }

// Alert logs the event as alert-not-reporting and never fails.
func (l *LogAlerter) Alert(_ context.Context, channel, event string, metadata map[string]string) error {
	l.log.Warnw("alert-not-reporting",
		"channel", channel,
		"event", event,
		"metadata", metadata,
	)
	return nil
}
