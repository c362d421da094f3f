package alert

import "context"

// Sink delivers operational alerts to an external destination.
type Sink interface {
	// Alert sends an event on the named channel with string metadata.
	Alert(ctx context.Context, channel, event string, metadata map[string]string) error
}
