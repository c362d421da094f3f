package common

import (
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// Duration is a wrapper type that parses time duration from text.
// It accepts the same notation as time.ParseDuration ("300ms", "10s", "1h30m").
type Duration struct {
	time.Duration
}

// NewDuration returns Duration wrapper
func NewDuration(duration time.Duration) Duration {
	return Duration{duration}
}

// UnmarshalText unmarshalls time duration from text.
func (d *Duration) UnmarshalText(data []byte) error {
	duration, err := time.ParseDuration(string(data))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(data), err)
	}
	d.Duration = duration
	return nil
}

// MarshalText renders the duration in time.Duration string notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// JSONSchema returns a custom schema to be used for the JSON Schema generation of this type
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Title:       "Duration",
		Description: "Duration expressed in units: [ns, us, ms, s, m, h, d]",
		Examples: []any{
			"1m",
			"300ms",
			"10s",
		},
	}
}
