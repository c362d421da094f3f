package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/common"
	"github.com/goran-ethernal/ReorgTracker/internal/logger"
)

// Config represents the complete configuration for the reorg tracker.
type Config struct {
	// Source contains the node REST API configuration
	Source SourceConfig `yaml:"source" json:"source" toml:"source"`

	// Tracker contains the tracking window and polling configuration
	Tracker TrackerConfig `yaml:"tracker" json:"tracker" toml:"tracker"`

	// Output contains the diagnostic snapshot configuration
	Output OutputConfig `yaml:"output" json:"output" toml:"output"`

	// Alert contains the optional alert destinations
	Alert *AlertConfig `yaml:"alert,omitempty" json:"alert,omitempty" toml:"alert,omitempty"`

	// Logging contains logging configuration
	Logging *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty" toml:"logging,omitempty"`

	// Metrics contains Prometheus metrics configuration
	Metrics *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" toml:"metrics,omitempty"`

	// API contains the status API configuration
	API *APIConfig `yaml:"api,omitempty" json:"api,omitempty" toml:"api,omitempty"`
}

// SourceConfig represents the configuration of the node REST API the blocks are read from.
type SourceConfig struct {
	// APIURL is the base URL of the node REST API
	APIURL string `yaml:"api_url" json:"api_url" toml:"api_url"`

	// RequestTimeout bounds every single HTTP attempt
	RequestTimeout common.Duration `yaml:"request_timeout" json:"request_timeout" toml:"request_timeout"`

	// Retry contains retry configuration with exponential backoff
	Retry *RetryConfig `yaml:"retry,omitempty" json:"retry,omitempty" toml:"retry,omitempty"`
}

// ApplyDefaults sets default values for optional source configuration fields.
func (s *SourceConfig) ApplyDefaults() {
	if s.APIURL == "" {
		s.APIURL = "https://api.mainnet.hiro.so"
	}
	if s.RequestTimeout.Duration == 0 {
		s.RequestTimeout = common.NewDuration(10 * time.Second) //nolint:mnd
	}
	if s.Retry == nil {
		s.Retry = &RetryConfig{}
	}
	s.Retry.ApplyDefaults()
}

// Validate checks if the source configuration is valid.
func (s *SourceConfig) Validate() error {
	u, err := url.Parse(s.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url: host is required")
	}
	if s.RequestTimeout.Duration < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if s.Retry != nil {
		if err := s.Retry.Validate(); err != nil {
			return fmt.Errorf("retry: %w", err)
		}
	}
	return nil
}

// RetryConfig represents retry configuration with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial request)
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts"`

	// InitialBackoff is the initial backoff duration before first retry
	InitialBackoff common.Duration `yaml:"initial_backoff" json:"initial_backoff" toml:"initial_backoff"`

	// MaxBackoff is the maximum backoff duration
	MaxBackoff common.Duration `yaml:"max_backoff" json:"max_backoff" toml:"max_backoff"`

	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64 `yaml:"backoff_multiplier" json:"backoff_multiplier" toml:"backoff_multiplier"`
}

// ApplyDefaults sets default values for retry configuration.
func (r *RetryConfig) ApplyDefaults() {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 10
	}
	if r.InitialBackoff.Duration == 0 {
		r.InitialBackoff = common.NewDuration(1 * time.Second)
	}
	if r.MaxBackoff.Duration == 0 {
		r.MaxBackoff = common.NewDuration(30 * time.Second) //nolint:mnd
	}
	if r.BackoffMultiplier == 0 {
		r.BackoffMultiplier = 2.0
	}
}

// Validate checks if the retry configuration is valid.
func (r *RetryConfig) Validate() error {
	if r.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1")
	}
	if r.MaxBackoff.Duration < r.InitialBackoff.Duration {
		return fmt.Errorf("max_backoff must not be lower than initial_backoff")
	}
	if r.BackoffMultiplier < 1 {
		return fmt.Errorf("backoff_multiplier must be at least 1")
	}
	return nil
}

// TrackerConfig configures the tracking window and the poll loop.
type TrackerConfig struct {
	// MaxTrackingSize is the number of heights below the tip backfilled on startup
	MaxTrackingSize uint64 `yaml:"max_tracking_size" json:"max_tracking_size" toml:"max_tracking_size"`

	// DoubleCheckRecentSize is the number of most recent heights re-fetched every cycle
	DoubleCheckRecentSize uint64 `yaml:"double_check_recent_size" json:"double_check_recent_size" toml:"double_check_recent_size"` //nolint:lll

	// LoopInterval is the pause between two poll cycles
	LoopInterval common.Duration `yaml:"loop_interval" json:"loop_interval" toml:"loop_interval"`

	// MaxConcurrentFetches bounds the number of in-flight block requests per batch
	MaxConcurrentFetches int `yaml:"max_concurrent_fetches" json:"max_concurrent_fetches" toml:"max_concurrent_fetches"`
}

// ApplyDefaults sets default values for optional tracker configuration fields.
func (t *TrackerConfig) ApplyDefaults() {
	if t.MaxTrackingSize == 0 {
		t.MaxTrackingSize = 100
	}
	if t.DoubleCheckRecentSize == 0 {
		t.DoubleCheckRecentSize = 10
	}
	if t.LoopInterval.Duration == 0 {
		t.LoopInterval = common.NewDuration(10 * time.Second) //nolint:mnd
	}
	if t.MaxConcurrentFetches == 0 {
		t.MaxConcurrentFetches = 16
	}
}

// Validate checks if the tracker configuration is valid.
func (t *TrackerConfig) Validate() error {
	if t.MaxTrackingSize == 0 {
		return fmt.Errorf("max_tracking_size must be greater than 0")
	}
	if t.DoubleCheckRecentSize == 0 {
		return fmt.Errorf("double_check_recent_size must be greater than 0")
	}
	if t.DoubleCheckRecentSize > t.MaxTrackingSize {
		return fmt.Errorf("double_check_recent_size (%d) must not exceed max_tracking_size (%d)",
			t.DoubleCheckRecentSize, t.MaxTrackingSize)
	}
	if t.LoopInterval.Duration <= 0 {
		return fmt.Errorf("loop_interval must be positive")
	}
	if t.MaxConcurrentFetches < 1 {
		return fmt.Errorf("max_concurrent_fetches must be at least 1")
	}
	return nil
}

// OutputConfig configures where diagnostic snapshots are written.
type OutputConfig struct {
	// Dir is the directory receiving reorg-<timestamp>.json files
	Dir string `yaml:"dir" json:"dir" toml:"dir"`
}

// ApplyDefaults sets default values for optional output configuration fields.
func (o *OutputConfig) ApplyDefaults() {
	if o.Dir == "" {
		o.Dir = "./reorg_data"
	}
}

// AlertConfig configures where reorg alerts are delivered.
// When neither URL nor Redis is set alerts are only logged.
type AlertConfig struct {
	// URL is an HTTP endpoint receiving {"channel","event","metadata"} as JSON
	URL string `yaml:"url" json:"url" toml:"url"`

	// Timeout bounds a single webhook delivery
	Timeout common.Duration `yaml:"timeout" json:"timeout" toml:"timeout"`

	// Redis optionally publishes alerts on a Redis pub/sub channel
	Redis *RedisAlertConfig `yaml:"redis,omitempty" json:"redis,omitempty" toml:"redis,omitempty"`
}

// RedisAlertConfig configures the Redis pub/sub alert destination.
type RedisAlertConfig struct {
	// URL is a redis:// connection URL
	URL string `yaml:"url" json:"url" toml:"url"`

	// ChannelPrefix is prepended to the alert channel name
	ChannelPrefix string `yaml:"channel_prefix" json:"channel_prefix" toml:"channel_prefix"`
}

// ApplyDefaults sets default values for optional alert configuration fields.
func (a *AlertConfig) ApplyDefaults() {
	if a.Timeout.Duration == 0 {
		a.Timeout = common.NewDuration(10 * time.Second) //nolint:mnd
	}
	if a.Redis != nil && a.Redis.ChannelPrefix == "" {
		a.Redis.ChannelPrefix = "reorg-tracker:"
	}
}

// Validate checks if the alert configuration is valid.
func (a *AlertConfig) Validate() error {
	if a.URL != "" {
		u, err := url.Parse(a.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("url must be an http(s) URL")
		}
	}
	if a.Redis != nil && a.Redis.URL == "" {
		return fmt.Errorf("redis.url is required when redis alerting is configured")
	}
	return nil
}

// IsConfigured reports whether at least one alert destination is set.
func (a *AlertConfig) IsConfigured() bool {
	return a != nil && (a.URL != "" || (a.Redis != nil && a.Redis.URL != ""))
}

// LoggingConfig configures logging behavior with per-component log levels.
type LoggingConfig struct {
	// DefaultLevel is the default log level for all components
	// Options: "debug", "info", "warn", "error"
	DefaultLevel string `yaml:"default_level" json:"default_level" toml:"default_level"`

	// Development enables development mode (stack traces, console encoder)
	Development bool `yaml:"development" json:"development" toml:"development"`

	// ComponentLevels sets log levels for specific components
	// Available components:
	//   - tracker: Poll loop and recovery
	//   - block-source: Node REST client
	//   - reorg-detector: Block index and detection
	//   - alerter: Alert delivery
	//   - snapshot: Diagnostic dumps
	//   - api: Status API
	ComponentLevels map[string]string `yaml:"component_levels,omitempty" json:"component_levels,omitempty" toml:"component_levels,omitempty"` //nolint:lll
}

// ApplyDefaults sets default values for optional logging configuration fields.
func (l *LoggingConfig) ApplyDefaults() {
	if l.DefaultLevel == "" {
		l.DefaultLevel = "info"
	}
	if l.ComponentLevels == nil {
		l.ComponentLevels = make(map[string]string)
	}
}

// Validate checks if the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	if l.DefaultLevel != "" {
		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(l.DefaultLevel)]; !valid {
			return fmt.Errorf("logging.default_level: must be one of: debug, info, warn, error")
		}
	}

	for component, level := range l.ComponentLevels {
		if _, validComponent := common.AllComponents[common.ToLowerWithTrim(component)]; !validComponent {
			return fmt.Errorf("logging.component_levels: unknown component '%s'", component)
		}

		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(level)]; !valid {
			return fmt.Errorf("logging.component_levels[%s]: must be one of: debug, info, warn, error", component)
		}
	}

	return nil
}

// GetComponentLevel returns the log level for a specific component.
// Falls back to DefaultLevel if no component-specific level is set.
func (l *LoggingConfig) GetComponentLevel(component string) string {
	if level, ok := l.ComponentLevels[component]; ok {
		return common.ToLowerWithTrim(level)
	}
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// GetDefaultLevel returns the default log level.
func (l *LoggingConfig) GetDefaultLevel() string {
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// IsDevelopment returns whether development mode is enabled.
func (l *LoggingConfig) IsDevelopment() bool {
	return l.Development
}

// MetricsConfig configures Prometheus metrics exposition.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP endpoint are active
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the metrics HTTP server to
	// Format: "host:port" or ":port"
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// Path is the HTTP path where metrics are exposed
	Path string `yaml:"path" json:"path" toml:"path"`
}

// ApplyDefaults sets default values for optional metrics configuration fields.
func (m *MetricsConfig) ApplyDefaults() {
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.Path == "" {
		m.Path = "/metrics"
	}
}

// Validate checks if the metrics configuration is valid.
func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.ListenAddress == "" {
			return fmt.Errorf("listen_address is required when metrics are enabled")
		}
		if m.Path == "" {
			return fmt.Errorf("path is required when metrics are enabled")
		}
		if m.Path[0] != '/' {
			return fmt.Errorf("path must start with '/'")
		}
	}
	return nil
}

// APIConfig configures the read-only status API.
type APIConfig struct {
	// Enabled controls whether the API server is started
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the API server to
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// ReadTimeout, WriteTimeout and IdleTimeout are passed to http.Server
	ReadTimeout  common.Duration `yaml:"read_timeout" json:"read_timeout" toml:"read_timeout"`
	WriteTimeout common.Duration `yaml:"write_timeout" json:"write_timeout" toml:"write_timeout"`
	IdleTimeout  common.Duration `yaml:"idle_timeout" json:"idle_timeout" toml:"idle_timeout"`

	// CORS contains cross-origin settings
	CORS CORSConfig `yaml:"cors" json:"cors" toml:"cors"`
}

// CORSConfig configures cross-origin resource sharing for the API.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled" toml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" toml:"allowed_origins"`
}

// ApplyDefaults sets default values for optional API configuration fields.
func (a *APIConfig) ApplyDefaults() {
	if a.ListenAddress == "" {
		a.ListenAddress = ":8080"
	}
	if a.ReadTimeout.Duration == 0 {
		a.ReadTimeout = common.NewDuration(15 * time.Second) //nolint:mnd
	}
	if a.WriteTimeout.Duration == 0 {
		a.WriteTimeout = common.NewDuration(15 * time.Second) //nolint:mnd
	}
	if a.IdleTimeout.Duration == 0 {
		a.IdleTimeout = common.NewDuration(60 * time.Second) //nolint:mnd
	}
	if a.CORS.Enabled && len(a.CORS.AllowedOrigins) == 0 {
		a.CORS.AllowedOrigins = []string{"*"}
	}
}

// Validate checks if the API configuration is valid.
func (a *APIConfig) Validate() error {
	if a.Enabled && a.ListenAddress == "" {
		return fmt.Errorf("listen_address is required when the api is enabled")
	}
	return nil
}

// ApplyDefaults sets default values for optional configuration fields.
func (c *Config) ApplyDefaults() {
	c.Source.ApplyDefaults()
	c.Tracker.ApplyDefaults()
	c.Output.ApplyDefaults()

	if c.Alert != nil {
		c.Alert.ApplyDefaults()
	}

	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	c.Logging.ApplyDefaults()

	if c.Metrics != nil {
		c.Metrics.ApplyDefaults()
	}

	if c.API != nil {
		c.API.ApplyDefaults()
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	if err := c.Tracker.Validate(); err != nil {
		return fmt.Errorf("tracker: %w", err)
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}

	if c.Alert != nil {
		if err := c.Alert.Validate(); err != nil {
			return fmt.Errorf("alert: %w", err)
		}
	}

	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return err
		}
	}

	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	if c.API != nil {
		if err := c.API.Validate(); err != nil {
			return fmt.Errorf("api: %w", err)
		}
	}

	return nil
}
