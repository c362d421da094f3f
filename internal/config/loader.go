package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goran-ethernal/ReorgTracker/internal/common"
	pkgconfig "github.com/goran-ethernal/ReorgTracker/pkg/config"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvAPIURL                = "STACKS_API_URL"
	EnvMaxTrackingSize       = "MAX_TRACKING_SIZE"
	EnvDoubleCheckRecentSize = "DOUBLE_CHECK_RECENT_SIZE"
	EnvOutputLocation        = "REORG_OUTPUT_LOCATION"
	EnvLoopInterval          = "LOOP_INTERVAL" // milliseconds
	EnvAlertURL              = "ALERT_URL"
	EnvAlertRedisURL         = "ALERT_REDIS_URL"
	EnvLogLevel              = "LOG_LEVEL"
)

// Load builds the configuration from an optional file plus environment overrides.
// A .env file in the working directory is loaded first when present; variables
// already set in the process environment win over it.
// An empty path means defaults and environment only.
func Load(path string) (*pkgconfig.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg pkgconfig.Config
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	return processConfig(&cfg)
}

// LoadFromFile loads configuration from a file, auto-detecting the format by extension.
// Supported formats: .yaml, .yml, .json, .toml
func LoadFromFile(path string) (*pkgconfig.Config, error) {
	var cfg pkgconfig.Config
	if err := decodeFile(path, &cfg); err != nil {
		return nil, err
	}

	return processConfig(&cfg)
}

// LoadFromYAML loads configuration from a YAML file.
func LoadFromYAML(path string) (*pkgconfig.Config, error) {
	var cfg pkgconfig.Config
	if err := decodeYAML(path, &cfg); err != nil {
		return nil, err
	}

	return processConfig(&cfg)
}

// LoadFromJSON loads configuration from a JSON file.
func LoadFromJSON(path string) (*pkgconfig.Config, error) {
	var cfg pkgconfig.Config
	if err := decodeJSON(path, &cfg); err != nil {
		return nil, err
	}

	return processConfig(&cfg)
}

// LoadFromTOML loads configuration from a TOML file.
func LoadFromTOML(path string) (*pkgconfig.Config, error) {
	var cfg pkgconfig.Config
	if err := decodeTOML(path, &cfg); err != nil {
		return nil, err
	}

	return processConfig(&cfg)
}

func decodeFile(path string, cfg *pkgconfig.Config) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		return decodeYAML(path, cfg)
	case ".json":
		return decodeJSON(path, cfg)
	case ".toml":
		return decodeTOML(path, cfg)
	default:
		return fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json, .toml)", ext)
	}
}

func decodeYAML(path string, cfg *pkgconfig.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func decodeJSON(path string, cfg *pkgconfig.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse JSON config: %w", err)
	}
	return nil
}

func decodeTOML(path string, cfg *pkgconfig.Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return nil
}

// applyEnvOverrides copies the recognised environment variables onto cfg.
func applyEnvOverrides(cfg *pkgconfig.Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		cfg.Source.APIURL = v
	}

	if v, ok := lookup(EnvMaxTrackingSize); ok && v != "" {
		n, err := common.ParseUint64(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxTrackingSize, err)
		}
		cfg.Tracker.MaxTrackingSize = n
	}

	if v, ok := lookup(EnvDoubleCheckRecentSize); ok && v != "" {
		n, err := common.ParseUint64(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDoubleCheckRecentSize, err)
		}
		cfg.Tracker.DoubleCheckRecentSize = n
	}

	if v, ok := lookup(EnvOutputLocation); ok && v != "" {
		cfg.Output.Dir = v
	}

	if v, ok := lookup(EnvLoopInterval); ok && v != "" {
		ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || ms <= 0 {
			return fmt.Errorf("%s: expected a positive number of milliseconds, got %q", EnvLoopInterval, v)
		}
		cfg.Tracker.LoopInterval = common.NewDuration(time.Duration(ms) * time.Millisecond)
	}

	if v, ok := lookup(EnvAlertURL); ok && v != "" {
		if cfg.Alert == nil {
			cfg.Alert = &pkgconfig.AlertConfig{}
		}
		cfg.Alert.URL = v
	}

	if v, ok := lookup(EnvAlertRedisURL); ok && v != "" {
		if cfg.Alert == nil {
			cfg.Alert = &pkgconfig.AlertConfig{}
		}
		if cfg.Alert.Redis == nil {
			cfg.Alert.Redis = &pkgconfig.RedisAlertConfig{}
		}
		cfg.Alert.Redis.URL = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		if cfg.Logging == nil {
			cfg.Logging = &pkgconfig.LoggingConfig{}
		}
		cfg.Logging.DefaultLevel = v
	}

	return nil
}

// processConfig applies defaults and validates the configuration.
func processConfig(cfg *pkgconfig.Config) (*pkgconfig.Config, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
