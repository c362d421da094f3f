package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		wantErr     bool
	}{
		{name: "debug level production", level: "debug"},
		{name: "info level production", level: "info"},
		{name: "warn level development", level: "warn", development: true},
		{name: "error level development", level: "error", development: true},
		{name: "invalid level", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.level, tt.development)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger.SugaredLogger)
			require.Equal(t, tt.level, logger.GetLevel())
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	logger, err := NewLogger("info", false)
	require.NoError(t, err)

	require.NoError(t, logger.SetLevel("debug"))
	require.Equal(t, "debug", logger.GetLevel())

	// level stays put on a bad value
	require.Error(t, logger.SetLevel("loud"))
	require.Equal(t, "debug", logger.GetLevel())
}

func TestLogger_WithComponentSharesLevel(t *testing.T) {
	base, err := NewLogger("info", false)
	require.NoError(t, err)
	require.Equal(t, "", base.GetComponent())

	tracker := base.WithComponent("tracker")
	source := base.WithComponent("block-source")
	require.Equal(t, "tracker", tracker.GetComponent())
	require.Equal(t, "block-source", source.GetComponent())

	require.NoError(t, base.SetLevel("warn"))
	require.Equal(t, "warn", tracker.GetLevel())
	require.Equal(t, "warn", source.GetLevel())
	require.False(t, tracker.atomicLevel.Enabled(zapcore.InfoLevel))
	require.True(t, source.atomicLevel.Enabled(zapcore.ErrorLevel))
}

func TestNewComponentLogger(t *testing.T) {
	logger := NewComponentLogger("alerter", "debug", true)
	require.Equal(t, "alerter", logger.GetComponent())
	require.Equal(t, "debug", logger.GetLevel())

	require.Panics(t, func() {
		_ = NewComponentLogger("alerter", "chatty", false)
	})
}

type stubLoggingConfig struct {
	defaultLevel    string
	development     bool
	componentLevels map[string]string
}

func (s *stubLoggingConfig) GetComponentLevel(component string) string {
	if level, ok := s.componentLevels[component]; ok {
		return level
	}
	return s.defaultLevel
}

func (s *stubLoggingConfig) GetDefaultLevel() string { return s.defaultLevel }
func (s *stubLoggingConfig) IsDevelopment() bool     { return s.development }

func TestNewComponentLoggerFromConfig(t *testing.T) {
	tests := []struct {
		name          string
		component     string
		config        LoggingConfig
		expectedLevel string
	}{
		{
			name:      "component override",
			component: "tracker",
			config: &stubLoggingConfig{
				defaultLevel:    "info",
				componentLevels: map[string]string{"tracker": "debug"},
			},
			expectedLevel: "debug",
		},
		{
			name:      "falls back to default level",
			component: "snapshot",
			config: &stubLoggingConfig{
				defaultLevel:    "warn",
				componentLevels: map[string]string{"tracker": "debug"},
			},
			expectedLevel: "warn",
		},
		{
			name:          "nil config uses info",
			component:     "api",
			config:        nil,
			expectedLevel: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewComponentLoggerFromConfig(tt.component, tt.config)
			require.Equal(t, tt.component, logger.GetComponent())
			require.Equal(t, tt.expectedLevel, logger.GetLevel())
		})
	}
}

func TestNewLoggerFromCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core).WithComponent("tracker")

	logger.Infow("tip mismatch", "height", 100)

	entries := logs.FilterMessage("tip mismatch").All()
	require.Len(t, entries, 1)
	require.Equal(t, "tracker", entries[0].ContextMap()["component"])
	require.EqualValues(t, 100, entries[0].ContextMap()["height"])
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	require.NotNil(t, logger.SugaredLogger)

	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")
}
