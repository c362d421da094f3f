package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goran-ethernal/ReorgTracker/internal/config"
	"github.com/stretchr/testify/require"
)

func TestRunTracker_UnwritableOutputDir(t *testing.T) {
	// a regular file where the output directory should be
	blocker := filepath.Join(t.TempDir(), "reorg_data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	t.Setenv(config.EnvOutputLocation, blocker)
	t.Setenv(config.EnvAPIURL, "http://127.0.0.1:1")

	configPath = ""
	err := runTracker(rootCmd, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "output directory check failed")
}

func TestRunTracker_InvalidConfig(t *testing.T) {
	t.Setenv(config.EnvLoopInterval, "soon")

	configPath = ""
	err := runTracker(rootCmd, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestSchemaCommand(t *testing.T) {
	var out bytes.Buffer
	schemaCmd.SetOut(&out)
	t.Cleanup(func() { schemaCmd.SetOut(nil) })

	require.NoError(t, schemaCmd.RunE(schemaCmd, nil))

	require.Contains(t, out.String(), `"max_tracking_size"`)
	require.Contains(t, out.String(), `"double_check_recent_size"`)
	require.Contains(t, out.String(), `"api_url"`)
}
