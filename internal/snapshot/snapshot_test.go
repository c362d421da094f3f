package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/types"
	"github.com/stretchr/testify/require"
)

func TestCheckWritable_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reorg_data")

	require.NoError(t, CheckWritable(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "probe file must be removed")
}

func TestCheckWritable_Fails(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		require.Error(t, CheckWritable(""))
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

		err := CheckWritable(filepath.Join(file, "sub"))
		require.Error(t, err)
	})

	t.Run("read-only dir", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced for root")
		}
		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0o500))
		t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

		err := CheckWritable(dir)
		require.Error(t, err)
		require.Contains(t, err.Error(), "not writable")
	})
}

func TestWriter_Persist(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)
	require.Equal(t, dir, w.Dir())

	detectedAt := time.UnixMilli(1714557600123).UTC()
	snap := Snapshot{
		LatestHeight:    201,
		LatestTip:       "0xtip",
		DetectedAt:      detectedAt,
		AffectedHeights: []uint64{200},
		ExtraHashCount:  1,
		BlocksByHash: map[string]*types.Block{
			"0xa": {Hash: "0xa", Height: 200},
			"0xb": {Hash: "0xb", Height: 200},
		},
		BlocksByHeight: map[uint64][]string{200: {"0xa", "0xb"}},
	}

	path, err := w.Persist(snap)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "reorg-1714557600123.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "\n  \"latestHeight\": 201")

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{
		"latestHeight", "latestTip", "detectedAt", "affectedHeights",
		"extraHashCount", "blocksByHash", "blocksByHeight",
	} {
		require.Contains(t, decoded, key)
	}
	require.JSONEq(t, `{"200":["0xa","0xb"]}`, string(decoded["blocksByHeight"]))

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, snap.AffectedHeights, back.AffectedHeights)
	require.Equal(t, "0xb", back.BlocksByHash["0xb"].Hash)
	require.True(t, detectedAt.Equal(back.DetectedAt))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files left behind")
}

func TestWriter_PersistMissingDir(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "gone"), nil)
	_, err := w.Persist(Snapshot{DetectedAt: time.Now()})
	require.Error(t, err)
}
