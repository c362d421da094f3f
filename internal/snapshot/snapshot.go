package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/internal/types"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Snapshot is the diagnostic dump written when a reorganization is detected.
type Snapshot struct {
	LatestHeight    uint64                  `json:"latestHeight"`
	LatestTip       string                  `json:"latestTip"`
	DetectedAt      time.Time               `json:"detectedAt"`
	AffectedHeights []uint64                `json:"affectedHeights"`
	ExtraHashCount  int                     `json:"extraHashCount"`
	BlocksByHash    map[string]*types.Block `json:"blocksByHash"`
	BlocksByHeight  map[uint64][]string     `json:"blocksByHeight"`
}

// CheckWritable makes sure dir exists and files can be created in it.
func CheckWritable(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is not set")
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := probe.Name()

	if err := probe.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("failed to remove write probe in %s: %w", dir, err)
	}

	return nil
}

// Writer persists snapshots as indented JSON files in a directory.
type Writer struct {
	dir string
	log *logger.Logger
}

// NewWriter creates a writer for dir.
func NewWriter(dir string, log *logger.Logger) *Writer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Writer{dir: dir, log: log}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// FileName returns the file name used for a snapshot detected at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("reorg-%d.json", t.UnixMilli())
}

// Persist writes s to {dir}/reorg-{unixMillis}.json and returns the path.
// The file is written to a temporary name first so readers never see a partial dump.
func (w *Writer) Persist(s Snapshot) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path := filepath.Join(w.dir, FileName(s.DetectedAt))

	tmp, err := os.CreateTemp(w.dir, ".reorg-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to close snapshot file: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to set snapshot permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	w.log.Infow("reorg snapshot written",
		"path", path,
		"blocks", len(s.BlocksByHash),
		"heights", len(s.BlocksByHeight),
	)

	return path, nil
}
