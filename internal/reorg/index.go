package reorg

import (
	"slices"
	"sync"

	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/internal/types"
)

// IndexSnapshot is a point-in-time copy of an Index.
type IndexSnapshot struct {
	ByHash   map[string]*types.Block `json:"blocksByHash"`
	ByHeight map[uint64][]string     `json:"blocksByHeight"`
}

// Index keeps every block observed inside the tracking window, keyed by hash
// and grouped by height. Each hash appears at most once per height and keeps
// the order in which it was first seen.
type Index struct {
	mu       sync.RWMutex
	byHash   map[string]*types.Block
	byHeight map[uint64][]string

	log *logger.Logger
}

// NewIndex creates an empty block index.
func NewIndex(log *logger.Logger) *Index {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Index{
		byHash:   make(map[string]*types.Block),
		byHeight: make(map[uint64][]string),
		log:      log,
	}
}

// Record stores the block and adds its hash to its height if not already there.
// It returns true when the height now holds more than one hash.
func (i *Index) Record(block *types.Block) bool {
	if block == nil {
		return false
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.byHash[block.Hash] = block

	hashes := i.byHeight[block.Height]
	if slices.Contains(hashes, block.Hash) {
		return false
	}

	hashes = append(hashes, block.Hash)
	i.byHeight[block.Height] = hashes

	if len(hashes) > 1 {
		i.log.Warnw("multiple hashes observed at height",
			"height", block.Height,
			"hashes", slices.Clone(hashes),
		)
		return true
	}

	return false
}

// Reset drops everything the index holds.
func (i *Index) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.byHash = make(map[string]*types.Block)
	i.byHeight = make(map[uint64][]string)
}

// Snapshot returns a deep copy of the index taken under a single read lock.
func (i *Index) Snapshot() IndexSnapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()

	snap := IndexSnapshot{
		ByHash:   make(map[string]*types.Block, len(i.byHash)),
		ByHeight: make(map[uint64][]string, len(i.byHeight)),
	}
	for hash, block := range i.byHash {
		snap.ByHash[hash] = block.Clone()
	}
	for height, hashes := range i.byHeight {
		snap.ByHeight[height] = slices.Clone(hashes)
	}
	return snap
}

// Hashes returns the hashes observed at height in first-seen order.
func (i *Index) Hashes(height uint64) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return slices.Clone(i.byHeight[height])
}

// Block returns a copy of the block with the given hash.
func (i *Index) Block(hash string) (*types.Block, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	b, ok := i.byHash[hash]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// Len returns the number of distinct hashes and heights held.
func (i *Index) Len() (hashes, heights int) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return len(i.byHash), len(i.byHeight)
}
