package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goran-ethernal/ReorgTracker/internal/common"
	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/internal/metrics"
	"github.com/goran-ethernal/ReorgTracker/internal/reorg"
	"github.com/goran-ethernal/ReorgTracker/internal/snapshot"
	"github.com/goran-ethernal/ReorgTracker/internal/types"
	"github.com/goran-ethernal/ReorgTracker/pkg/alert"
	"github.com/goran-ethernal/ReorgTracker/pkg/config"
	"github.com/goran-ethernal/ReorgTracker/pkg/rpc"
	"golang.org/x/sync/errgroup"
)

// Alert routing for detected reorganizations.
const (
	AlertChannelReorg = "reorg"
	AlertEventReorg   = "reorg"
)

// State is the lifecycle phase of the tracker.
type State string

const (
	StateInitializing    State = "initializing"
	StateSteady          State = "steady"
	StateReorgRecovering State = "reorg_recovering"
)

// ChainState is the last tip reported by the node.
type ChainState struct {
	Height    uint64    `json:"height"`
	TipHash   string    `json:"tipHash"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReorgSummary describes the most recent recovery.
type ReorgSummary struct {
	DetectedAt      time.Time `json:"detectedAt"`
	LatestHeight    uint64    `json:"latestHeight"`
	LatestTip       string    `json:"latestTip"`
	AffectedHeights []uint64  `json:"affectedHeights"`
	ExtraHashCount  int       `json:"extraHashCount"`
	SnapshotPath    string    `json:"snapshotPath,omitempty"`
}

// Status is a read-only view of the tracker.
type Status struct {
	State          State         `json:"state"`
	Chain          ChainState    `json:"chain"`
	TrackedHashes  int           `json:"trackedHashes"`
	TrackedHeights int           `json:"trackedHeights"`
	Cycles         uint64        `json:"cycles"`
	Reorgs         uint64        `json:"reorgs"`
	TipMismatches  uint64        `json:"tipMismatches"`
	LastReorg      *ReorgSummary `json:"lastReorg,omitempty"`
}

// SnapshotWriter persists diagnostic dumps of the index.
type SnapshotWriter interface {
	Persist(s snapshot.Snapshot) (string, error)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock used for timestamps and the poll timer.
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) {
		t.clock = c
	}
}

// Tracker polls the node, keeps the recent block window indexed and
// recovers whenever a height is seen with more than one hash.
type Tracker struct {
	cfg    config.TrackerConfig
	source rpc.BlockSource
	sink   alert.Sink
	writer SnapshotWriter
	index  *reorg.Index
	clock  clock.Clock
	log    *logger.Logger

	mu            sync.RWMutex
	state         State
	chain         ChainState
	cycles        uint64
	reorgs        uint64
	tipMismatches uint64
	lastReorg     *ReorgSummary
}

// New creates a tracker. The index starts empty and the state is initializing.
func New(
	cfg config.TrackerConfig,
	source rpc.BlockSource,
	sink alert.Sink,
	writer SnapshotWriter,
	log *logger.Logger,
	opts ...Option,
) (*Tracker, error) {
	if source == nil {
		return nil, errors.New("block source is required")
	}
	if sink == nil {
		return nil, errors.New("alert sink is required")
	}
	if writer == nil {
		return nil, errors.New("snapshot writer is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tracker config: %w", err)
	}

	t := &Tracker{
		cfg:    cfg,
		source: source,
		sink:   sink,
		writer: writer,
		index:  reorg.NewIndex(log.WithComponent(common.ComponentReorgDetector)),
		clock:  clock.New(),
		log:    log,
		state:  StateInitializing,
	}
	for _, opt := range opts {
		opt(t)
	}

	StateSet(StateInitializing)
	metrics.ComponentHealthSet(common.ComponentTracker, true)

	t.log.Infow("tracker initialized",
		"max_tracking_size", cfg.MaxTrackingSize,
		"double_check_recent_size", cfg.DoubleCheckRecentSize,
		"loop_interval", cfg.LoopInterval.String(),
		"max_concurrent_fetches", cfg.MaxConcurrentFetches,
	)

	return t, nil
}

// Run backfills the window and then polls until ctx is cancelled or a
// non-reorg error occurs.
func (t *Tracker) Run(ctx context.Context) error {
	if err := t.startUp(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.ComponentHealthSet(common.ComponentTracker, false)
		return fmt.Errorf("startup failed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			t.log.Info("tracker stopped")
			return ctx.Err()
		default:
		}

		if err := t.check(ctx); err != nil {
			var reorgErr *reorg.ReorgDetectedError
			if !errors.As(err, &reorgErr) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				metrics.ComponentHealthSet(common.ComponentTracker, false)
				t.log.Errorw("poll cycle failed", "error", err)
				return fmt.Errorf("poll cycle failed: %w", err)
			}

			if err := t.recoverFromReorg(ctx, reorgErr.Result); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				metrics.ComponentHealthSet(common.ComponentTracker, false)
				return fmt.Errorf("reorg recovery failed: %w", err)
			}
		}

		chain := t.Chain()
		t.log.Infow("sleeping",
			"interval", t.cfg.LoopInterval.String(),
			"height", chain.Height,
			"tip", chain.TipHash,
		)

		timer := t.clock.Timer(t.cfg.LoopInterval.Duration)
		select {
		case <-ctx.Done():
			timer.Stop()
			t.log.Info("tracker stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// startUp reads the tip and backfills [tip-max_tracking_size, tip).
func (t *Tracker) startUp(ctx context.Context) error {
	t.setState(StateInitializing)

	info, err := t.source.GetChainInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain info: %w", err)
	}
	t.setChain(info)

	var from uint64
	if info.TipHeight > t.cfg.MaxTrackingSize {
		from = info.TipHeight - t.cfg.MaxTrackingSize
	}

	heights := make([]uint64, 0, info.TipHeight-from)
	for h := from; h < info.TipHeight; h++ {
		heights = append(heights, h)
	}

	t.log.Infow("backfilling tracking window",
		"tip_height", info.TipHeight,
		"tip_hash", info.TipHash,
		"from", from,
		"count", len(heights),
	)

	if err := t.fetchBatch(ctx, heights, true); err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}

	t.updateIndexMetrics()
	t.setState(StateSteady)

	t.log.Infow("backfill complete", "tip_height", info.TipHeight, "blocks", len(heights))
	return nil
}

// check runs one steady-state cycle and returns a *reorg.ReorgDetectedError
// when the index holds competing hashes.
func (t *Tracker) check(ctx context.Context) error {
	start := time.Now()
	defer func() { CycleDurationLog(time.Since(start)) }()

	info, err := t.source.GetChainInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain info: %w", err)
	}

	prev := t.Chain()
	switch {
	case info.TipHeight == prev.Height && !common.SameHash(info.TipHash, prev.TipHash):
		t.mu.Lock()
		t.tipMismatches++
		t.mu.Unlock()
		TipMismatchInc()

		t.log.Warnw("tip mismatch",
			"height", info.TipHeight,
			"previous_tip", prev.TipHash,
			"current_tip", info.TipHash,
		)
	case info.TipHeight != prev.Height:
		t.log.Infow("next block shown",
			"previous_height", prev.Height,
			"height", info.TipHeight,
			"tip", info.TipHash,
		)
	}
	t.setChain(info)

	if err := t.fetchBatch(ctx, doubleCheckHeights(info.TipHeight, t.cfg.DoubleCheckRecentSize), false); err != nil {
		return fmt.Errorf("double check failed: %w", err)
	}

	t.updateIndexMetrics()

	res := reorg.Detect(t.index.Snapshot())
	if !res.Detected && !res.Consistent() {
		t.log.Warnw("index inconsistency: hash recorded at more than one height",
			"total_hashes", res.TotalHashes,
			"total_slots", res.TotalSlots,
		)
	}

	t.mu.Lock()
	t.cycles++
	t.mu.Unlock()
	CyclesInc()

	if res.Detected {
		return reorg.NewReorgError(res)
	}

	return nil
}

// recoverFromReorg dumps the index, raises an alert, clears all state and backfills again.
func (t *Tracker) recoverFromReorg(ctx context.Context, res reorg.Result) error {
	t.setState(StateReorgRecovering)
	reorg.ReorgDetectedLog(res)
	RecoveriesInc()

	chain := t.Chain()
	snap := t.index.Snapshot()
	detectedAt := t.clock.Now().UTC()

	t.log.Warnw("reorg detected",
		"latest_height", chain.Height,
		"latest_tip", chain.TipHash,
		"affected_heights", res.AffectedHeights,
		"extra_hash_count", res.ExtraHashCount,
	)

	path, err := t.writer.Persist(snapshot.Snapshot{
		LatestHeight:    chain.Height,
		LatestTip:       chain.TipHash,
		DetectedAt:      detectedAt,
		AffectedHeights: res.AffectedHeights,
		ExtraHashCount:  res.ExtraHashCount,
		BlocksByHash:    snap.ByHash,
		BlocksByHeight:  snap.ByHeight,
	})
	if err != nil {
		t.log.Errorw("failed to persist reorg snapshot", "error", err)
	}

	metadata := map[string]string{
		"latestHeight": strconv.FormatUint(chain.Height, 10),
		"latestTip":    chain.TipHash,
		"message":      fmt.Sprintf("%d blocks reorged, current height %d", res.ExtraHashCount, chain.Height),
	}
	if err := t.sink.Alert(ctx, AlertChannelReorg, AlertEventReorg, metadata); err != nil {
		t.log.Errorw("failed to send reorg alert", "error", err)
	}

	t.mu.Lock()
	t.reorgs++
	t.lastReorg = &ReorgSummary{
		DetectedAt:      detectedAt,
		LatestHeight:    chain.Height,
		LatestTip:       chain.TipHash,
		AffectedHeights: res.AffectedHeights,
		ExtraHashCount:  res.ExtraHashCount,
		SnapshotPath:    path,
	}
	t.chain = ChainState{}
	t.mu.Unlock()

	t.index.Reset()
	t.updateIndexMetrics()

	return t.startUp(ctx)
}

// fetchBatch fetches every height concurrently and records the results.
// It returns only after all fetches have finished; the first failure fails the batch.
func (t *Tracker) fetchBatch(ctx context.Context, heights []uint64, logProgress bool) error {
	if len(heights) == 0 {
		return nil
	}

	var remaining atomic.Int64
	remaining.Store(int64(len(heights)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.MaxConcurrentFetches)

	for _, height := range heights {
		g.Go(func() error {
			block, err := t.source.GetBlock(gctx, height)
			if err != nil {
				return fmt.Errorf("failed to fetch block %d: %w", height, err)
			}
			if block == nil {
				return fmt.Errorf("node returned no block for height %d", height)
			}

			BlocksFetchedInc()
			t.index.Record(block)

			left := remaining.Add(-1)
			if logProgress {
				t.log.Infow("block backfilled",
					"height", block.Height,
					"hash", block.Hash,
					"remaining", left,
				)
			}
			return nil
		})
	}

	return g.Wait()
}

// doubleCheckHeights lists tip, tip-1, ... down to tip-size+1, stopping at 0.
func doubleCheckHeights(tip, size uint64) []uint64 {
	heights := make([]uint64, 0, size)
	for i := uint64(0); i < size && i <= tip; i++ {
		heights = append(heights, tip-i)
	}
	return heights
}

// Status returns a consistent view of the tracker.
func (t *Tracker) Status() Status {
	hashes, heights := t.index.Len()

	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Status{
		State:          t.state,
		Chain:          t.chain,
		TrackedHashes:  hashes,
		TrackedHeights: heights,
		Cycles:         t.cycles,
		Reorgs:         t.reorgs,
		TipMismatches:  t.tipMismatches,
	}
	if t.lastReorg != nil {
		last := *t.lastReorg
		s.LastReorg = &last
	}
	return s
}

// Blocks returns the blocks observed at height in first-seen order.
func (t *Tracker) Blocks(height uint64) []*types.Block {
	hashes := t.index.Hashes(height)
	blocks := make([]*types.Block, 0, len(hashes))
	for _, h := range hashes {
		if b, ok := t.index.Block(h); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Chain returns the last observed chain state.
func (t *Tracker) Chain() ChainState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.chain
}

func (t *Tracker) setChain(info *types.ChainInfo) {
	t.mu.Lock()
	t.chain = ChainState{
		Height:    info.TipHeight,
		TipHash:   info.TipHash,
		UpdatedAt: t.clock.Now().UTC(),
	}
	t.mu.Unlock()

	LatestHeightSet(info.TipHeight)
}

func (t *Tracker) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()

	StateSet(s)
}

func (t *Tracker) updateIndexMetrics() {
	hashes, heights := t.index.Len()
	TrackedSet(hashes, heights)
}
