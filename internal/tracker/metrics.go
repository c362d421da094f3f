package tracker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	latestHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reorgtracker_latest_height",
			Help: "Latest tip height reported by the node",
		},
	)

	trackedBlocks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reorgtracker_tracked_blocks",
			Help: "Number of distinct block hashes held in the index",
		},
	)

	trackedHeights = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reorgtracker_tracked_heights",
			Help: "Number of heights held in the index",
		},
	)

	tipMismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reorgtracker_tip_mismatches_total",
			Help: "Total number of cycles where the tip hash changed without the height moving",
		},
	)

	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reorgtracker_cycle_duration_seconds",
			Help:    "Duration of a steady-state poll cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	cycles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reorgtracker_cycles_total",
			Help: "Total number of completed poll cycles",
		},
	)

	blocksFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reorgtracker_blocks_fetched_total",
			Help: "Total number of blocks fetched from the node",
		},
	)

	recoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reorgtracker_recoveries_total",
			Help: "Total number of reorg recoveries performed",
		},
	)

	state = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reorgtracker_state",
			Help: "Current tracker state (1 for the active state)",
		},
		[]string{"state"},
	)
)

func LatestHeightSet(height uint64) {
	latestHeight.Set(float64(height))
}

func TrackedSet(hashes, heights int) {
	trackedBlocks.Set(float64(hashes))
	trackedHeights.Set(float64(heights))
}

func TipMismatchInc() {
	tipMismatches.Inc()
}

func CycleDurationLog(d time.Duration) {
	cycleDuration.Observe(d.Seconds())
}

func CyclesInc() {
	cycles.Inc()
}

func BlocksFetchedInc() {
	blocksFetched.Inc()
}

func RecoveriesInc() {
	recoveries.Inc()
}

func StateSet(s State) {
	for _, st := range []State{StateInitializing, StateSteady, StateReorgRecovering} {
		v := float64(0)
		if st == s {
			v = 1
		}
		state.WithLabelValues(string(st)).Set(v)
	}
}
