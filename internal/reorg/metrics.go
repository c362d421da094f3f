package reorg

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reorgsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reorgtracker_reorgs_detected_total",
			Help: "Total number of blockchain reorganizations detected",
		},
	)

	reorgDepth = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reorgtracker_reorg_extra_hashes",
			Help:    "Number of extra hashes observed per detected reorganization",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	reorgLastDetected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reorgtracker_reorg_last_detected_timestamp",
			Help: "Unix timestamp of last reorg detection",
		},
	)

	reorgLowestHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reorgtracker_reorg_lowest_affected_height",
			Help: "Lowest affected height of the last detected reorganization",
		},
	)
)

// ReorgDetectedLog records a detected reorganization.
func ReorgDetectedLog(res Result) {
	reorgsDetected.Inc()
	reorgDepth.Observe(float64(res.ExtraHashCount))
	reorgLastDetected.Set(float64(time.Now().UTC().Unix()))
	if len(res.AffectedHeights) > 0 {
		reorgLowestHeight.Set(float64(res.AffectedHeights[0]))
	}
}
