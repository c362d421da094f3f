package metrics

import (
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ComponentHealth reports 1 for healthy components and 0 otherwise.
	ComponentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reorgtracker_component_health",
			Help: "Health status of tracker components (1 = healthy, 0 = unhealthy)",
		},
		[]string{"component"},
	)

	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reorgtracker_uptime_seconds",
			Help: "Time since the tracker process started",
		},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reorgtracker_goroutines",
			Help: "Number of running goroutines",
		},
	)

	HeapBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reorgtracker_heap_bytes",
			Help: "Heap statistics; the block index lives entirely in memory",
		},
		[]string{"type"},
	)

	startTime = time.Now()

	healthMu sync.RWMutex
	health   = make(map[string]bool)
)

// ComponentHealthSet records the health of a component, both as a gauge
// and for the /health endpoint.
func ComponentHealthSet(component string, healthy bool) {
	healthMu.Lock()
	health[component] = healthy
	healthMu.Unlock()

	value := float64(0)
	if healthy {
		value = 1
	}
	ComponentHealth.WithLabelValues(component).Set(value)
}

// UnhealthyComponents returns the sorted names of components last reported unhealthy.
func UnhealthyComponents() []string {
	healthMu.RLock()
	defer healthMu.RUnlock()

	var out []string
	for component, ok := range health {
		if !ok {
			out = append(out, component)
		}
	}
	slices.Sort(out)
	return out
}

// UpdateSystemMetrics refreshes the runtime gauges.
func UpdateSystemMetrics() {
	Uptime.Set(time.Since(startTime).Seconds())
	Goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	HeapBytes.WithLabelValues("alloc").Set(float64(m.HeapAlloc))
	HeapBytes.WithLabelValues("inuse").Set(float64(m.HeapInuse))
	HeapBytes.WithLabelValues("objects").Set(float64(m.HeapObjects))
}
