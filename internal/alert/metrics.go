package alert

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	alertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reorgtracker_alerts_sent_total",
			Help: "Total number of alerts delivered by sink and channel",
		},
		[]string{"sink", "channel"},
	)

	alertsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reorgtracker_alerts_failed_total",
			Help: "Total number of alerts that failed to deliver by sink and channel",
		},
		[]string{"sink", "channel"},
	)
)

func AlertSentInc(sink, channel string) {
	alertsSent.WithLabelValues(sink, channel).Inc()
}

func AlertFailedInc(sink, channel string) {
	alertsFailed.WithLabelValues(sink, channel).Inc()
}
