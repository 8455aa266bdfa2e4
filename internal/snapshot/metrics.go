package snapshot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache outcomes
const (
	outcomeHit     = "hit"
	outcomeCreated = "created"
	outcomeUpdated = "updated"
)

var (
	cacheCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "runcoach",
		Subsystem: "snapshot",
		Name:      "cache_total",
		Help:      "Number of snapshot requests grouped by cache outcome.",
	}, []string{"outcome"})

	buildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "runcoach",
		Subsystem: "snapshot",
		Name:      "build_duration_seconds",
		Help:      "Time spent aggregating a snapshot payload.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(cacheCounter, buildDuration)
}

func recordOutcome(outcome string) {
	cacheCounter.WithLabelValues(outcome).Inc()
}

func observeBuild(start time.Time) {
	buildDuration.Observe(time.Since(start).Seconds())
}
