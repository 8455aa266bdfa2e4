package paceprofile

import "github.com/prometheus/client_golang/prometheus"

var resolutionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "runcoach",
	Subsystem: "pace_profile",
	Name:      "resolutions_total",
	Help:      "Number of pace profile resolutions grouped by the tier that produced them.",
}, []string{"source"})

func init() {
	prometheus.MustRegister(resolutionCounter)
}

func recordResolution(source Source) {
	resolutionCounter.WithLabelValues(string(source)).Inc()
}
