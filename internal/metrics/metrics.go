package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	outboundRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resolver_outbound_requests_total",
		Help: "Outbound HTTP attempts by service and status (\"error\" for transport failures)",
	}, []string{"service", "status"})

	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resolver_resolutions_total",
		Help: "Stream resolutions by store, media kind and outcome",
	}, []string{"store", "kind", "outcome"})

	resolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resolver_resolution_duration_seconds",
		Help:    "Time spent resolving streams for one request",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"store", "kind"})

	partialFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resolver_partial_failures_total",
		Help: "Candidates dropped because of backend failures during a resolution",
	}, []string{"store", "phase"})

	streamsReturned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resolver_streams_returned",
		Help:    "Number of stream descriptors returned per resolution",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	}, []string{"store"})

	unlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resolver_unlocks_total",
		Help: "Playback link unlocks by store and outcome",
	}, []string{"store", "outcome"})
)

func ObserveOutboundRequest(service, status string) {
	outboundRequests.WithLabelValues(service, status).Inc()
}

func RecordResolution(store, kind, outcome string, elapsed time.Duration, streams int) {
	resolutions.WithLabelValues(store, kind, outcome).Inc()
	resolutionDuration.WithLabelValues(store, kind).Observe(elapsed.Seconds())
	if outcome == "ok" || outcome == "partial" {
		streamsReturned.WithLabelValues(store).Observe(float64(streams))
	}
}

func RecordPartialFailure(store, phase string) {
	partialFailures.WithLabelValues(store, phase).Inc()
}

func RecordUnlock(store, outcome string) {
	unlocks.WithLabelValues(store, outcome).Inc()
}
