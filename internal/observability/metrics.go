package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packetctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "packetctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	decodeTransmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packetctl",
			Subsystem: "decode",
			Name:      "transmissions_total",
			Help:      "Transmissions analysed, by outcome.",
		},
		[]string{"outcome"},
	)
	decodePackets = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "packetctl",
			Subsystem: "decode",
			Name:      "packets",
			Help:      "Packets per successfully decoded transmission.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
	decodeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "packetctl",
			Subsystem: "decode",
			Name:      "duration_seconds",
			Help:      "Decode and evaluation time in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodeTransmissions, decodePackets, decodeDuration)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDecode counts one analysed transmission. packets is only observed
// for the "ok" outcome.
func RecordDecode(outcome string, packets int, duration time.Duration) {
	RegisterMetrics()
	decodeTransmissions.WithLabelValues(outcome).Inc()
	decodeDuration.Observe(duration.Seconds())
	if outcome == OutcomeOK {
		decodePackets.Observe(float64(packets))
	}
}

// Decode outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeTruncated = "truncated"
	OutcomeOverrun   = "framing_overrun"
	OutcomeArity     = "invalid_arity"
	OutcomeOverflow  = "overflow"
	OutcomeRejected  = "rejected"
)
