package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ContractReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "raise3",
			Name:      "contract_read_duration_seconds",
			Help:      "Duration of read only contract calls",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
		[]string{"method", "status"},
	)

	MetadataFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "raise3",
			Name:      "metadata_fetches_total",
			Help:      "Off-chain metadata lookups by outcome",
		},
		// result: hit, miss, error, stale
		[]string{"result"},
	)

	Pins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "raise3",
			Name:      "pins_total",
			Help:      "Pinata pin requests",
		},
		[]string{"kind", "status"},
	)

	InvalidCounts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "raise3",
			Name:      "invalid_counts_total",
			Help:      "On-chain counts that could not be expanded into an index range",
		},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ObserveContractRead(method string, err error, d time.Duration) {
	ContractReadDuration.WithLabelValues(method, status(err)).Observe(d.Seconds())
}

func ObservePin(kind string, err error) {
	Pins.WithLabelValues(kind, status(err)).Inc()
}
