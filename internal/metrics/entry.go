package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entry_requests_total",
			Help: "Total entry purchase requests by result and number_count",
		},
		[]string{"result", "number_count"},
	)

	entryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "entry_request_duration_ms",
			Help:    "Entry purchase duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result", "number_count"},
	)
)

// RecordEntry records business metrics for an entry purchase.
// result should be "success" or "fail"; numberCount is the size of the picked set.
func RecordEntry(result string, numberCount int, started time.Time) {
	res := result
	if res != "success" {
		res = "fail"
	}
	nc := strconv.Itoa(numberCount)
	entryTotal.WithLabelValues(res, nc).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	entryDuration.WithLabelValues(res, nc).Observe(durMs)
}
