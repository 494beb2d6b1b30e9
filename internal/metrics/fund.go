package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fundTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fund_request_operations_total",
			Help: "Total fund request operations by action and result",
		},
		[]string{"action", "result"},
	)

	fundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fund_request_operation_duration_ms",
			Help:    "Fund request operation duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"action", "result"},
	)
)

// RecordFund 记录资金申请操作的业务指标
// action: "create" | "approve" | "deny"；result: "success" | "fail"
func RecordFund(action, result string, started time.Time) {
	res := result
	if res != "success" {
		res = "fail"
	}
	fundTotal.WithLabelValues(action, res).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	fundDuration.WithLabelValues(action, res).Observe(durMs)
}
