// Package observability holds the Prometheus collectors shared by the HTTP
// layer, the codec service and the locality store.
package observability

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs to ~1.6s
		},
		[]string{"method", "route", "status"},
	)

	codecOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codec_ops_total",
			Help: "Plus Code operations by outcome.",
		},
		[]string{"op", "result"},
	)

	codecOpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codec_op_duration_seconds",
			Help:    "Duration of Plus Code operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
		},
		[]string{"op"},
	)

	localityCacheResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locality_cache_results_total",
			Help: "Locality cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	storeOpTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locality_store_op_total",
			Help: "Locality store operations by result.",
		},
		[]string{"op", "result"},
	)

	storeOpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "locality_store_op_duration_seconds",
			Help:    "Latency of locality store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op"},
	)
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestsTotal, httpRequestDurationSeconds,
		codecOpsTotal, codecOpDurationSeconds,
		localityCacheResults,
		storeOpTotal, storeOpDurationSeconds,
	}
}

// Init registers the collectors with reg. With enabled=false or a nil
// registry the collectors still count but are never exported. Registering
// twice with the same registry is a no-op.
func Init(reg prometheus.Registerer, enabled bool) {
	if !enabled || reg == nil {
		return
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveCodecOp(op string, err error, durationSeconds float64) {
	codecOpsTotal.WithLabelValues(op, result(err)).Inc()
	codecOpDurationSeconds.WithLabelValues(op).Observe(durationSeconds)
}

func ObserveStoreOp(op string, err error, durationSeconds float64) {
	storeOpTotal.WithLabelValues(op, result(err)).Inc()
	storeOpDurationSeconds.WithLabelValues(op).Observe(durationSeconds)
}

func IncLocalityCacheHit() { localityCacheResults.WithLabelValues("hit").Inc() }

func IncLocalityCacheMiss() { localityCacheResults.WithLabelValues("miss").Inc() }
