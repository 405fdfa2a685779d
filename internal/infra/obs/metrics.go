package obs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentprice_http_requests_total",
			Help: "HTTP requests served, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rentprice_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"method", "route"},
	)

	BusMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentprice_bus_messages_total",
			Help: "Commands and queries handled, by outcome.",
		},
		[]string{"kind", "key", "outcome"},
	)

	RateLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentprice_rate_lookups_total",
			Help: "Exchange rate table lookups, by source (cache or upstream) and outcome.",
		},
		[]string{"source", "outcome"},
	)

	OutboxEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentprice_outbox_events_total",
			Help: "Outbox records relayed to the broker, by event name and outcome.",
		},
		[]string{"event", "outcome"},
	)
)

func ObserveHTTP(method, route, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveBus matches middleware.Observer.
func ObserveBus(kind, key string, _ time.Duration, err error) {
	BusMessagesTotal.WithLabelValues(kind, key, outcome(err)).Inc()
}

func IncRateLookup(source string, err error) {
	RateLookupsTotal.WithLabelValues(source, outcome(err)).Inc()
}

func IncOutboxEvent(event string, err error) {
	OutboxEventsTotal.WithLabelValues(event, outcome(err)).Inc()
}

// MetricsHandler serves the default registry for gin.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
