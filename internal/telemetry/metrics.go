package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_created_total",
		Help: "Payments persisted successfully.",
	})

	PaymentsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_duplicate_total",
		Help: "Payment submissions rejected by the idempotency constraint.",
	})

	PaymentsListed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_list_total",
		Help: "Listings by credit number, by outcome.",
	}, []string{"result"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_cache_lookups_total",
		Help: "Listing cache lookups, by outcome.",
	}, []string{"result"})

	APIKeyRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_key_rejections_total",
		Help: "Requests rejected by the API key gate, by reason.",
	}, []string{"reason"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// MetricsMiddleware records request latency labelled by matched route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
