package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"
)

var (
	requestCounter   = metrics.GetOrCreateCounter("http_requests_total")
	responseTimeHist = metrics.GetOrCreateHistogram("http_response_time_seconds")
	responseSizeHist = metrics.GetOrCreateHistogram("http_response_size_bytes")
)

// WithMetrics records request counters, per-status counters and latency/size
// histograms.
func WithMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestCounter.Inc()

		c.Next()

		responseTimeHist.Update(time.Since(start).Seconds())
		if size := c.Writer.Size(); size > 0 {
			responseSizeHist.Update(float64(size))
		}
		metrics.GetOrCreateCounter(
			`http_response_status_total{code="` + strconv.Itoa(c.Writer.Status()) + `"}`,
		).Inc()
	}
}

// MetricsHandler exposes the registry in Prometheus text format.
func MetricsHandler(c *gin.Context) {
	c.Status(http.StatusOK)
	metrics.WritePrometheus(c.Writer, true)
}
