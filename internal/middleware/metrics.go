package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vigil-dev/vigil/internal/metrics"
)

// Metrics records a counter and latency histogram per request, labeled by the
// route template rather than the raw path so ids do not explode cardinality.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		path := ctx.FullPath()

		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			ctx.Request.Method,
			path,
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(ctx.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
