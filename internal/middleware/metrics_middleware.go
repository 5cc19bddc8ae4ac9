package middleware

import (
	"strconv"
	"time"

	"github.com/formco/backend/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware collects HTTP request metrics labelled by route template
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := routeLabel(c)
		method := c.Request.Method

		metrics.RequestInProgress.WithLabelValues(method, path).Inc()
		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		metrics.RequestCounter.WithLabelValues(status, method, path).Inc()
		metrics.RequestDuration.WithLabelValues(status, method, path).Observe(duration)
		metrics.RequestInProgress.WithLabelValues(method, path).Dec()
	}
}

// routeLabel keeps label cardinality bounded: ids stay in the template, unknown paths collapse
func routeLabel(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unmatched"
}
