package middleware

import (
	"strconv"
	"time"

	"exhibits-dashboard/prometheus"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per method/route/status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		prometheus.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
