package middleware

import (
	"strconv"
	"time"

	"url-shrinker/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics observes the duration of every request, labelled by route pattern rather than raw path.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
