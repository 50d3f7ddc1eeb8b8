package middleware

import (
	"url-shrinker/internal/utils"

	"github.com/gin-gonic/gin"
)

// InjectTrace tags every request with a fresh trace id, echoed back in X-Trace-Id.
func InjectTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := utils.GenerateTraceId()
		c.Set(utils.TraceIdKey.String(), traceId)
		c.Header("X-Trace-Id", traceId)
		c.Next()
	}
}
