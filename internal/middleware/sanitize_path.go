package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizePath strips markup from the request path before routing parameters are read from it.
func SanitizePath() gin.HandlerFunc {
	p := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		c.Request.URL.Path = p.Sanitize(c.Request.URL.Path)
		c.Next()
	}
}
