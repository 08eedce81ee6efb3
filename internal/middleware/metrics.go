package middleware

import (
	"github.com/gin-gonic/gin"
)

// HTTPObserver is satisfied by *metrics.Collector.
type HTTPObserver interface {
	ObserveHTTP(method, route string, statusCode int)
}

// Metrics counts requests by matched route. Unmatched paths share one label.
func Metrics(observer HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveHTTP(c.Request.Method, route, c.Writer.Status())
	}
}
