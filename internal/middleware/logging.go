package middleware

import (
	"time"

	"chat-relay/internal/cors"
	"chat-relay/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every inbound request, the CORS headers it carried, and
// its completion status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		id := GetRequestID(c)

		logger.WithFields(logger.Fields{
			"id":     id,
			"method": c.Request.Method,
			"path":   path,
		}).Info("Incoming request")

		origin := c.GetHeader(cors.HeaderOrigin)
		acrMethod := c.GetHeader(cors.HeaderRequestMethod)
		acrHeaders := c.GetHeader(cors.HeaderRequestHeaders)
		if origin != "" || acrMethod != "" || acrHeaders != "" {
			logger.WithFields(logger.Fields{
				"id":         id,
				"origin":     origin,
				"acr_method": acrMethod,
				"acr_header": acrHeaders,
			}).Info("CORS headers")
		}

		c.Next()

		logger.WithFields(logger.Fields{
			"id":       id,
			"method":   c.Request.Method,
			"path":     path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
			"remote":   c.ClientIP(),
		}).Info("request")
	}
}
