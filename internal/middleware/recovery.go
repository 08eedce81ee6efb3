package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"chat-relay/internal/model"
	"chat-relay/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into the 500 error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		logger.WithFields(logger.Fields{
			"id":    GetRequestID(c),
			"panic": rec,
			"stack": string(debug.Stack()),
		}).Error("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{Detail: fmt.Sprint(rec)})
	})
}
