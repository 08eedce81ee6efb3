package middleware

import (
	"chat-relay/internal/cors"

	"github.com/gin-gonic/gin"
)

// CORS decorates every response with the policy's allow-origin headers.
// Rejected origins pass through untouched; enforcement is the browser's job.
// Preflights are answered by the route handler, not here.
func CORS(policy *cors.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy.Evaluate(c.GetHeader(cors.HeaderOrigin)).Apply(c.Writer.Header())
		c.Next()
	}
}
