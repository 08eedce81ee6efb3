package handler

import (
	"context"
	"net/http"

	"chat-relay/internal/cors"
	"chat-relay/internal/model"
	"chat-relay/internal/service"
	"chat-relay/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Relayer forwards a chat request upstream. *service.RelayService
// implements it.
type Relayer interface {
	Relay(ctx context.Context, req model.ChatRequest) service.Result
}

type ChatHandler struct {
	relay  Relayer
	policy *cors.Policy
}

func NewChatHandler(relay Relayer, policy *cors.Policy) *ChatHandler {
	return &ChatHandler{
		relay:  relay,
		policy: policy,
	}
}

// Chat handles POST /chat. Both fields must be present strings; empty
// values are forwarded as-is.
func (h *ChatHandler) Chat(c *gin.Context) {
	var body model.ChatRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{Detail: err.Error()})
		return
	}

	writeResult(c, h.relay.Relay(c.Request.Context(), body.ToChatRequest()))
}

// Preflight handles OPTIONS /chat.
func (h *ChatHandler) Preflight(c *gin.Context) {
	origin := c.GetHeader(cors.HeaderOrigin)
	decision := h.policy.Evaluate(origin)
	if !decision.Allowed {
		logger.WithFields(logger.Fields{"origin": origin}).Warn("Preflight rejected")
		c.Data(http.StatusForbidden, "text/plain; charset=utf-8", []byte("Origin not allowed"))
		return
	}

	header := c.Writer.Header()
	for key, values := range decision.PreflightHeaders(c.GetHeader(cors.HeaderRequestHeaders)) {
		header[key] = values
	}
	c.Status(http.StatusOK)
}

// writeResult is the only place a relay Result becomes a response.
func writeResult(c *gin.Context, res service.Result) {
	switch res.Kind {
	case service.ResultOK, service.ResultUpstreamError:
		c.Data(res.Response.StatusCode, res.Response.ContentType, res.Response.Body)
	default:
		c.JSON(res.StatusCode(), model.ErrorResponse{Detail: res.Message})
	}
}
