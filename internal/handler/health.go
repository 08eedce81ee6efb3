package handler

import (
	"net/http"
	"time"

	"chat-relay/internal/model"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Root handles GET /. The body is fixed and independent of upstream state.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{Message: model.RootMessage})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    "ok",
		Timestamp: h.now().Unix(),
	})
}
