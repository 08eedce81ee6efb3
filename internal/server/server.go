package server

import (
	"net/http"

	"chat-relay/internal/config"
	"chat-relay/internal/cors"
	"chat-relay/internal/handler"
	"chat-relay/internal/metrics"
	"chat-relay/internal/middleware"
	"chat-relay/internal/model"

	"github.com/gin-gonic/gin"
)

// Dependencies are built once in main and shared read-only by every request.
type Dependencies struct {
	Policy  *cors.Policy
	Chat    *handler.ChatHandler
	Health  *handler.HealthHandler
	Metrics *metrics.Collector // nil disables /metrics
	// MetricsPath defaults to /metrics.
	MetricsPath string
}

func NewRouter(deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// CORS runs first so even recovered panics and 404s carry the headers.
	// The outer Recovery catches panics in the middlewares below it; the
	// inner one keeps handler panics visible to the logger and metrics.
	router.Use(middleware.CORS(deps.Policy))
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	router.Use(middleware.Recovery())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Detail: "Not Found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, model.ErrorResponse{Detail: "Method Not Allowed"})
	})

	router.GET("/", deps.Health.Root)
	router.GET("/health", deps.Health.Health)

	router.POST("/chat", deps.Chat.Chat)
	router.OPTIONS("/chat", deps.Chat.Preflight)

	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	return router
}

func NewHTTPServer(cfg config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:           cfg.Addr(),
		Handler:        h,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}
}
