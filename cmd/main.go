package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chat-relay/internal/config"
	"chat-relay/internal/cors"
	"chat-relay/internal/handler"
	"chat-relay/internal/metrics"
	"chat-relay/internal/server"
	"chat-relay/internal/service"
	"chat-relay/pkg/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	policy := cors.NewPolicy(cfg.CORS.AllowAllOrigins, cfg.CORS.AllowedOrigins)
	if policy.AllowAll() {
		logger.Warn("CORS: allow_all is enabled (ALLOW_ALL_ORIGINS=1). This is insecure for production.")
	} else {
		logger.Infof("CORS: allowing %d origins", len(cfg.CORS.AllowedOrigins))
	}

	var collector *metrics.Collector
	var recorder service.Recorder
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
		recorder = collector
	}

	relay := service.NewRelayService(cfg.Upstream, recorder)
	router := server.NewRouter(server.Dependencies{
		Policy:      policy,
		Chat:        handler.NewChatHandler(relay, policy),
		Health:      handler.NewHealthHandler(),
		Metrics:     collector,
		MetricsPath: cfg.Metrics.Path,
	})

	srv := server.NewHTTPServer(cfg.Server, router)

	go func() {
		logger.Infof("Listening on %s, relaying to %s", srv.Addr, cfg.Upstream.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
