package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "usuarios-api/internal/adapter/gin/handler"
	"usuarios-api/internal/adapter/gin/middleware"
	ginrouter "usuarios-api/internal/adapter/gin/router"
	"usuarios-api/pkg/metrics"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	userHandler *ginhandler.UserHandler,
	statusHandler *ginhandler.StatusHandler,
	m *metrics.Metrics,
	rateLimiter *middleware.RateLimiter,
	allowedOrigins []string,
	ginAddr string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(ginrouter.Options{
		UserHandler:    userHandler,
		StatusHandler:  statusHandler,
		Metrics:        m,
		RateLimiter:    rateLimiter,
		AllowedOrigins: allowedOrigins,
	}, l)

	l.Info("Gin REST API configured", zap.String("address", ginAddr))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
