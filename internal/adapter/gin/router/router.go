package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"usuarios-api/api/swagger"
	"usuarios-api/internal/adapter/gin/handler"
	"usuarios-api/internal/adapter/gin/middleware"
	"usuarios-api/pkg/logger"
)

// Options carries the collaborators SetupRouter wires in. RateLimiter may be
// nil, in which case requests are not limited.
type Options struct {
	UserHandler    *handler.UserHandler
	StatusHandler  *handler.StatusHandler
	Metrics        MetricsProvider
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// MetricsProvider records request metrics and exposes them for scraping.
type MetricsProvider interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.Logger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  opts.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", logger.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}
	// Innermost so a panicking request is still logged and counted
	router.Use(middleware.Recovery(log))

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	router.GET("/health", handler.Health)

	swaggerUI := httpSwagger.Handler(httpSwagger.URL("/swagger/" + swagger.FileName))
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/"+swagger.FileName {
			c.Data(http.StatusOK, "application/json; charset=utf-8", swagger.Document)
			return
		}
		swaggerUI(c.Writer, c.Request)
	})

	router.GET("/", opts.StatusHandler.Index)

	api := router.Group("/api")
	api.Use(opts.RateLimiter.Handler())
	{
		api.GET("/status", opts.StatusHandler.Status)

		users := api.Group("/usuarios")
		{
			users.GET("", opts.UserHandler.ListUsers)
			users.POST("", opts.UserHandler.CreateUser)
			users.GET("/:id", opts.UserHandler.GetUser)
			users.DELETE("/:id", opts.UserHandler.DeleteUser)
		}
	}

	return router
}
