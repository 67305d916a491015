package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter mounts the checkout API. origins lists the browser origins
// allowed to call it.
func NewRouter(h *Handler, origins []string, logger *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.health)

	checkout := r.Group("/api/checkout")
	{
		checkout.GET("", h.state)
		checkout.POST("/submit", h.submit)
		checkout.POST("/sdk-loaded", h.sdkLoaded)
		checkout.GET("/session", h.currentSession)
		checkout.POST("/session/:id/success", h.sessionSuccess)
		checkout.POST("/session/:id/failure", h.sessionFailure)
		checkout.POST("/session/:id/dismiss", h.sessionDismiss)
	}
	return r
}

func requestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugw("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
