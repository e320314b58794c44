package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesotho-epassport/backend/internal/handlers"
	"github.com/lesotho-epassport/backend/internal/middleware"
)

// RegisterRoutes configures all API routes
func RegisterRoutes(
	router *gin.Engine,
	applicationHandler *handlers.ApplicationHandler,
	uploadHandler *handlers.UploadHandler,
	statusHandler *handlers.StatusHandler,
	updateHandler *handlers.UpdateHandler,
	rateLimiter *middleware.RateLimiter,
) {
	router.Use(middleware.SecureHeaders())
	router.Use(rateLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/applications", applicationHandler.Submit)
	router.POST("/renewals", applicationHandler.Renew)
	router.POST("/uploads", uploadHandler.Upload)
	router.GET("/status/:reference", statusHandler.Check)
	router.GET("/updates", updateHandler.List)
}
