package analytics

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller Controller, authMiddleware gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(authMiddleware, middleware.RequireAdmin())

	admin.GET("/stats", controller.GetAdminStats) // GET /api/admin/stats
}
