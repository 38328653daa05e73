package flights

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupFlightRoutes registers the public catalogue and the admin-only mutations
func SetupFlightRoutes(router *gin.RouterGroup, controller Controller, authMiddleware gin.HandlerFunc) {
	flights := router.Group("/flights")
	{
		flights.GET("", controller.ListFlights)         // GET /api/flights
		flights.GET("/search", controller.SearchFlights) // GET /api/flights/search?origin=&destination=&date=
		flights.GET("/:id", controller.GetFlight)        // GET /api/flights/:id (uuid or flight number)
	}

	admin := router.Group("/flights")
	admin.Use(authMiddleware, middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateFlight)
		admin.PUT("/:id", controller.UpdateFlight)
		admin.DELETE("/:id", controller.DeleteFlight)
	}
}
