package bookings

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, authMiddleware gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("", controller.CreateBooking)                            // POST   /api/bookings
		bookings.GET("", middleware.RequireAdmin(), controller.ListAllBookings) // GET    /api/bookings (admin)
		bookings.GET("/:id", controller.GetBooking)                            // GET    /api/bookings/:id
		bookings.PUT("/:id", controller.UpdateBooking)                         // PUT    /api/bookings/:id
		bookings.DELETE("/:id", controller.CancelBooking)                      // DELETE /api/bookings/:id
	}

	// Bookings of one user, newest first
	rg.GET("/users/:id/bookings", authMiddleware, controller.ListUserBookings)
}
