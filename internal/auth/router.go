package auth

import (
	"github.com/gin-gonic/gin"
)

// Router handles auth-related routes
type Router struct {
	controller     *Controller
	authMiddleware gin.HandlerFunc
}

// NewRouter creates a new auth router
func NewRouter(controller *Controller, authMiddleware gin.HandlerFunc) *Router {
	return &Router{
		controller:     controller,
		authMiddleware: authMiddleware,
	}
}

// SetupRoutes registers all auth routes under /users
func (authRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	{
		// Public routes (no authentication required)
		auth.POST("/register", authRouter.controller.Register)
		auth.POST("/login", authRouter.controller.Login)
		auth.POST("/refresh", authRouter.controller.RefreshToken)
		auth.POST("/logout", authRouter.controller.Logout)

		// Protected routes (authentication required)
		auth.GET("/me", authRouter.authMiddleware, authRouter.controller.GetMe)
	}
}
