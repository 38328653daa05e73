package profiles

import "github.com/gin-gonic/gin"

func SetupProfileRoutes(rg *gin.RouterGroup, controller *Controller, authMiddleware gin.HandlerFunc) {
	profiles := rg.Group("/users")
	profiles.Use(authMiddleware)
	{
		profiles.GET("/:id", controller.GetProfile)
		profiles.PUT("/:id", controller.UpdateProfile)
	}
}
