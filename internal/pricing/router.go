package pricing

import "github.com/gin-gonic/gin"

func SetupPricingRoutes(rg *gin.RouterGroup, controller Controller) {
	pricing := rg.Group("/pricing")
	{
		pricing.POST("/calculate", controller.CalculatePrice)
	}
}
