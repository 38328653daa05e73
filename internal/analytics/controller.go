package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skybook/internal/shared/utils/response"
)

type Controller interface {
	GetAdminStats(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// GetAdminStats godoc
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Router /admin/stats [get]
func (ctrl *controller) GetAdminStats(c *gin.Context) {
	stats, err := ctrl.service.GetAdminStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to compute statistics", nil)
		return
	}

	response.Success(c, http.StatusOK, "Statistics retrieved successfully", stats)
}
