package pricing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skybook/internal/flights"
	"skybook/internal/shared/utils/response"
)

type Controller interface {
	CalculatePrice(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// CalculatePrice godoc
// @Summary Quote a fare for a flight, cabin and passenger count
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body CalculatePriceRequest true "quote request"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /pricing/calculate [post]
func (ctrl *controller) CalculatePrice(c *gin.Context) {
	var req CalculatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	quote, err := ctrl.service.CalculatePrice(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, flights.ErrFlightNotFound):
			response.Error(c, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, ErrUnknownSeatClass),
			errors.Is(err, ErrInvalidPassengers),
			errors.Is(err, ErrNotEnoughSeats):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to calculate price", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "Price calculated successfully", quote)
}
