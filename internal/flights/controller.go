package flights

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skybook/internal/shared/middleware"
	"skybook/internal/shared/utils/response"
)

type Controller interface {
	ListFlights(c *gin.Context)
	SearchFlights(c *gin.Context)
	GetFlight(c *gin.Context)
	CreateFlight(c *gin.Context)
	UpdateFlight(c *gin.Context)
	DeleteFlight(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// ListFlights godoc
// @Summary List all flights
// @Tags flights
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Failure 500 {object} response.StandardApiResponse
// @Router /flights [get]
func (ctrl *controller) ListFlights(c *gin.Context) {
	flights, err := ctrl.service.ListFlights(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to retrieve flights", nil)
		return
	}

	response.Success(c, http.StatusOK, "Flights retrieved successfully", flights)
}

// SearchFlights godoc
// @Summary Search flights by origin, destination and departure date
// @Tags flights
// @Produce json
// @Param origin query string false "origin, case-insensitive substring"
// @Param destination query string false "destination, case-insensitive substring"
// @Param date query string false "departure date YYYY-MM-DD (UTC)"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Router /flights/search [get]
func (ctrl *controller) SearchFlights(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	flights, err := ctrl.service.SearchFlights(c.Request.Context(), query)
	if err != nil {
		ctrl.fail(c, err, "Failed to search flights")
		return
	}

	response.Success(c, http.StatusOK, "Flights retrieved successfully", flights)
}

// GetFlight godoc
// @Summary Get a flight by id or flight number
// @Tags flights
// @Produce json
// @Param id path string true "flight id or number"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /flights/{id} [get]
func (ctrl *controller) GetFlight(c *gin.Context) {
	flight, err := ctrl.service.GetFlight(c.Request.Context(), c.Param("id"))
	if err != nil {
		ctrl.fail(c, err, "Failed to retrieve flight")
		return
	}

	response.Success(c, http.StatusOK, "Flight retrieved successfully", flight)
}

// CreateFlight godoc
// @Summary Create a flight
// @Description Available seats default to the total.
// @Tags flights
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFlightRequest true "flight details"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /flights [post]
func (ctrl *controller) CreateFlight(c *gin.Context) {
	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	adminID, err := middleware.GetUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Admin not authenticated", nil)
		return
	}

	flight, err := ctrl.service.CreateFlight(c.Request.Context(), adminID, req)
	if err != nil {
		ctrl.fail(c, err, "Failed to create flight")
		return
	}

	response.Success(c, http.StatusCreated, "Flight created successfully", flight)
}

// UpdateFlight godoc
// @Summary Update a flight
// @Tags flights
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "flight id"
// @Param request body UpdateFlightRequest true "fields to change"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /flights/{id} [put]
func (ctrl *controller) UpdateFlight(c *gin.Context) {
	flightID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid flight ID", err.Error())
		return
	}

	var req UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	flight, err := ctrl.service.UpdateFlight(c.Request.Context(), flightID, req)
	if err != nil {
		ctrl.fail(c, err, "Failed to update flight")
		return
	}

	response.Success(c, http.StatusOK, "Flight updated successfully", flight)
}

// DeleteFlight godoc
// @Summary Delete a flight and its bookings
// @Tags flights
// @Produce json
// @Security BearerAuth
// @Param id path string true "flight id"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /flights/{id} [delete]
func (ctrl *controller) DeleteFlight(c *gin.Context) {
	flightID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid flight ID", err.Error())
		return
	}

	if err := ctrl.service.DeleteFlight(c.Request.Context(), flightID); err != nil {
		ctrl.fail(c, err, "Failed to delete flight")
		return
	}

	response.Success(c, http.StatusOK, "Flight deleted successfully", nil)
}

func (ctrl *controller) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrFlightNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrFlightNumberTaken):
		response.Error(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrInvalidSeatCounts),
		errors.Is(err, ErrInvalidSchedule),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrEmptyFlightChanges):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error(c, http.StatusInternalServerError, fallback, nil)
	}
}
