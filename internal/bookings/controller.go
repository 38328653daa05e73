package bookings

import (
	"errors"
	"net/http"

	"skybook/internal/flights"
	"skybook/internal/shared/middleware"
	"skybook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking godoc
// @Summary Book a seat for the caller
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "booking details"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /bookings [post]
func (c *Controller) CreateBooking(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), requester, req)
	if err != nil {
		c.fail(ctx, err, "Failed to create booking")
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking created successfully", booking)
}

// GetBooking godoc
// @Summary Get a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "booking id"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /bookings/{id} [get]
func (c *Controller) GetBooking(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), requester, bookingID)
	if err != nil {
		c.fail(ctx, err, "Failed to retrieve booking")
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

// ListUserBookings godoc
// @Summary Bookings of a user, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Router /users/{id}/bookings [get]
func (c *Controller) ListUserBookings(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}
	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid user ID", err.Error())
		return
	}

	bookings, err := c.service.ListUserBookings(ctx.Request.Context(), requester, userID)
	if err != nil {
		c.fail(ctx, err, "Failed to retrieve bookings")
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// ListAllBookings godoc
// @Summary List all bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Router /bookings [get]
func (c *Controller) ListAllBookings(ctx *gin.Context) {
	bookings, err := c.service.ListAllBookings(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, err, "Failed to retrieve bookings")
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// UpdateBooking godoc
// @Summary Update a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "booking id"
// @Param request body UpdateBookingRequest true "fields to change"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /bookings/{id} [put]
func (c *Controller) UpdateBooking(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(ctx)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := c.service.UpdateBooking(ctx.Request.Context(), requester, bookingID, req)
	if err != nil {
		c.fail(ctx, err, "Failed to update booking")
		return
	}

	response.Success(ctx, http.StatusOK, "Booking updated successfully", booking)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description Deletes the booking and returns its seat to the flight.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "booking id"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /bookings/{id} [delete]
func (c *Controller) CancelBooking(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(ctx)
	if !ok {
		return
	}

	if err := c.service.CancelBooking(ctx.Request.Context(), requester, bookingID); err != nil {
		c.fail(ctx, err, "Failed to cancel booking")
		return
	}

	response.Success(ctx, http.StatusOK, "Booking cancelled successfully", nil)
}

func (c *Controller) fail(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, flights.ErrFlightNotFound):
		response.Error(ctx, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		response.Error(ctx, http.StatusForbidden, "Access denied", nil)
	case errors.Is(err, ErrNoSeatsAvailable):
		response.Error(ctx, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrEmptyBookingChanges), errors.Is(err, ErrPassengerRequired):
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, fallback, nil)
	}
}

func requesterFrom(ctx *gin.Context) (Requester, bool) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return Requester{}, false
	}
	email, _ := ctx.Get(middleware.ContextKeyUserEmail)
	emailStr, _ := email.(string)
	return Requester{
		UserID:  userID,
		Email:   emailStr,
		IsAdmin: middleware.IsAdmin(ctx),
	}, true
}

func bookingIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", err.Error())
		return uuid.Nil, false
	}
	return bookingID, true
}
