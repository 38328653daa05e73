package profiles

import (
	"errors"
	"net/http"

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

// GetProfile godoc
// @Summary Get a profile by user id
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /users/{id} [get]
func (c *Controller) GetProfile(ctx *gin.Context) {
	requester, userID, ok := c.parse(ctx)
	if !ok {
		return
	}

	profile, err := c.service.GetProfile(ctx.Request.Context(), requester, userID)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateProfile godoc
// @Summary Update a profile
// @Description Only admins may change the role.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Param request body UpdateProfileRequest true "fields to change"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /users/{id} [put]
func (c *Controller) UpdateProfile(ctx *gin.Context) {
	requester, userID, ok := c.parse(ctx)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	profile, err := c.service.UpdateProfile(ctx.Request.Context(), requester, userID, req)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Profile updated successfully", profile)
}

func (c *Controller) parse(ctx *gin.Context) (Requester, uuid.UUID, bool) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return Requester{}, uuid.Nil, false
	}

	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid user ID", err.Error())
		return Requester{}, uuid.Nil, false
	}

	return Requester{UserID: callerID, IsAdmin: middleware.IsAdmin(ctx)}, userID, true
}

func (c *Controller) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		response.Error(ctx, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrRoleChangeForbidden):
		response.Error(ctx, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, ErrEmptyProfileChanges):
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Failed to process profile", nil)
	}
}
