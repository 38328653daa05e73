package auth

import (
	"errors"
	"net/http"

	"skybook/internal/shared/middleware"
	"skybook/internal/shared/utils/response"
	"skybook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// bind decodes and validates a JSON body, writing the error envelope on failure
func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return false
	}
	return true
}

// Register godoc
// @Summary Register a user and create their profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "account details"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /users/register [post]
func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserAlreadyExists):
			response.Error(ctx, http.StatusConflict, "User with this email already exists", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to register user", nil)
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "User registered successfully", resp)
}

// Login godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /users/login [post]
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			logger.GetDefault().LogAuthFailure(ctx.Request.Context(), "invalid credentials", ctx.ClientIP())
			response.Error(ctx, http.StatusUnauthorized, "Invalid email or password", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to login", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Login successful", resp)
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "refresh token"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /users/refresh [post]
func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			response.Error(ctx, http.StatusUnauthorized, "Invalid or expired refresh token", nil)
		case errors.Is(err, ErrUserNotFound):
			response.Error(ctx, http.StatusUnauthorized, "User not found", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to refresh token", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Token refreshed successfully", resp)
}

// Logout godoc
// @Summary Sign out
// @Description Acknowledgement only. Tokens are stateless and the client drops them.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LogoutRequest false "optional refresh token"
// @Success 200 {object} response.StandardApiResponse
// @Router /users/logout [post]
func (c *Controller) Logout(ctx *gin.Context) {
	var req LogoutRequest
	_ = ctx.ShouldBindJSON(&req) // Optional body

	response.Success(ctx, http.StatusOK, "Logged out successfully", nil)
}

// GetMe godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /users/me [get]
func (c *Controller) GetMe(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	user, err := c.service.GetUser(ctx.Request.Context(), userID.String())
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(ctx, http.StatusUnauthorized, "User not found", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to load user", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "User data retrieved successfully", user)
}
