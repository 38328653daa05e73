package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"skybook/internal/shared/config"
	"skybook/internal/shared/utils/response"
	"skybook/internal/users"
	"skybook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Context keys populated by the auth middleware
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
)

var ErrNoUserInContext = errors.New("user not authenticated")

// JWTAuthWithConfig creates a JWT authentication middleware with config
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return JWTAuth(cfg.JWT.Secret)
}

// JWTAuth rejects requests without a valid access token
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header is required", nil)
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil)
			return
		}

		claims, err := parseAccessToken(tokenString, secret)
		if err != nil {
			logger.GetDefault().LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth validates a JWT token if present but doesn't require it
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := parseAccessToken(tokenString, secret); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parseAccessToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims jwt.MapClaims) {
	c.Set(ContextKeyUserID, claims["user_id"])
	c.Set(ContextKeyUserEmail, claims["email"])
	c.Set(ContextKeyUserRole, claims["role"])
}

// RequireRole middleware checks if user has required role
func RequireRole(requiredRole users.Role) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(users.RoleAdmin)
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextKeyUserRole)
		if !exists {
			response.Error(c, http.StatusUnauthorized, "user role not found in context", nil)
			return
		}

		role, _ := userRole.(string)
		for _, required := range requiredRoles {
			if users.Role(role) == required {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "Insufficient permissions", nil)
	}
}

// GetUserID returns the authenticated caller's id
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, ErrNoUserInContext
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, ErrNoUserInContext
	}
	return uuid.Parse(s)
}

// IsAdmin reports whether the authenticated caller carries the admin role
func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get(ContextKeyUserRole)
	s, _ := role.(string)
	return users.Role(s) == users.RoleAdmin
}

// RequestLogger logs every request once the handler chain has finished
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
