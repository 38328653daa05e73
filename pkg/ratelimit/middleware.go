package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"skybook/internal/shared/utils/response"
	"skybook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware applies the limiter to every request. A Redis failure lets the
// request through rather than taking the API down with the cache.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.Request.Method, c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			logger.GetDefault().WarnContext(c.Request.Context(), "rate limit check failed",
				slog.String("ip", clientIP),
				slog.Any("error", err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType classifies a request by its route template
func getRateLimitType(method, path string) RateLimitType {
	switch {
	case path == "/health", path == "/ping", path == "/status", path == "/metrics":
		return RateLimitTypeHealth

	case strings.HasSuffix(path, "/users/register"),
		strings.HasSuffix(path, "/users/login"),
		strings.HasSuffix(path, "/users/refresh"),
		strings.HasSuffix(path, "/users/logout"):
		return RateLimitTypeAuth

	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	// Flight writes are admin-only
	case strings.Contains(path, "/flights") && method != http.MethodGet:
		return RateLimitTypeAdmin

	case strings.Contains(path, "/bookings"):
		return RateLimitTypeBooking

	case strings.Contains(path, "/flights"),
		strings.Contains(path, "/pricing"):
		return RateLimitTypePublic

	case strings.Contains(path, "/users/"):
		return RateLimitTypeUser

	default:
		return RateLimitTypeDefault
	}
}

// getClientIP prefers proxy headers and falls back to the socket address
func getClientIP(c *gin.Context) string {
	if xForwardedFor := c.GetHeader("X-Forwarded-For"); xForwardedFor != "" {
		ip := strings.TrimSpace(strings.Split(xForwardedFor, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
