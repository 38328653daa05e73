package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 5,
		PublicRequests:  3,
		AuthRequests:    2,
		BookingRequests: 4,
		AdminRequests:   10,
		UserRequests:    6,
		HealthRequests:  100,
	}
}

func newTestLimiter(t *testing.T, cfg *Config) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, cfg), mr
}

func TestSlidingWindow(t *testing.T) {
	rl, _ := newTestLimiter(t, testConfig())
	ctx := context.Background()

	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		res, err := rl.IsAllowed(ctx, "10.0.0.1", RateLimitTypeAuth)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 1-i, res.Remaining)
	}

	res, err := rl.IsAllowed(ctx, "10.0.0.1", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 2, res.Limit)

	// other clients and other classes have their own budget
	res, err = rl.IsAllowed(ctx, "10.0.0.2", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	res, err = rl.IsAllowed(ctx, "10.0.0.1", RateLimitTypePublic)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	clock = clock.Add(time.Minute + time.Millisecond)
	res, err = rl.IsAllowed(ctx, "10.0.0.1", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "window should have slid past the old requests")
}

func TestBypass(t *testing.T) {
	t.Run("whitelisted", func(t *testing.T) {
		cfg := testConfig()
		cfg.WhitelistedIPs = []string{"127.0.0.1"}
		rl, _ := newTestLimiter(t, cfg)

		for i := 0; i < 5; i++ {
			res, err := rl.IsAllowed(context.Background(), "127.0.0.1", RateLimitTypeAuth)
			require.NoError(t, err)
			assert.True(t, res.Allowed)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Enabled = false
		rl := NewRateLimiter(nil, cfg)

		res, err := rl.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeAuth)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})
}

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   RateLimitType
	}{
		{http.MethodGet, "/health", RateLimitTypeHealth},
		{http.MethodGet, "/metrics", RateLimitTypeHealth},
		{http.MethodPost, "/api/users/login", RateLimitTypeAuth},
		{http.MethodPost, "/api/users/register", RateLimitTypeAuth},
		{http.MethodGet, "/api/admin/stats", RateLimitTypeAdmin},
		{http.MethodPost, "/api/flights", RateLimitTypeAdmin},
		{http.MethodDelete, "/api/flights/:id", RateLimitTypeAdmin},
		{http.MethodGet, "/api/flights/search", RateLimitTypePublic},
		{http.MethodPost, "/api/pricing/calculate", RateLimitTypePublic},
		{http.MethodPost, "/api/bookings", RateLimitTypeBooking},
		{http.MethodGet, "/api/users/:id/bookings", RateLimitTypeBooking},
		{http.MethodGet, "/api/users/:id", RateLimitTypeUser},
		{http.MethodGet, "/swagger/*any", RateLimitTypeDefault},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, getRateLimitType(tt.method, tt.path), tt.method+" "+tt.path)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("rejects over budget", func(t *testing.T) {
		rl, _ := newTestLimiter(t, testConfig())
		engine := gin.New()
		engine.Use(Middleware(rl))
		engine.POST("/api/users/login", func(c *gin.Context) { c.Status(http.StatusOK) })

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			engine.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
			if i == 0 {
				assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
				assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
			}
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("fails open when redis is down", func(t *testing.T) {
		rl, mr := newTestLimiter(t, testConfig())
		mr.Close()

		engine := gin.New()
		engine.Use(Middleware(rl))
		engine.GET("/api/flights", func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flights", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
