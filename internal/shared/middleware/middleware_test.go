package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skybook/internal/shared/middleware"
	"skybook/internal/shared/testutil"
	"skybook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newEngine() *gin.Engine {
	engine := gin.New()
	auth := middleware.JWTAuth(testutil.JWTSecret)

	engine.GET("/me", auth, func(c *gin.Context) {
		id, err := middleware.GetUserID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	engine.GET("/admin", auth, middleware.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	engine.GET("/optional", middleware.OptionalAuth(testutil.JWTSecret), func(c *gin.Context) {
		if middleware.IsAdmin(c) {
			c.String(http.StatusOK, "admin")
			return
		}
		c.String(http.StatusOK, "guest")
	})
	return engine
}

func serve(engine *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	engine.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	engine := newEngine()
	userID := uuid.New()
	valid := testutil.AccessToken(t, userID, "jane@skybook.dev", users.RoleUser)

	base := func(typ string, exp time.Time) jwt.MapClaims {
		return jwt.MapClaims{"user_id": userID.String(), "email": "jane@skybook.dev", "role": "user", "type": typ, "exp": exp.Unix()}
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"refresh token", "Bearer " + signed(t, base("refresh", time.Now().Add(time.Hour)), testutil.JWTSecret), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, base("access", time.Now().Add(-time.Minute)), testutil.JWTSecret), http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, base("access", time.Now().Add(time.Hour)), "other"), http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(engine, "/me", tt.header).Code)
		})
	}

	rec := serve(engine, "/me", "Bearer "+valid)
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	engine := newEngine()

	user := testutil.AccessToken(t, uuid.New(), "jane@skybook.dev", users.RoleUser)
	admin := testutil.AccessToken(t, uuid.New(), "admin@skybook.dev", users.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, serve(engine, "/admin", "Bearer "+user).Code)
	assert.Equal(t, http.StatusNoContent, serve(engine, "/admin", "Bearer "+admin).Code)
}

func TestOptionalAuth(t *testing.T) {
	engine := newEngine()
	admin := testutil.AccessToken(t, uuid.New(), "admin@skybook.dev", users.RoleAdmin)

	assert.Equal(t, "guest", serve(engine, "/optional", "").Body.String())
	assert.Equal(t, "guest", serve(engine, "/optional", "Bearer not-a-token").Body.String())
	assert.Equal(t, "admin", serve(engine, "/optional", "Bearer "+admin).Body.String())
}
