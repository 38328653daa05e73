package auth_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"skybook/internal/auth"
	"skybook/internal/shared/middleware"
	"skybook/internal/shared/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthEngine(t *testing.T) *gin.Engine {
	t.Helper()
	svc, _ := newAuthService(t)
	engine := gin.New()
	auth.NewRouter(auth.NewController(svc), middleware.JWTAuth(testutil.JWTSecret)).SetupRoutes(engine.Group("/api"))
	return engine
}

func post(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginAndMe(t *testing.T) {
	engine := newAuthEngine(t)

	rec := post(engine, "/api/users/register",
		`{"first_name":"Jane","last_name":"Doe","email":"jane@skybook.dev","password":"qwerty"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = post(engine, "/api/users/register",
		`{"first_name":"Jane","last_name":"Doe","email":"jane@skybook.dev","password":"qwerty"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(engine, "/api/users/login", `{"email":"jane@skybook.dev","password":"qwerty"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var session auth.AuthResponse
	testutil.DecodeEnvelope(t, rec.Body, &session)
	require.NotEmpty(t, session.AccessToken)

	meRec := httptest.NewRecorder()
	meReq := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+session.AccessToken)
	engine.ServeHTTP(meRec, meReq)
	require.Equal(t, http.StatusOK, meRec.Code)

	var me auth.UserResponse
	testutil.DecodeEnvelope(t, meRec.Body, &me)
	assert.Equal(t, session.User.ID, me.ID)
	assert.Equal(t, "user", me.Role)

	rec = post(engine, "/api/users/logout", `{"refresh_token":"`+session.RefreshToken+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthValidation(t *testing.T) {
	engine := newAuthEngine(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"short password", "/api/users/register", `{"first_name":"J","last_name":"D","email":"j@skybook.dev","password":"123"}`, http.StatusBadRequest},
		{"bad email", "/api/users/register", `{"first_name":"J","last_name":"D","email":"nope","password":"qwerty"}`, http.StatusBadRequest},
		{"unknown user", "/api/users/login", `{"email":"ghost@skybook.dev","password":"qwerty"}`, http.StatusUnauthorized},
		{"bad refresh token", "/api/users/refresh", `{"refresh_token":"garbage"}`, http.StatusUnauthorized},
		{"malformed json", "/api/users/login", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, post(engine, tt.path, tt.body).Code)
		})
	}
}
