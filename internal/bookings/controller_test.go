package bookings_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"skybook/internal/bookings"
	"skybook/internal/shared/middleware"
	"skybook/internal/shared/testutil"
	"skybook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingEngine(f *fixture) *gin.Engine {
	engine := gin.New()
	bookings.SetupBookingRoutes(engine.Group("/api"), bookings.NewController(f.service), middleware.JWTAuth(testutil.JWTSecret))
	return engine
}

func TestCreateBookingEndpointSendsNullSeat(t *testing.T) {
	f := newFixture(t, 150, 180)
	engine := newBookingEngine(f)
	token := testutil.AccessToken(t, f.jane.UserID, f.jane.Email, users.RoleUser)

	body := `{"flight_id":"` + f.flight.ID.String() + `","passenger_name":"Jane Doe","seat_number":null}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var raw map[string]interface{}
	testutil.DecodeEnvelope(t, rec.Body, &raw)
	seat, present := raw["seat_number"]
	assert.True(t, present)
	assert.Nil(t, seat)
	assert.Equal(t, 299.0, raw["total_amount"])
}

func TestBookingEndpointsAuthorization(t *testing.T) {
	f := newFixture(t, 150, 180)
	engine := newBookingEngine(f)
	janes := f.book(t, f.jane, "Jane Doe", nil)

	janeToken := testutil.AccessToken(t, f.jane.UserID, f.jane.Email, users.RoleUser)
	johnToken := testutil.AccessToken(t, f.john.UserID, f.john.Email, users.RoleUser)
	adminToken := testutil.AccessToken(t, f.admin.UserID, f.admin.Email, users.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous create", http.MethodPost, "/api/bookings", "", http.StatusUnauthorized},
		{"list all as user", http.MethodGet, "/api/bookings", janeToken, http.StatusForbidden},
		{"list all as admin", http.MethodGet, "/api/bookings", adminToken, http.StatusOK},
		{"own list", http.MethodGet, "/api/users/" + f.jane.UserID.String() + "/bookings", janeToken, http.StatusOK},
		{"someone else's list", http.MethodGet, "/api/users/" + f.jane.UserID.String() + "/bookings", johnToken, http.StatusForbidden},
		{"someone else's booking", http.MethodGet, "/api/bookings/" + janes.ID.String(), johnToken, http.StatusForbidden},
		{"malformed id", http.MethodGet, "/api/bookings/not-a-uuid", janeToken, http.StatusBadRequest},
		{"cancel someone else's", http.MethodDelete, "/api/bookings/" + janes.ID.String(), johnToken, http.StatusForbidden},
		{"cancel own", http.MethodDelete, "/api/bookings/" + janes.ID.String(), janeToken, http.StatusOK},
		{"cancel twice", http.MethodDelete, "/api/bookings/" + janes.ID.String(), janeToken, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			engine.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
