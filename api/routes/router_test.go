package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"skybook/api/routes"
	"skybook/internal/session"
	"skybook/internal/shared/database"
	"skybook/internal/shared/testutil"
	"skybook/internal/users"
	"skybook/internal/workflow"
	"skybook/pkg/client"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	router := routes.NewRouter(testutil.Config(), &database.DB{PostgreSQL: db})
	engine := gin.New()
	router.SetupRoutes(engine)

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return server, db
}

func newClient(t *testing.T, server *httptest.Server) *client.Client {
	t.Helper()
	c, err := client.New(server.URL + "/api")
	require.NoError(t, err)
	return c
}

func register(t *testing.T, c *client.Client, email, first, last string) {
	t.Helper()
	_, err := c.Register(context.Background(), client.RegisterRequest{
		Email:     email,
		Password:  "secret123",
		FirstName: first,
		LastName:  last,
	})
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	server, _ := newServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSwaggerDocumentsEveryAPIRoute(t *testing.T) {
	db := testutil.NewDB(t)
	engine := gin.New()
	routes.NewRouter(testutil.Config(), &database.DB{PostgreSQL: db}).SetupRoutes(engine)
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "/api", doc.BasePath)

	param := regexp.MustCompile(`:(\w+)`)
	documented := 0
	for _, route := range engine.Routes() {
		if !strings.HasPrefix(route.Path, "/api/") {
			continue
		}
		path := param.ReplaceAllString(strings.TrimPrefix(route.Path, "/api"), "{$1}")
		_, ok := doc.Paths[path][strings.ToLower(route.Method)]
		assert.True(t, ok, "%s %s is missing from the API docs", route.Method, path)
		documented++
	}
	assert.Equal(t, 21, documented)
}

func TestSearchBookAndCancel(t *testing.T) {
	server, db := newServer(t)
	ctx := context.Background()

	// the admin signs up as a normal user and is promoted in the database
	admin := newClient(t, server)
	register(t, admin, "admin@skybook.dev", "Ada", "Admin")
	require.NoError(t, db.Model(&users.Profile{}).
		Where("email = ?", "admin@skybook.dev").
		Update("role", users.RoleAdmin).Error)
	_, err := admin.Login(ctx, "admin@skybook.dev", "secret123")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	adminSession := session.NewProvider(admin)
	go adminSession.Run(ctx)
	require.Eventually(t, adminSession.IsAdmin, 2*time.Second, 10*time.Millisecond)

	dashboard := workflow.NewAdmin(admin, adminSession)
	for _, form := range []workflow.FlightForm{
		{
			FlightNumber:  "SK101",
			Origin:        "New York",
			Destination:   "Los Angeles",
			DepartureTime: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			ArrivalTime:   time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC),
			Duration:      "6h 0m",
			Aircraft:      "Boeing 737",
			Price:         299,
			TotalSeats:    180,
		},
		{
			FlightNumber:  "SK103",
			Origin:        "New York",
			Destination:   "Los Angeles",
			DepartureTime: time.Date(2024, 6, 2, 0, 30, 0, 0, time.UTC),
			ArrivalTime:   time.Date(2024, 6, 2, 6, 30, 0, 0, time.UTC),
			Price:         279,
			TotalSeats:    180,
		},
	} {
		outcome := dashboard.CreateFlight(ctx, form)
		require.NotNil(t, outcome.Notification)
		require.Equal(t, "Flight Created", outcome.Notification.Title)
	}

	// a regular user searches, books without a seat and cancels
	jane := newClient(t, server)
	register(t, jane, "jane@skybook.dev", "Jane", "Doe")

	found, err := jane.SearchFlights(ctx, client.SearchParams{Origin: "new york", Destination: "LOS", Date: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "SK101", found[0].FlightNumber)
	assert.Equal(t, 180, found[0].AvailableSeats)

	booking, err := jane.CreateBooking(ctx, client.NewBooking{FlightID: found[0].ID, PassengerName: "Jane Doe"})
	require.NoError(t, err)
	assert.Nil(t, booking.SeatNumber)
	assert.Equal(t, 299.0, booking.TotalAmount)
	assert.Regexp(t, `^SKY-\d{8}-[A-Z]{6}$`, booking.BookingReference)

	flight, err := jane.GetFlight(ctx, "SK101")
	require.NoError(t, err)
	assert.Equal(t, 179, flight.AvailableSeats)

	mine, err := jane.ListUserBookings(ctx, jane.CurrentUser().ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Flight)
	assert.Equal(t, "SK101", mine[0].Flight.FlightNumber)

	quote, err := jane.CalculatePrice(ctx, client.PriceRequest{FlightNumber: "SK101", PassengerCount: 2, SeatClass: "business"})
	require.NoError(t, err)
	assert.Equal(t, 1495.0, quote.TotalPrice)

	_, err = jane.AdminStats(ctx)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	stats, err := admin.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalFlights)
	assert.Equal(t, int64(1), stats.OccupiedSeats)
	assert.Equal(t, 299.0, stats.Revenue)

	require.NoError(t, jane.DeleteBooking(ctx, booking.ID))
	flight, err = jane.GetFlight(ctx, "SK101")
	require.NoError(t, err)
	assert.Equal(t, 180, flight.AvailableSeats)

	// another user cannot see Jane's bookings
	john := newClient(t, server)
	register(t, john, "john@skybook.dev", "John", "Smith")
	_, err = john.ListUserBookings(ctx, jane.CurrentUser().ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}
