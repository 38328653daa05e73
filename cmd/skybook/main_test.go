package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"skybook/api/routes"
	"skybook/internal/flights"
	"skybook/internal/shared/database"
	"skybook/internal/shared/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// setup starts the data service, seeds one flight and points the CLI at it
// with a session file private to the test
func setup(t *testing.T) {
	t.Helper()

	db := testutil.NewDB(t)
	router := routes.NewRouter(testutil.Config(), &database.DB{PostgreSQL: db})
	engine := gin.New()
	router.SetupRoutes(engine)
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	departure := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	_, err := flights.NewService(flights.NewRepository(db)).CreateFlight(context.Background(), uuid.New(), flights.CreateFlightRequest{
		FlightNumber:   "SK101",
		Origin:         "New York (JFK)",
		Destination:    "Los Angeles (LAX)",
		DepartureTime:  departure,
		ArrivalTime:    departure.Add(6 * time.Hour),
		Duration:       "6h 0m",
		Aircraft:       "Boeing 737",
		Price:          299,
		TotalSeats:     180,
		AvailableSeats: intPtr(180),
	})
	require.NoError(t, err)

	t.Setenv("SKYBOOK_API_URL", server.URL+"/api")
	t.Setenv("SKYBOOK_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
}

func runCommand(t *testing.T, command string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), command, args, &out)
	return out.String(), err
}

func TestUnknownCommand(t *testing.T) {
	setup(t)

	_, err := runCommand(t, "fly")
	var usageErr usageError
	assert.ErrorAs(t, err, &usageErr)
}

func TestBookingFlowAcrossInvocations(t *testing.T) {
	setup(t)

	out, err := runCommand(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not signed in\n", out)

	_, err = runCommand(t, "book", "-flight", "SK101")
	assert.Error(t, err, "booking requires a session")

	out, err = runCommand(t, "register", "-email", "jane@example.com", "-password", "secret123", "-first", "Jane", "-last", "Doe")
	require.NoError(t, err)
	assert.Equal(t, "Welcome, Jane!\n", out)

	// the session file carries the login into the next process
	out, err = runCommand(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe <jane@example.com> (user)\n", out)

	out, err = runCommand(t, "search", "-origin", "new york", "-date", "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, out, "SK101")
	assert.Contains(t, out, "180/180")

	out, err = runCommand(t, "search", "-origin", "tokyo")
	require.NoError(t, err)
	assert.Contains(t, out, "No flights found")

	out, err = runCommand(t, "book", "-flight", "SK101", "-seat", " 12A ")
	require.NoError(t, err)
	assert.Contains(t, out, "Booking Confirmed!")
	assert.Regexp(t, regexp.MustCompile(`Reference SKY-\d{8}-[A-Z0-9]{6}, total \$299\.00`), out)

	out, err = runCommand(t, "bookings")
	require.NoError(t, err)
	assert.Contains(t, out, "New York (JFK) -> Los Angeles (LAX)")
	assert.Contains(t, out, "12A")

	id := regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`).FindString(out)
	require.NotEmpty(t, id)

	out, err = runCommand(t, "cancel", "-id", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Booking Cancelled")

	out, err = runCommand(t, "bookings")
	require.NoError(t, err)
	assert.Contains(t, out, "No bookings found")

	_, err = runCommand(t, "admin", "stats")
	assert.Error(t, err, "regular users cannot open the dashboard")

	out, err = runCommand(t, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Signed out\n", out)

	out, err = runCommand(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not signed in\n", out)
}
