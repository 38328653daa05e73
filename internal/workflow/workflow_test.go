package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"skybook/internal/session"
	"skybook/pkg/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListFlights(ctx context.Context) ([]client.Flight, error) {
	args := m.Called(ctx)
	flights, _ := args.Get(0).([]client.Flight)
	return flights, args.Error(1)
}

func (m *mockAPI) SearchFlights(ctx context.Context, params client.SearchParams) ([]client.Flight, error) {
	args := m.Called(ctx, params)
	flights, _ := args.Get(0).([]client.Flight)
	return flights, args.Error(1)
}

func (m *mockAPI) CreateFlight(ctx context.Context, req client.NewFlight) (*client.Flight, error) {
	args := m.Called(ctx, req)
	flight, _ := args.Get(0).(*client.Flight)
	return flight, args.Error(1)
}

func (m *mockAPI) CreateBooking(ctx context.Context, req client.NewBooking) (*client.Booking, error) {
	args := m.Called(ctx, req)
	booking, _ := args.Get(0).(*client.Booking)
	return booking, args.Error(1)
}

func (m *mockAPI) ListUserBookings(ctx context.Context, userID string) ([]client.Booking, error) {
	args := m.Called(ctx, userID)
	bookings, _ := args.Get(0).([]client.Booking)
	return bookings, args.Error(1)
}

func (m *mockAPI) DeleteBooking(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAPI) GetProfile(ctx context.Context, userID string) (*client.Profile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*client.Profile)
	return profile, args.Error(1)
}

func (m *mockAPI) UpdateProfile(ctx context.Context, userID string, req client.ProfileUpdate) (*client.Profile, error) {
	args := m.Called(ctx, userID, req)
	profile, _ := args.Get(0).(*client.Profile)
	return profile, args.Error(1)
}

type staticSession session.State

func (s staticSession) Snapshot() session.State { return session.State(s) }

var (
	signedOut = staticSession{Ready: true}
	janeState = staticSession{
		Ready:   true,
		User:    &client.User{ID: "u-jane", Email: "jane@skybook.dev", Role: "user"},
		Profile: &client.Profile{UserID: "u-jane", FirstName: "Jane", LastName: "Doe", Role: "user"},
	}
	adminState = staticSession{
		Ready:   true,
		User:    &client.User{ID: "u-admin", Email: "admin@skybook.dev", Role: "admin"},
		Profile: &client.Profile{UserID: "u-admin", FirstName: "Ada", LastName: "Admin", Role: "admin"},
	}
	errUnauthorized = &client.APIError{StatusCode: 401, Message: "invalid or expired token"}
)

func sk101() client.Flight {
	return client.Flight{
		ID:             "f-1",
		FlightNumber:   "SK101",
		Origin:         "New York",
		Destination:    "Los Angeles",
		DepartureTime:  time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		Price:          299,
		AvailableSeats: 150,
		TotalSeats:     180,
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	home := NewHome(api)

	api.On("ListFlights", ctx).Return([]client.Flight{sk101()}, nil).Once()
	require.Equal(t, Outcome{}, home.Load(ctx))
	assert.Empty(t, home.EmptyMessage())

	form := SearchForm{
		Origin:        "New York",
		Destination:   "Los Angeles",
		DepartureDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		TripType:      TripRoundTrip,
		Passengers:    2,
	}
	api.On("SearchFlights", ctx, client.SearchParams{Origin: "New York", Destination: "Los Angeles", Date: "2024-06-01"}).
		Return([]client.Flight{}, nil).Once()
	assert.Equal(t, Outcome{}, home.Search(ctx, form))
	assert.Equal(t, NoFlightsMessage, home.EmptyMessage())

	// a failed search keeps what was on screen
	home.Flights = []client.Flight{sk101()}
	api.On("SearchFlights", ctx, client.SearchParams{Origin: "Boston"}).Return(nil, errors.New("boom")).Once()
	outcome := home.Search(ctx, SearchForm{Origin: "Boston"})
	require.NotNil(t, outcome.Notification)
	assert.Equal(t, "Search Error", outcome.Notification.Title)
	assert.Equal(t, VariantDestructive, outcome.Notification.Variant)
	assert.Len(t, home.Flights, 1)

	api.AssertExpectations(t)
}

func TestBookingSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("signed out is sent to login", func(t *testing.T) {
		api := new(mockAPI)
		screen := SelectFlight(api, signedOut, sk101())

		outcome := screen.Submit(ctx, "Jane Doe", "")
		assert.Equal(t, RouteLogin, outcome.Redirect)
		assert.Equal(t, "Login Required", outcome.Notification.Title)
		api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("blank seat is sent as null", func(t *testing.T) {
		api := new(mockAPI)
		screen := SelectFlight(api, janeState, sk101())
		assert.Equal(t, "Jane Doe", screen.PassengerName)

		api.On("CreateBooking", ctx, client.NewBooking{FlightID: "f-1", PassengerName: "Jane Doe"}).
			Return(&client.Booking{ID: "b-1", TotalAmount: 299}, nil).Once()

		outcome := screen.Submit(ctx, "Jane Doe", "   ")
		assert.Equal(t, RouteBookings, outcome.Redirect)
		assert.Equal(t, &Notification{
			Title:       "Booking Confirmed!",
			Description: "Your flight has been booked successfully.",
			Variant:     VariantDefault,
		}, outcome.Notification)
		assert.Equal(t, "b-1", screen.Booking.ID)
		api.AssertExpectations(t)
	})

	t.Run("seat is trimmed", func(t *testing.T) {
		api := new(mockAPI)
		screen := SelectFlight(api, janeState, sk101())
		api.On("CreateBooking", ctx, mock.MatchedBy(func(req client.NewBooking) bool {
			return req.SeatNumber != nil && *req.SeatNumber == "12A"
		})).Return(&client.Booking{ID: "b-2"}, nil).Once()

		screen.Submit(ctx, "Jane Doe", " 12A ")
		api.AssertExpectations(t)
	})

	t.Run("failures", func(t *testing.T) {
		api := new(mockAPI)
		screen := SelectFlight(api, janeState, sk101())
		api.On("CreateBooking", ctx, mock.Anything).Return(nil, errors.New("no seats available")).Once()
		api.On("CreateBooking", ctx, mock.Anything).Return(nil, errUnauthorized).Once()

		outcome := screen.Submit(ctx, "Jane Doe", "")
		assert.Equal(t, "Booking Failed", outcome.Notification.Title)
		assert.Empty(t, outcome.Redirect)

		outcome = screen.Submit(ctx, "Jane Doe", "")
		assert.Equal(t, RouteLogin, outcome.Redirect)
		assert.Nil(t, screen.Booking)
	})
}

func TestMyBookings(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, Outcome{Redirect: RouteLogin}, NewMyBookings(new(mockAPI), signedOut).Load(ctx))

	api := new(mockAPI)
	page := NewMyBookings(api, janeState)
	api.On("ListUserBookings", ctx, "u-jane").Return([]client.Booking{{ID: "b-1"}, {ID: "b-2"}}, nil).Once()
	require.Equal(t, Outcome{}, page.Load(ctx))

	api.On("DeleteBooking", ctx, "b-1").Return(nil).Once()
	outcome := page.Cancel(ctx, "b-1")
	assert.Equal(t, "Booking Cancelled", outcome.Notification.Title)
	assert.Equal(t, []client.Booking{{ID: "b-2"}}, page.Bookings)

	api.On("DeleteBooking", ctx, "b-2").Return(errors.New("boom")).Once()
	outcome = page.Cancel(ctx, "b-2")
	assert.Equal(t, VariantDestructive, outcome.Notification.Variant)
	assert.Len(t, page.Bookings, 1)

	api.AssertExpectations(t)
}

func TestProfilePage(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	page := NewProfilePage(api, janeState)

	api.On("GetProfile", ctx, "u-jane").Return(janeState.Profile, nil).Once()
	require.Equal(t, Outcome{}, page.Load(ctx))

	outcome := page.Update(ctx, " ", "")
	assert.Equal(t, VariantDestructive, outcome.Notification.Variant)

	first := "Janet"
	updated := &client.Profile{UserID: "u-jane", FirstName: "Janet", LastName: "Doe", Role: "user"}
	api.On("UpdateProfile", ctx, "u-jane", client.ProfileUpdate{FirstName: &first}).Return(updated, nil).Once()
	outcome = page.Update(ctx, " Janet ", "")
	assert.Equal(t, "Profile Updated", outcome.Notification.Title)
	assert.Equal(t, "Janet", page.Profile.FirstName)

	api.AssertExpectations(t)
}

func TestAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("non admin is denied", func(t *testing.T) {
		api := new(mockAPI)
		admin := NewAdmin(api, janeState)
		assert.Equal(t, Outcome{AccessDenied: true}, admin.Load(ctx))
		assert.Equal(t, Outcome{AccessDenied: true}, admin.CreateFlight(ctx, FlightForm{}))
		api.AssertNotCalled(t, "ListFlights", mock.Anything)
	})

	t.Run("stats and create", func(t *testing.T) {
		api := new(mockAPI)
		admin := NewAdmin(api, adminState)

		sk102 := client.Flight{ID: "f-2", FlightNumber: "SK102", Price: 100, AvailableSeats: 20, TotalSeats: 20}
		api.On("ListFlights", ctx).Return([]client.Flight{sk101(), sk102}, nil).Once()
		require.Equal(t, Outcome{}, admin.Load(ctx))

		assert.Equal(t, Stats{TotalFlights: 2, TotalSeats: 200, OccupiedSeats: 30, Revenue: 8970}, admin.Stats())

		created := &client.Flight{ID: "f-3", FlightNumber: "SK303", TotalSeats: 50, AvailableSeats: 50}
		api.On("CreateFlight", ctx, mock.MatchedBy(func(req client.NewFlight) bool {
			return req.FlightNumber == "SK303" && req.AvailableSeats != nil && *req.AvailableSeats == 50
		})).Return(created, nil).Once()

		outcome := admin.CreateFlight(ctx, FlightForm{FlightNumber: "SK303", TotalSeats: 50})
		assert.Equal(t, "Flight Created", outcome.Notification.Title)
		assert.Len(t, admin.Flights, 3)

		assert.Equal(t, "Edit Flight", admin.EditFlight(*created).Notification.Title)
		assert.Equal(t, "Delete Flight", admin.DeleteFlight(*created).Notification.Title)
		api.AssertExpectations(t)
	})
}

func TestNavigation(t *testing.T) {
	labels := func(items []NavItem) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, item.Label)
		}
		return out
	}

	assert.Equal(t, []string{"Home", "Login", "Register"}, labels(Navigation(signedOut.Snapshot())))
	assert.Equal(t, []string{"Home", "My Bookings", "Profile", LogoutLabel}, labels(Navigation(janeState.Snapshot())))
	assert.Equal(t, []string{"Home", "Admin", "My Bookings", "Profile", LogoutLabel}, labels(Navigation(adminState.Snapshot())))
}

func TestAvailabilityLevel(t *testing.T) {
	tests := []struct {
		available, total int
		want             Availability
	}{
		{150, 180, AvailabilityHigh},
		{90, 180, AvailabilityMedium},
		{37, 180, AvailabilityMedium},
		{36, 180, AvailabilityLow},
		{0, 180, AvailabilityLow},
		{5, 0, AvailabilityLow},
	}
	for _, tt := range tests {
		got := AvailabilityLevel(client.Flight{AvailableSeats: tt.available, TotalSeats: tt.total})
		assert.Equal(t, tt.want, got, "%d/%d", tt.available, tt.total)
	}
}

func TestFormatting(t *testing.T) {
	ts := time.Date(2024, 6, 1, 21, 5, 0, 0, time.UTC)
	assert.Equal(t, "09:05 PM", FormatTime(ts))
	assert.Equal(t, "Jun 1", FormatDate(ts))
	assert.Equal(t, "June 1, 2024 at 09:05 PM", FormatDateTime(ts))
}
