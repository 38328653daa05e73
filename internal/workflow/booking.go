package workflow

import (
	"context"
	"strings"

	"skybook/pkg/client"
)

// BookingAPI creates, lists and cancels bookings
type BookingAPI interface {
	CreateBooking(ctx context.Context, req client.NewBooking) (*client.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]client.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// BookingScreen books one seat on the flight it was opened with. The flight
// is not fetched again.
type BookingScreen struct {
	api     BookingAPI
	session SessionState

	Flight        client.Flight
	PassengerName string
	Booking       *client.Booking
}

// SelectFlight opens the booking screen with the passenger name taken from the
// loaded profile
func SelectFlight(api BookingAPI, session SessionState, flight client.Flight) *BookingScreen {
	screen := &BookingScreen{api: api, session: session, Flight: flight}
	if profile := session.Snapshot().Profile; profile != nil {
		screen.PassengerName = strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	}
	return screen
}

// Submit creates the booking. A blank seat is sent as null. Nothing is kept
// when the user has to sign in first.
func (b *BookingScreen) Submit(ctx context.Context, passengerName, seatNumber string) Outcome {
	if !b.session.Snapshot().IsAuthenticated() {
		outcome := failure("Login Required", "Please log in to make a booking.")
		outcome.Redirect = RouteLogin
		return outcome
	}

	req := client.NewBooking{
		FlightID:      b.Flight.ID,
		PassengerName: passengerName,
	}
	if seat := strings.TrimSpace(seatNumber); seat != "" {
		req.SeatNumber = &seat
	}

	booking, err := b.api.CreateBooking(ctx, req)
	if err != nil {
		outcome := failure("Booking Failed", "Failed to create booking. Please try again.")
		if client.IsUnauthorized(err) {
			outcome.Redirect = RouteLogin
		}
		return outcome
	}

	b.Booking = booking
	outcome := notice("Booking Confirmed!", "Your flight has been booked successfully.")
	outcome.Redirect = RouteBookings
	return outcome
}
