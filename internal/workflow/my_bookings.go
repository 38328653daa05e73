package workflow

import (
	"context"

	"skybook/pkg/client"
)

// MyBookings lists the signed-in user's bookings
type MyBookings struct {
	api      BookingAPI
	session  SessionState
	Bookings []client.Booking
}

func NewMyBookings(api BookingAPI, session SessionState) *MyBookings {
	return &MyBookings{api: api, session: session}
}

func (m *MyBookings) Load(ctx context.Context) Outcome {
	state := m.session.Snapshot()
	if !state.IsAuthenticated() {
		return Outcome{Redirect: RouteLogin}
	}

	bookings, err := m.api.ListUserBookings(ctx, state.User.ID)
	if err != nil {
		outcome := failure("Error", "Failed to load bookings. Please try again.")
		if client.IsUnauthorized(err) {
			outcome.Redirect = RouteLogin
		}
		return outcome
	}
	m.Bookings = bookings
	return Outcome{}
}

// Cancel deletes the booking and drops it from the list
func (m *MyBookings) Cancel(ctx context.Context, bookingID string) Outcome {
	if err := m.api.DeleteBooking(ctx, bookingID); err != nil {
		outcome := failure("Error", "Failed to cancel booking. Please try again.")
		if client.IsUnauthorized(err) {
			outcome.Redirect = RouteLogin
		}
		return outcome
	}

	kept := m.Bookings[:0]
	for _, booking := range m.Bookings {
		if booking.ID != bookingID {
			kept = append(kept, booking)
		}
	}
	m.Bookings = kept
	return notice("Booking Cancelled", "Your booking has been cancelled successfully.")
}
