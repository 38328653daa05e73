package notifications

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
)

// BookingEvent is the message written to the booking topic. It carries
// everything a consumer needs so no lookup back into the database is required.
type BookingEvent struct {
	Type             EventType `json:"type"`
	BookingID        string    `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	UserID           string    `json:"user_id"`
	RecipientEmail   string    `json:"recipient_email,omitempty"`
	PassengerName    string    `json:"passenger_name"`
	SeatNumber       *string   `json:"seat_number,omitempty"`
	TotalAmount      float64   `json:"total_amount"`

	FlightID      string    `json:"flight_id"`
	FlightNumber  string    `json:"flight_number"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`

	OccurredAt time.Time `json:"occurred_at"`
}

// PartitionKey keeps all events of one booking on the same partition
func (e *BookingEvent) PartitionKey() string {
	return e.BookingID
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *BookingEvent) Subject() string {
	switch e.Type {
	case EventBookingCancelled:
		return "Booking cancelled: " + e.FlightNumber
	default:
		return "Booking confirmed: " + e.FlightNumber
	}
}
