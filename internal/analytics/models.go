package analytics

import "time"

// AdminStats is the dashboard summary. Revenue is price times occupied seats
// per flight and does not look at individual bookings.
type AdminStats struct {
	TotalFlights   int64     `json:"total_flights"`
	TotalSeats     int64     `json:"total_seats"`
	AvailableSeats int64     `json:"available_seats"`
	OccupiedSeats  int64     `json:"occupied_seats"`
	Revenue        float64   `json:"revenue"`
	TotalBookings  int64     `json:"total_bookings"`
	TotalUsers     int64     `json:"total_users"`
	GeneratedAt    time.Time `json:"generated_at"`
}
