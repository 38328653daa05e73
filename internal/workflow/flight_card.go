package workflow

import (
	"time"

	"skybook/pkg/client"
)

type Availability string

const (
	AvailabilityHigh   Availability = "high"
	AvailabilityMedium Availability = "medium"
	AvailabilityLow    Availability = "low"
)

// AvailabilityLevel grades a flight by its share of open seats: above 50% is
// high, above 20% medium, anything else low. Counts are taken as stored.
func AvailabilityLevel(f client.Flight) Availability {
	if f.TotalSeats <= 0 {
		return AvailabilityLow
	}
	percentage := float64(f.AvailableSeats) / float64(f.TotalSeats) * 100
	switch {
	case percentage > 50:
		return AvailabilityHigh
	case percentage > 20:
		return AvailabilityMedium
	default:
		return AvailabilityLow
	}
}

// FormatTime renders a clock time such as "09:00 AM"
func FormatTime(t time.Time) string {
	return t.Format("03:04 PM")
}

// FormatDate renders a short date such as "Jun 1"
func FormatDate(t time.Time) string {
	return t.Format("Jan 2")
}

// FormatDateTime renders a full timestamp such as "June 1, 2024 at 09:00 AM"
func FormatDateTime(t time.Time) string {
	return t.Format("January 2, 2006 at 03:04 PM")
}
