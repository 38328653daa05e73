package flights

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type CreateFlightRequest struct {
	FlightNumber   string    `json:"flight_number" binding:"required,min=2,max=16"`
	Origin         string    `json:"origin" binding:"required,max=100"`
	Destination    string    `json:"destination" binding:"required,max=100"`
	DepartureTime  time.Time `json:"departure_time" binding:"required"`
	ArrivalTime    time.Time `json:"arrival_time" binding:"required"`
	Duration       string    `json:"duration" binding:"max=32"`
	Aircraft       string    `json:"aircraft" binding:"max=100"`
	Price          float64   `json:"price" binding:"min=0"`
	TotalSeats     int       `json:"total_seats" binding:"required,min=1,max=1000"`
	AvailableSeats *int      `json:"available_seats" binding:"omitempty,min=0"` // defaults to total_seats
}

type UpdateFlightRequest struct {
	FlightNumber   *string    `json:"flight_number" binding:"omitempty,min=2,max=16"`
	Origin         *string    `json:"origin" binding:"omitempty,max=100"`
	Destination    *string    `json:"destination" binding:"omitempty,max=100"`
	DepartureTime  *time.Time `json:"departure_time"`
	ArrivalTime    *time.Time `json:"arrival_time"`
	Duration       *string    `json:"duration" binding:"omitempty,max=32"`
	Aircraft       *string    `json:"aircraft" binding:"omitempty,max=100"`
	Price          *float64   `json:"price" binding:"omitempty,min=0"`
	TotalSeats     *int       `json:"total_seats" binding:"omitempty,min=1,max=1000"`
	AvailableSeats *int       `json:"available_seats" binding:"omitempty,min=0"`
}

type SearchQuery struct {
	Origin      string `form:"origin"`
	Destination string `form:"destination"`
	Date        string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ToFilter parses the raw query into a SearchFilter
func (q SearchQuery) ToFilter() (SearchFilter, error) {
	filter := SearchFilter{}
	// An empty filter means "match everything"
	if origin := strings.TrimSpace(q.Origin); origin != "" {
		filter.Origin = origin
	}
	if destination := strings.TrimSpace(q.Destination); destination != "" {
		filter.Destination = destination
	}
	if date := strings.TrimSpace(q.Date); date != "" {
		d, err := time.ParseInLocation(DateLayout, date, time.UTC)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.Date = &d
	}
	return filter, nil
}
