package flights

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Flight struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FlightNumber   string    `json:"flight_number" gorm:"uniqueIndex;not null;size:16"`
	Origin         string    `json:"origin" gorm:"not null;size:100;index"`
	Destination    string    `json:"destination" gorm:"not null;size:100;index"`
	DepartureTime  time.Time `json:"departure_time" gorm:"not null;index"`
	ArrivalTime    time.Time `json:"arrival_time" gorm:"not null"`
	Duration       string    `json:"duration" gorm:"size:32"`
	Aircraft       string    `json:"aircraft" gorm:"size:100"`
	Price          float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	AvailableSeats int       `json:"available_seats" gorm:"not null"`
	TotalSeats     int       `json:"total_seats" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SearchFilter is a parsed search. Zero-valued fields are not applied.
type SearchFilter struct {
	Origin      string
	Destination string
	Date        *time.Time
}

func (f *Flight) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.FlightNumber = NormalizeFlightNumber(f.FlightNumber)
	f.DepartureTime = f.DepartureTime.UTC()
	f.ArrivalTime = f.ArrivalTime.UTC()
	return nil
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}

// OccupiedSeats is the number of seats no longer available
func (f *Flight) OccupiedSeats() int {
	return f.TotalSeats - f.AvailableSeats
}

func NormalizeFlightNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}

// DayRange returns the UTC window [00:00, next day 00:00) containing t
func DayRange(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
