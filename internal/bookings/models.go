package bookings

import (
	"time"

	"skybook/internal/flights"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusPending   Status = "pending"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusPending:
		return true
	}
	return false
}

// HoldsSeat reports whether a booking in this status occupies a seat on its flight
func (s Status) HoldsSeat() bool {
	return s == StatusConfirmed || s == StatusPending
}

// Booking defines the main booking structure
type Booking struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingReference string    `gorm:"uniqueIndex;not null;size:32" json:"booking_reference"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	FlightID         uuid.UUID `gorm:"type:uuid;index;not null" json:"flight_id"`
	PassengerName    string    `gorm:"not null;size:200" json:"passenger_name"`
	SeatNumber       *string   `gorm:"size:8" json:"seat_number"`
	Status           Status    `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	BookingDate      time.Time `gorm:"not null" json:"booking_date"`
	TotalAmount      float64   `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relationships
	Flight *flights.Flight `gorm:"foreignKey:FlightID" json:"flight,omitempty"`
}

// Requester identifies who is acting on a booking
type Requester struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

// CanAccess reports whether the requester owns the booking or is an admin
func (r Requester) CanAccess(ownerID uuid.UUID) bool {
	return r.IsAdmin || r.UserID == ownerID
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusConfirmed
	}
	if b.BookingDate.IsZero() {
		b.BookingDate = time.Now().UTC()
	}
	return nil
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}
