package bookings

import (
	"context"
	"errors"

	"skybook/internal/flights"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Create inserts the booking and takes one seat from its flight in the same
	// transaction. TotalAmount is set from the flight's price.
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
	// Update applies field changes to the locked row. A "status" change moves a
	// seat when the booking starts or stops holding one; seatDelta reports +1
	// for a seat returned to the flight and -1 for a seat taken.
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (booking *Booking, seatDelta int, err error)
	// Delete removes the locked booking row and returns it as it was at delete
	// time. Its seat goes back to the flight when it still held one.
	Delete(ctx context.Context, id uuid.UUID) (*Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var flight flights.Flight
		if err := tx.Where("id = ?", booking.FlightID).First(&flight).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return flights.ErrFlightNotFound
			}
			return err
		}

		if booking.Status.HoldsSeat() {
			if err := takeSeat(tx, booking.FlightID); err != nil {
				return err
			}
			flight.AvailableSeats--
		}

		booking.TotalAmount = flight.Price
		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		booking.Flight = &flight
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Flight").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.WithContext(ctx).
		Preload("Flight").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListAll(ctx context.Context) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.WithContext(ctx).
		Preload("Flight").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Booking, int, error) {
	var booking Booking
	seatDelta := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBooking(tx, id, &booking); err != nil {
			return err
		}

		if status, ok := updates["status"].(Status); ok {
			switch {
			case booking.Status.HoldsSeat() && !status.HoldsSeat():
				seatDelta = 1
				if err := returnSeat(tx, booking.FlightID); err != nil {
					return err
				}
			case !booking.Status.HoldsSeat() && status.HoldsSeat():
				seatDelta = -1
				if err := takeSeat(tx, booking.FlightID); err != nil {
					return err
				}
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&booking).Updates(updates).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Flight").Where("id = ?", id).First(&booking).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return &booking, seatDelta, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBooking(tx.Preload("Flight"), id, &booking); err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&Booking{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBookingNotFound
		}

		if booking.Status.HoldsSeat() {
			return returnSeat(tx, booking.FlightID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// lockBooking reads the booking row FOR UPDATE so its status cannot change
// until the transaction ends
func lockBooking(tx *gorm.DB, id uuid.UUID, booking *Booking) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookingNotFound
	}
	return err
}

// takeSeat decrements available_seats only while it is positive, so two
// concurrent bookings can never take the last seat twice
func takeSeat(tx *gorm.DB, flightID uuid.UUID) error {
	result := tx.Model(&flights.Flight{}).
		Where("id = ? AND available_seats > 0", flightID).
		Update("available_seats", gorm.Expr("available_seats - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoSeatsAvailable
	}
	return nil
}

func returnSeat(tx *gorm.DB, flightID uuid.UUID) error {
	return tx.Model(&flights.Flight{}).
		Where("id = ? AND available_seats < total_seats", flightID).
		Update("available_seats", gorm.Expr("available_seats + 1")).Error
}
