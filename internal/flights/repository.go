package flights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, flight *Flight) error
	GetByID(ctx context.Context, id uuid.UUID) (*Flight, error)
	GetByFlightNumber(ctx context.Context, flightNumber string) (*Flight, error)
	FlightNumberExists(ctx context.Context, flightNumber string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context) ([]Flight, error)
	Search(ctx context.Context, filter SearchFilter) ([]Flight, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Flight, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, flight *Flight) error {
	return r.db.WithContext(ctx).Create(flight).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Flight, error) {
	var flight Flight
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&flight).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &flight, nil
}

func (r *repository) GetByFlightNumber(ctx context.Context, flightNumber string) (*Flight, error) {
	var flight Flight
	err := r.db.WithContext(ctx).Where("flight_number = ?", NormalizeFlightNumber(flightNumber)).First(&flight).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &flight, nil
}

func (r *repository) FlightNumberExists(ctx context.Context, flightNumber string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&Flight{}).Where("flight_number = ?", NormalizeFlightNumber(flightNumber))
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context) ([]Flight, error) {
	flights := []Flight{}
	err := r.db.WithContext(ctx).Order("departure_time ASC").Find(&flights).Error
	return flights, err
}

func (r *repository) Search(ctx context.Context, filter SearchFilter) ([]Flight, error) {
	flights := []Flight{}
	db := r.db.WithContext(ctx).Model(&Flight{})

	// Case-insensitive substring match; wildcards in user input are literal
	if filter.Origin != "" {
		db = db.Where(`LOWER(origin) LIKE ? ESCAPE '\'`, containsPattern(filter.Origin))
	}
	if filter.Destination != "" {
		db = db.Where(`LOWER(destination) LIKE ? ESCAPE '\'`, containsPattern(filter.Destination))
	}
	if filter.Date != nil {
		start, end := DayRange(*filter.Date)
		db = db.Where("departure_time >= ? AND departure_time < ?", start, end)
	}

	err := db.Order("departure_time ASC").Find(&flights).Error
	return flights, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Flight, error) {
	var flight Flight

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&flight).Error; err != nil {
			return err
		}
		if err := tx.Model(&flight).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&flight).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}

	return &flight, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Bookings go with their flight
		if err := tx.Exec("DELETE FROM bookings WHERE flight_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete flight bookings: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&Flight{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete flight: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrFlightNotFound
		}
		return nil
	})
}

func containsPattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(term)) + "%"
}
