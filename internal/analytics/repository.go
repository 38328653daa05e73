package analytics

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	// GetAdminStats aggregates flights and bookings. TotalUsers is left zero.
	GetAdminStats(ctx context.Context) (*AdminStats, error)
	CountUsers(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	type flightAggregate struct {
		TotalFlights   int64
		TotalSeats     int64
		AvailableSeats int64
		Revenue        float64
	}

	var agg flightAggregate
	if err := r.db.WithContext(ctx).
		Table("flights").
		Select(`COUNT(*) AS total_flights,
			COALESCE(SUM(total_seats), 0) AS total_seats,
			COALESCE(SUM(available_seats), 0) AS available_seats,
			COALESCE(SUM(price * (total_seats - available_seats)), 0) AS revenue`).
		Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate flights: %w", err)
	}

	stats := &AdminStats{
		TotalFlights:   agg.TotalFlights,
		TotalSeats:     agg.TotalSeats,
		AvailableSeats: agg.AvailableSeats,
		OccupiedSeats:  agg.TotalSeats - agg.AvailableSeats,
		Revenue:        agg.Revenue,
	}

	if err := r.db.WithContext(ctx).Table("bookings").Count(&stats.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	return stats, nil
}

func (r *repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("users").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
