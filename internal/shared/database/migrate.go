package database

import (
	"skybook/internal/bookings"
	"skybook/internal/flights"
	"skybook/internal/users"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns. Constraints that
// only PostgreSQL understands are skipped on other dialects.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&users.Profile{},
		&flights.Flight{},
		&bookings.Booking{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return MigrateConstraints(db)
}
