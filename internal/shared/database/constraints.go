package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints backs the seat counter invariant with a CHECK so a
// concurrent writer can never push available_seats out of range
func MigrateConstraints(db *gorm.DB) error {
	err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'chk_flights_seat_range'
			) THEN
				ALTER TABLE flights
				ADD CONSTRAINT chk_flights_seat_range
				CHECK (available_seats >= 0 AND available_seats <= total_seats);
			END IF;
		END $$;
	`).Error
	if err != nil {
		return err
	}

	// User bookings are listed newest first
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_created
		ON bookings (user_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_flights_departure_time
		ON flights (departure_time);
	`).Error
}
