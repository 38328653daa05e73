package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"skybook/internal/auth"
	"skybook/internal/bookings"
	"skybook/internal/flights"
	"skybook/internal/shared/config"
	"skybook/internal/shared/database"
	"skybook/internal/users"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "qwerty"

type Seeder struct {
	db *database.DB
}

func main() {
	clean := flag.Bool("clean", true, "truncate tables before seeding")
	flag.Parse()

	fmt.Println("Starting SkyBook database seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}
	ctx := context.Background()

	if *clean {
		fmt.Println("\nCleaning database...")
		if err := seeder.CleanDatabase(ctx); err != nil {
			log.Fatalf("Failed to clean database: %v", err)
		}
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(ctx); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Printf("\nDone. Every seeded account uses the password %q.\n", seedPassword)
}

// CleanDatabase truncates every table the service owns, children first
func (s *Seeder) CleanDatabase(ctx context.Context) error {
	tables := []string{"bookings", "flights", "profiles", "users"}

	return s.db.PostgreSQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds users, flights and one sample booking
func (s *Seeder) SeedAll(ctx context.Context) error {
	userIDs, err := s.SeedUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	flightIDs, err := s.SeedFlights(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed flights: %w", err)
	}

	if err := s.SeedBookings(ctx, userIDs["user"], flightIDs["SK101"]); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	// Cached flight payloads are stale after a reseed
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates one admin and one regular user, each with a profile
func (s *Seeder) SeedUsers(ctx context.Context) (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Ada", "Admin", "admin@skybook.dev", users.RoleAdmin},
		{"user", "Jane", "Traveller", "jane@skybook.dev", users.RoleUser},
	}

	repo := auth.NewRepository(s.db.PostgreSQL)
	userIDs := make(map[string]uuid.UUID, len(usersData))

	for _, data := range usersData {
		user := &users.User{Email: data.email, Password: string(hashedPassword)}
		profile := &users.Profile{
			FirstName: data.firstName,
			LastName:  data.lastName,
			Email:     data.email,
			Role:      data.role,
		}
		if err := repo.CreateUserWithProfile(ctx, user, profile); err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", data.email, err)
		}

		userIDs[data.key] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", data.email, data.role)
	}

	return userIDs, nil
}

// SeedFlights creates the sample timetable
func (s *Seeder) SeedFlights(ctx context.Context) (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding flights...")

	at := func(value string) time.Time {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			panic(err)
		}
		return t
	}

	flightsData := []flights.Flight{
		{FlightNumber: "SK101", Origin: "NYC", Destination: "LAX",
			DepartureTime: at("2024-06-01T09:00:00Z"), ArrivalTime: at("2024-06-01T15:30:00Z"),
			Duration: "6h 30m", Aircraft: "Boeing 737", Price: 299, AvailableSeats: 150, TotalSeats: 180},
		{FlightNumber: "SK102", Origin: "LAX", Destination: "NYC",
			DepartureTime: at("2024-06-02T08:00:00Z"), ArrivalTime: at("2024-06-02T13:45:00Z"),
			Duration: "5h 45m", Aircraft: "Boeing 737", Price: 289, AvailableSeats: 25, TotalSeats: 180},
		{FlightNumber: "SK201", Origin: "ORD", Destination: "MIA",
			DepartureTime: at("2024-06-01T12:15:00Z"), ArrivalTime: at("2024-06-01T16:20:00Z"),
			Duration: "3h 05m", Aircraft: "Airbus A320", Price: 189, AvailableSeats: 120, TotalSeats: 150},
		{FlightNumber: "SK305", Origin: "SFO", Destination: "SEA",
			DepartureTime: at("2024-06-03T17:40:00Z"), ArrivalTime: at("2024-06-03T19:50:00Z"),
			Duration: "2h 10m", Aircraft: "Embraer E175", Price: 129, AvailableSeats: 8, TotalSeats: 76},
		{FlightNumber: "SK410", Origin: "BOS", Destination: "LHR",
			DepartureTime: at("2024-06-05T22:00:00Z"), ArrivalTime: at("2024-06-06T09:05:00Z"),
			Duration: "6h 05m", Aircraft: "Boeing 787", Price: 649, AvailableSeats: 210, TotalSeats: 242},
	}

	repo := flights.NewRepository(s.db.PostgreSQL)
	flightIDs := make(map[string]uuid.UUID, len(flightsData))

	for i := range flightsData {
		flight := &flightsData[i]
		if err := repo.Create(ctx, flight); err != nil {
			return nil, fmt.Errorf("failed to create flight %s: %w", flight.FlightNumber, err)
		}
		flightIDs[flight.FlightNumber] = flight.ID
		fmt.Printf("    Created flight: %s %s -> %s\n", flight.FlightNumber, flight.Origin, flight.Destination)
	}

	return flightIDs, nil
}

// SeedBookings books one seat for the regular user through the booking service
func (s *Seeder) SeedBookings(ctx context.Context, userID, flightID uuid.UUID) error {
	fmt.Println("  Seeding bookings...")

	service := bookings.NewService(bookings.NewRepository(s.db.PostgreSQL))
	seat := "12A"
	booking, err := service.CreateBooking(ctx,
		bookings.Requester{UserID: userID, Email: "jane@skybook.dev"},
		bookings.CreateBookingRequest{
			FlightID:      flightID.String(),
			PassengerName: "Jane Traveller",
			SeatNumber:    &seat,
		},
	)
	if err != nil {
		return err
	}

	fmt.Printf("    Created booking: %s\n", booking.BookingReference)
	return nil
}
