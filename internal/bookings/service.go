package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"skybook/internal/flights"
	"skybook/internal/notifications"
	"skybook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrForbidden           = errors.New("booking does not belong to user")
	ErrNoSeatsAvailable    = errors.New("no seats available on this flight")
	ErrEmptyBookingChanges = errors.New("no fields to update")
	ErrPassengerRequired   = errors.New("passenger name is required")
)

// FlightCache is the part of the flight service that must hear about seat changes
type FlightCache interface {
	InvalidateCache(ctx context.Context)
}

// Service interface defines the contract for booking business logic
type Service interface {
	SetPublisher(publisher notifications.Publisher)
	SetFlightCache(flightCache FlightCache)

	CreateBooking(ctx context.Context, requester Requester, req CreateBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, requester Requester, bookingID uuid.UUID) (*Booking, error)
	ListUserBookings(ctx context.Context, requester Requester, userID uuid.UUID) ([]Booking, error)
	ListAllBookings(ctx context.Context) ([]Booking, error)
	UpdateBooking(ctx context.Context, requester Requester, bookingID uuid.UUID, req UpdateBookingRequest) (*Booking, error)
	// CancelBooking deletes the booking row and returns its seat to the flight
	CancelBooking(ctx context.Context, requester Requester, bookingID uuid.UUID) error
}

type service struct {
	repo        Repository
	publisher   notifications.Publisher
	flightCache FlightCache
	log         *logger.Logger
}

// NewService creates a new booking service instance
func NewService(repo Repository) Service {
	return &service{
		repo:      repo,
		publisher: notifications.NoopPublisher{},
		log:       logger.GetDefault().WithComponent("bookings"),
	}
}

func (s *service) SetPublisher(publisher notifications.Publisher) {
	s.publisher = publisher
}

func (s *service) SetFlightCache(flightCache FlightCache) {
	s.flightCache = flightCache
}

func (s *service) CreateBooking(ctx context.Context, requester Requester, req CreateBookingRequest) (*Booking, error) {
	flightID, err := uuid.Parse(req.FlightID)
	if err != nil {
		return nil, flights.ErrFlightNotFound
	}

	passenger := strings.TrimSpace(req.PassengerName)
	if passenger == "" {
		return nil, ErrPassengerRequired
	}

	reference, err := generateBookingReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	booking := &Booking{
		BookingReference: reference,
		UserID:           requester.UserID,
		FlightID:         flightID,
		PassengerName:    passenger,
		SeatNumber:       normalizeSeat(req.SeatNumber),
		Status:           StatusConfirmed,
		BookingDate:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, flights.ErrFlightNotFound) || errors.Is(err, ErrNoSeatsAvailable) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.seatsChanged(ctx)
	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.FlightID.String(), booking.UserID.String())
	s.publish(ctx, notifications.EventBookingCreated, booking, requester.Email)
	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, requester Requester, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(booking.UserID) {
		return nil, ErrForbidden
	}
	return booking, nil
}

// ListUserBookings returns the user's bookings newest first, flights embedded
func (s *service) ListUserBookings(ctx context.Context, requester Requester, userID uuid.UUID) ([]Booking, error) {
	if !requester.CanAccess(userID) {
		return nil, ErrForbidden
	}

	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *service) ListAllBookings(ctx context.Context) ([]Booking, error) {
	bookings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *service) UpdateBooking(ctx context.Context, requester Requester, bookingID uuid.UUID, req UpdateBookingRequest) (*Booking, error) {
	if _, err := s.GetBooking(ctx, requester, bookingID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.PassengerName != nil {
		passenger := strings.TrimSpace(*req.PassengerName)
		if passenger == "" {
			return nil, ErrPassengerRequired
		}
		updates["passenger_name"] = passenger
	}
	if req.SeatNumber != nil {
		updates["seat_number"] = normalizeSeat(req.SeatNumber)
	}

	// any seat move is decided against the row as locked by the repository
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		return nil, ErrEmptyBookingChanges
	}

	booking, seatDelta, err := s.repo.Update(ctx, bookingID, updates)
	if err != nil {
		return nil, err
	}

	if seatDelta != 0 {
		s.seatsChanged(ctx)
	}
	if seatDelta > 0 {
		s.publish(ctx, notifications.EventBookingCancelled, booking, requester.Email)
	}
	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, requester Requester, bookingID uuid.UUID) error {
	if _, err := s.GetBooking(ctx, requester, bookingID); err != nil {
		return err
	}

	booking, err := s.repo.Delete(ctx, bookingID)
	if err != nil {
		return err
	}

	s.log.LogBookingCancelled(ctx, booking.ID.String(), booking.FlightID.String(), booking.UserID.String())
	// a booking already moved to cancelled gave its seat back and announced it then
	if booking.Status.HoldsSeat() {
		s.seatsChanged(ctx)
		s.publish(ctx, notifications.EventBookingCancelled, booking, requester.Email)
	}
	return nil
}

func (s *service) seatsChanged(ctx context.Context) {
	if s.flightCache != nil {
		s.flightCache.InvalidateCache(ctx)
	}
}

func (s *service) publish(ctx context.Context, eventType notifications.EventType, booking *Booking, email string) {
	event := &notifications.BookingEvent{
		Type:             eventType,
		BookingID:        booking.ID.String(),
		BookingReference: booking.BookingReference,
		UserID:           booking.UserID.String(),
		RecipientEmail:   email,
		PassengerName:    booking.PassengerName,
		SeatNumber:       booking.SeatNumber,
		TotalAmount:      booking.TotalAmount,
		FlightID:         booking.FlightID.String(),
		OccurredAt:       time.Now().UTC(),
	}
	if booking.Flight != nil {
		event.FlightNumber = booking.Flight.FlightNumber
		event.Origin = booking.Flight.Origin
		event.Destination = booking.Flight.Destination
		event.DepartureTime = booking.Flight.DepartureTime
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WarnContext(ctx, "failed to publish booking event",
			slog.String("booking_id", event.BookingID),
			slog.String("type", string(eventType)),
			slog.Any("error", err),
		)
	}
}

// normalizeSeat maps a blank seat to nil so it is stored as NULL
func normalizeSeat(seat *string) *string {
	if seat == nil {
		return nil
	}
	trimmed := strings.ToUpper(strings.TrimSpace(*seat))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// generateBookingReference returns SKY-YYYYMMDD-XXXXXX with six random letters
func generateBookingReference() (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}
	return fmt.Sprintf("SKY-%s-%s", time.Now().UTC().Format("20060102"), string(randomPart)), nil
}
