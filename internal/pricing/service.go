package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"skybook/internal/flights"
)

var (
	ErrUnknownSeatClass  = errors.New("unknown seat class")
	ErrNotEnoughSeats    = errors.New("not enough seats available for the requested passengers")
	ErrInvalidPassengers = errors.New("passenger count must be at least 1")
)

// FlightLookup resolves a flight by id or flight number
type FlightLookup interface {
	GetFlight(ctx context.Context, ref string) (*flights.Flight, error)
}

type Service interface {
	CalculatePrice(ctx context.Context, req CalculatePriceRequest) (*Quote, error)
}

type service struct {
	flights FlightLookup
}

func NewService(flights FlightLookup) Service {
	return &service{flights: flights}
}

func (s *service) CalculatePrice(ctx context.Context, req CalculatePriceRequest) (*Quote, error) {
	if req.PassengerCount < 1 {
		return nil, ErrInvalidPassengers
	}

	class, ok := ParseSeatClass(req.SeatClass)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeatClass, req.SeatClass)
	}

	flight, err := s.flights.GetFlight(ctx, req.FlightNumber)
	if err != nil {
		return nil, err
	}
	if flight.AvailableSeats < req.PassengerCount {
		return nil, ErrNotEnoughSeats
	}

	base := flight.Price
	subtotal := roundCents(base * float64(req.PassengerCount) * class.Multiplier())

	breakdown := Breakdown{
		FlightNumber:    flight.FlightNumber,
		BaseFare:        base,
		PassengerCount:  req.PassengerCount,
		SeatClass:       class,
		ClassMultiplier: class.Multiplier(),
		Subtotal:        subtotal,
	}

	return &Quote{
		TotalPrice: subtotal + breakdown.Taxes + breakdown.Fees,
		Breakdown:  breakdown,
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
