package flights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"skybook/internal/shared/constants"
	"skybook/pkg/cache"
	"skybook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrFlightNotFound     = errors.New("flight not found")
	ErrFlightNumberTaken  = errors.New("flight number already exists")
	ErrInvalidSeatCounts  = errors.New("available seats must be between 0 and total seats")
	ErrInvalidSchedule    = errors.New("arrival time must be after departure time")
	ErrInvalidDate        = errors.New("date must be formatted as YYYY-MM-DD")
	ErrEmptyFlightChanges = errors.New("no fields to update")
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	ListFlights(ctx context.Context) ([]Flight, error)
	SearchFlights(ctx context.Context, query SearchQuery) ([]Flight, error)
	GetFlight(ctx context.Context, ref string) (*Flight, error)
	CreateFlight(ctx context.Context, adminID uuid.UUID, req CreateFlightRequest) (*Flight, error)
	UpdateFlight(ctx context.Context, id uuid.UUID, req UpdateFlightRequest) (*Flight, error)
	DeleteFlight(ctx context.Context, id uuid.UUID) error
	// InvalidateCache drops every cached flight read; seat counts change on booking
	InvalidateCache(ctx context.Context)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault().WithComponent("flights"),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// Cache helper methods
func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		s.log.WarnContext(ctx, "failed to cache flights", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cacheService == nil {
		return false
	}
	return s.cacheService.Get(ctx, key, dest) == nil
}

func (s *service) InvalidateCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_FLIGHT_ALL); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate flight cache", slog.Any("error", err))
	}
}

func (s *service) ListFlights(ctx context.Context) ([]Flight, error) {
	var cached []Flight
	if s.getCache(ctx, constants.CACHE_KEY_FLIGHTS_LIST, &cached) {
		return cached, nil
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	s.setCache(ctx, constants.CACHE_KEY_FLIGHTS_LIST, flights, constants.TTL_FLIGHTS_LIST)
	return flights, nil
}

func (s *service) SearchFlights(ctx context.Context, query SearchQuery) ([]Flight, error) {
	filter, err := query.ToFilter()
	if err != nil {
		return nil, err
	}

	key := constants.BuildFlightSearchKey(filter.Origin, filter.Destination, strings.TrimSpace(query.Date))
	var cached []Flight
	if s.getCache(ctx, key, &cached) {
		return cached, nil
	}

	flights, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}

	s.setCache(ctx, key, flights, constants.TTL_FLIGHTS_SEARCH)
	return flights, nil
}

// GetFlight resolves a flight by uuid or by flight number
func (s *service) GetFlight(ctx context.Context, ref string) (*Flight, error) {
	key := constants.BuildFlightDetailKey(ref)
	var cached Flight
	if s.getCache(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		flight *Flight
		err    error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		flight, err = s.repo.GetByID(ctx, id)
	} else {
		flight, err = s.repo.GetByFlightNumber(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	s.setCache(ctx, key, flight, constants.TTL_FLIGHT_DETAIL)
	return flight, nil
}

func (s *service) CreateFlight(ctx context.Context, adminID uuid.UUID, req CreateFlightRequest) (*Flight, error) {
	if !req.ArrivalTime.After(req.DepartureTime) {
		return nil, ErrInvalidSchedule
	}

	available := req.TotalSeats
	if req.AvailableSeats != nil {
		available = *req.AvailableSeats
	}
	if available < 0 || available > req.TotalSeats {
		return nil, ErrInvalidSeatCounts
	}

	exists, err := s.repo.FlightNumberExists(ctx, req.FlightNumber, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check flight number: %w", err)
	}
	if exists {
		return nil, ErrFlightNumberTaken
	}

	flight := &Flight{
		FlightNumber:   req.FlightNumber,
		Origin:         strings.TrimSpace(req.Origin),
		Destination:    strings.TrimSpace(req.Destination),
		DepartureTime:  req.DepartureTime.UTC(),
		ArrivalTime:    req.ArrivalTime.UTC(),
		Duration:       req.Duration,
		Aircraft:       req.Aircraft,
		Price:          req.Price,
		AvailableSeats: available,
		TotalSeats:     req.TotalSeats,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	s.InvalidateCache(ctx)
	s.log.LogFlightCreated(ctx, flight.ID.String(), flight.FlightNumber, adminID.String())
	return flight, nil
}

func (s *service) UpdateFlight(ctx context.Context, id uuid.UUID, req UpdateFlightRequest) (*Flight, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FlightNumber != nil {
		number := NormalizeFlightNumber(*req.FlightNumber)
		exists, err := s.repo.FlightNumberExists(ctx, number, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check flight number: %w", err)
		}
		if exists {
			return nil, ErrFlightNumberTaken
		}
		updates["flight_number"] = number
	}
	if req.Origin != nil {
		updates["origin"] = strings.TrimSpace(*req.Origin)
	}
	if req.Destination != nil {
		updates["destination"] = strings.TrimSpace(*req.Destination)
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Aircraft != nil {
		updates["aircraft"] = *req.Aircraft
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	departure, arrival := current.DepartureTime, current.ArrivalTime
	if req.DepartureTime != nil {
		departure = req.DepartureTime.UTC()
		updates["departure_time"] = departure
	}
	if req.ArrivalTime != nil {
		arrival = req.ArrivalTime.UTC()
		updates["arrival_time"] = arrival
	}
	if !arrival.After(departure) {
		return nil, ErrInvalidSchedule
	}

	total, available := current.TotalSeats, current.AvailableSeats
	if req.TotalSeats != nil {
		total = *req.TotalSeats
		updates["total_seats"] = total
	}
	if req.AvailableSeats != nil {
		available = *req.AvailableSeats
		updates["available_seats"] = available
	}
	if available < 0 || available > total {
		return nil, ErrInvalidSeatCounts
	}

	if len(updates) == 0 {
		return nil, ErrEmptyFlightChanges
	}

	flight, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx)
	return flight, nil
}

func (s *service) DeleteFlight(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateCache(ctx)
	return nil
}
