package flights_test

import (
	"context"
	"testing"
	"time"

	"skybook/internal/flights"
	"skybook/internal/shared/constants"
	"skybook/internal/shared/testutil"
	"skybook/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newFlightRequest(number, origin, destination string, departure time.Time, price float64, available, total int) flights.CreateFlightRequest {
	return flights.CreateFlightRequest{
		FlightNumber:   number,
		Origin:         origin,
		Destination:    destination,
		DepartureTime:  departure,
		ArrivalTime:    departure.Add(6 * time.Hour),
		Duration:       "6h 0m",
		Aircraft:       "Boeing 737",
		Price:          price,
		TotalSeats:     total,
		AvailableSeats: intPtr(available),
	}
}

func seedCatalogue(t *testing.T, svc flights.Service) {
	t.Helper()
	ctx := context.Background()
	admin := uuid.New()

	reqs := []flights.CreateFlightRequest{
		newFlightRequest("SK101", "NYC", "LAX", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), 299, 150, 180),
		newFlightRequest("SK102", "LAX", "NYC", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC), 319, 25, 180),
		newFlightRequest("SK103", "NYC", "LAX", time.Date(2024, 6, 2, 0, 30, 0, 0, time.UTC), 279, 90, 180),
		newFlightRequest("SK201", "Chicago O'Hare", "Miami", time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC), 189, 10, 150),
	}
	for _, req := range reqs {
		_, err := svc.CreateFlight(ctx, admin, req)
		require.NoError(t, err)
	}
}

func flightNumbers(list []flights.Flight) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.FlightNumber)
	}
	return out
}

func TestSearchFlights(t *testing.T) {
	svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))
	seedCatalogue(t, svc)
	ctx := context.Background()

	tests := []struct {
		name  string
		query flights.SearchQuery
		want  []string
	}{
		{
			name:  "origin destination and date",
			query: flights.SearchQuery{Origin: "NYC", Destination: "LAX", Date: "2024-06-01"},
			want:  []string{"SK101"},
		},
		{
			name:  "case insensitive substring",
			query: flights.SearchQuery{Origin: "chicago"},
			want:  []string{"SK201"},
		},
		{
			name:  "date covers the whole UTC day",
			query: flights.SearchQuery{Date: "2024-06-01"},
			want:  []string{"SK101", "SK102", "SK201"},
		},
		{
			name:  "no filters returns everything by departure",
			query: flights.SearchQuery{},
			want:  []string{"SK101", "SK102", "SK201", "SK103"},
		},
		{
			name:  "wildcards are literal",
			query: flights.SearchQuery{Origin: "%"},
			want:  []string{},
		},
		{
			name:  "apostrophe is matched literally",
			query: flights.SearchQuery{Origin: "o'hare"},
			want:  []string{"SK201"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.SearchFlights(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, flightNumbers(got))
		})
	}
}

func TestSearchFlightsDayBoundaries(t *testing.T) {
	svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))
	ctx := context.Background()
	plusTwo := time.FixedZone("UTC+2", 2*60*60)

	for _, req := range []flights.CreateFlightRequest{
		newFlightRequest("SK300", "NYC", "LAX", time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC), 199, 10, 10),
		newFlightRequest("SK301", "NYC", "LAX", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 199, 10, 10),
		newFlightRequest("SK302", "NYC", "LAX", time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), 199, 10, 10),
		// 2024-06-01 23:00 UTC
		newFlightRequest("SK303", "NYC", "LAX", time.Date(2024, 6, 2, 1, 0, 0, 0, plusTwo), 199, 10, 10),
	} {
		_, err := svc.CreateFlight(ctx, uuid.New(), req)
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		date string
		want []string
	}{
		{name: "start of day included, next midnight excluded", date: "2024-06-01", want: []string{"SK301", "SK303"}},
		{name: "last second belongs to the previous day", date: "2024-05-31", want: []string{"SK300"}},
		{name: "midnight opens the next day", date: "2024-06-02", want: []string{"SK302"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.SearchFlights(ctx, flights.SearchQuery{Date: tt.date})
			require.NoError(t, err)
			assert.Equal(t, tt.want, flightNumbers(got))
		})
	}
}

func TestSearchFlightsRejectsBadDate(t *testing.T) {
	svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))

	_, err := svc.SearchFlights(context.Background(), flights.SearchQuery{Date: "06/01/2024"})
	assert.ErrorIs(t, err, flights.ErrInvalidDate)
}

func TestCreateFlight(t *testing.T) {
	ctx := context.Background()
	departure := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("available seats default to total", func(t *testing.T) {
		svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))
		req := newFlightRequest("sk500", "BOS", "LHR", departure, 549, 0, 240)
		req.AvailableSeats = nil

		flight, err := svc.CreateFlight(ctx, uuid.New(), req)
		require.NoError(t, err)
		assert.Equal(t, "SK500", flight.FlightNumber)
		assert.Equal(t, 240, flight.AvailableSeats)
		assert.Equal(t, 0, flight.OccupiedSeats())
	})

	t.Run("duplicate flight number", func(t *testing.T) {
		svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))
		_, err := svc.CreateFlight(ctx, uuid.New(), newFlightRequest("SK101", "NYC", "LAX", departure, 299, 150, 180))
		require.NoError(t, err)

		_, err = svc.CreateFlight(ctx, uuid.New(), newFlightRequest("sk101", "NYC", "SFO", departure, 199, 10, 10))
		assert.ErrorIs(t, err, flights.ErrFlightNumberTaken)
	})

	t.Run("more available than total", func(t *testing.T) {
		svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))
		_, err := svc.CreateFlight(ctx, uuid.New(), newFlightRequest("SK102", "NYC", "LAX", departure, 299, 181, 180))
		assert.ErrorIs(t, err, flights.ErrInvalidSeatCounts)
	})

	t.Run("arrival before departure", func(t *testing.T) {
		svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))
		req := newFlightRequest("SK103", "NYC", "LAX", departure, 299, 10, 10)
		req.ArrivalTime = departure.Add(-time.Hour)
		_, err := svc.CreateFlight(ctx, uuid.New(), req)
		assert.ErrorIs(t, err, flights.ErrInvalidSchedule)
	})
}

func TestGetFlightByIDOrNumber(t *testing.T) {
	svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))
	ctx := context.Background()

	created, err := svc.CreateFlight(ctx, uuid.New(),
		newFlightRequest("SK101", "NYC", "LAX", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), 299, 150, 180))
	require.NoError(t, err)

	byID, err := svc.GetFlight(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "SK101", byID.FlightNumber)

	byNumber, err := svc.GetFlight(ctx, "sk101")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	_, err = svc.GetFlight(ctx, "SK999")
	assert.ErrorIs(t, err, flights.ErrFlightNotFound)
}

func TestUpdateAndDeleteFlight(t *testing.T) {
	svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))
	ctx := context.Background()

	created, err := svc.CreateFlight(ctx, uuid.New(),
		newFlightRequest("SK101", "NYC", "LAX", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), 299, 150, 180))
	require.NoError(t, err)

	price := 349.0
	updated, err := svc.UpdateFlight(ctx, created.ID, flights.UpdateFlightRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 349.0, updated.Price)

	total := 100
	_, err = svc.UpdateFlight(ctx, created.ID, flights.UpdateFlightRequest{TotalSeats: &total})
	assert.ErrorIs(t, err, flights.ErrInvalidSeatCounts, "150 available cannot fit in 100 seats")

	_, err = svc.UpdateFlight(ctx, created.ID, flights.UpdateFlightRequest{})
	assert.ErrorIs(t, err, flights.ErrEmptyFlightChanges)

	require.NoError(t, svc.DeleteFlight(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteFlight(ctx, created.ID), flights.ErrFlightNotFound)
}

func TestFlightCacheIsInvalidatedOnWrite(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	svc := flights.NewService(flights.NewRepository(testutil.NewDB(t)))
	svc.SetCacheService(cache.NewService(rdb))
	ctx := context.Background()
	departure := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.CreateFlight(ctx, uuid.New(), newFlightRequest("SK101", "NYC", "LAX", departure, 299, 150, 180))
	require.NoError(t, err)

	list, err := svc.ListFlights(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(constants.CACHE_KEY_FLIGHTS_LIST))

	_, err = svc.CreateFlight(ctx, uuid.New(), newFlightRequest("SK102", "LAX", "NYC", departure, 319, 25, 180))
	require.NoError(t, err)
	assert.False(t, mr.Exists(constants.CACHE_KEY_FLIGHTS_LIST))

	list, err = svc.ListFlights(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
