package pricing

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"skybook/internal/flights"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFlights map[string]*flights.Flight

func (s stubFlights) GetFlight(_ context.Context, ref string) (*flights.Flight, error) {
	if f, ok := s[flights.NormalizeFlightNumber(ref)]; ok {
		return f, nil
	}
	return nil, flights.ErrFlightNotFound
}

var catalogue = stubFlights{
	"SK101": {FlightNumber: "SK101", Price: 299, AvailableSeats: 150, TotalSeats: 180},
	"SK305": {FlightNumber: "SK305", Price: 99.99, AvailableSeats: 2, TotalSeats: 76},
}

func TestParseSeatClass(t *testing.T) {
	tests := []struct {
		raw  string
		want SeatClass
		ok   bool
	}{
		{"", SeatClassEconomy, true},
		{"Economy", SeatClassEconomy, true},
		{"premium-economy", SeatClassPremiumEconomy, true},
		{"Premium Economy", SeatClassPremiumEconomy, true},
		{" BUSINESS ", SeatClassBusiness, true},
		{"first", SeatClassFirst, true},
		{"cargo", SeatClass("cargo"), false},
	}
	for _, tt := range tests {
		got, ok := ParseSeatClass(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
	}
}

func TestCalculatePrice(t *testing.T) {
	svc := NewService(catalogue)

	quote, err := svc.CalculatePrice(context.Background(), CalculatePriceRequest{
		FlightNumber:   "sk101",
		PassengerCount: 2,
		SeatClass:      "business",
	})
	require.NoError(t, err)

	want := &Quote{
		TotalPrice: 1495,
		Breakdown: Breakdown{
			FlightNumber:    "SK101",
			BaseFare:        299,
			PassengerCount:  2,
			SeatClass:       SeatClassBusiness,
			ClassMultiplier: 2.5,
			Subtotal:        1495,
		},
	}
	if diff := cmp.Diff(want, quote); diff != "" {
		t.Errorf("quote mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculatePriceFirstClass(t *testing.T) {
	svc := NewService(catalogue)

	quote, err := svc.CalculatePrice(context.Background(), CalculatePriceRequest{
		FlightNumber:   "SK305",
		PassengerCount: 1,
		SeatClass:      "First",
	})
	require.NoError(t, err)
	assert.Equal(t, 399.96, quote.TotalPrice)
	assert.Equal(t, SeatClassFirst, quote.Breakdown.SeatClass)
}

func TestCalculatePriceErrors(t *testing.T) {
	svc := NewService(catalogue)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CalculatePriceRequest
		want error
	}{
		{"unknown flight", CalculatePriceRequest{FlightNumber: "SK999", PassengerCount: 1}, flights.ErrFlightNotFound},
		{"unknown class", CalculatePriceRequest{FlightNumber: "SK101", PassengerCount: 1, SeatClass: "cargo"}, ErrUnknownSeatClass},
		{"no passengers", CalculatePriceRequest{FlightNumber: "SK101"}, ErrInvalidPassengers},
		{"more passengers than seats", CalculatePriceRequest{FlightNumber: "SK305", PassengerCount: 3}, ErrNotEnoughSeats},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CalculatePrice(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalculatePriceEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	SetupPricingRoutes(engine.Group("/api"), NewController(NewService(catalogue)))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"economy", `{"flight_number":"SK101","passenger_count":1}`, http.StatusOK},
		{"missing flight", `{"flight_number":"SK000","passenger_count":1}`, http.StatusNotFound},
		{"too many passengers", `{"flight_number":"SK101","passenger_count":10}`, http.StatusBadRequest},
		{"bad class", `{"flight_number":"SK101","passenger_count":1,"seat_class":"cargo"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/pricing/calculate", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
