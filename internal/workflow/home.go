package workflow

import (
	"context"
	"time"

	"skybook/pkg/client"
)

const NoFlightsMessage = "No flights found. Try adjusting your search criteria."

type TripType string

const (
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
)

// FlightAPI lists and searches flights
type FlightAPI interface {
	ListFlights(ctx context.Context) ([]client.Flight, error)
	SearchFlights(ctx context.Context, params client.SearchParams) ([]client.Flight, error)
}

// SearchForm holds the search inputs. Only origin, destination and the
// departure date reach the API; the rest is carried for display.
type SearchForm struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    time.Time
	TripType      TripType
	Passengers    int
}

// Params converts the form into API filters, leaving blank fields empty
func (f SearchForm) Params() client.SearchParams {
	params := client.SearchParams{
		Origin:      f.Origin,
		Destination: f.Destination,
	}
	if !f.DepartureDate.IsZero() {
		params.Date = f.DepartureDate.Format("2006-01-02")
	}
	return params
}

// Home is the landing screen: all flights, or the results of the last search
type Home struct {
	api     FlightAPI
	Flights []client.Flight
}

func NewHome(api FlightAPI) *Home {
	return &Home{api: api}
}

func (h *Home) Load(ctx context.Context) Outcome {
	flights, err := h.api.ListFlights(ctx)
	if err != nil {
		h.Flights = nil
		return failure("Error", "Failed to load flights. Please try again.")
	}
	h.Flights = flights
	return Outcome{}
}

// Search replaces the list with the matching flights. A failed search
// keeps the previous list.
func (h *Home) Search(ctx context.Context, form SearchForm) Outcome {
	flights, err := h.api.SearchFlights(ctx, form.Params())
	if err != nil {
		return failure("Search Error", "Failed to search flights. Please try again.")
	}
	h.Flights = flights
	return Outcome{}
}

// EmptyMessage is shown in place of the list when there is nothing to show
func (h *Home) EmptyMessage() string {
	if len(h.Flights) == 0 {
		return NoFlightsMessage
	}
	return ""
}
