package workflow

import (
	"context"
	"time"

	"skybook/pkg/client"
)

type AdminAPI interface {
	ListFlights(ctx context.Context) ([]client.Flight, error)
	CreateFlight(ctx context.Context, req client.NewFlight) (*client.Flight, error)
}

// FlightForm is the admin's new-flight form
type FlightForm struct {
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Duration      string
	Aircraft      string
	Price         float64
	TotalSeats    int
}

// Stats are computed from the loaded flights only. Revenue is price times
// occupied seats and ignores cancellations.
type Stats struct {
	TotalFlights  int
	TotalSeats    int
	OccupiedSeats int
	Revenue       float64
}

// Admin is the flight inventory dashboard
type Admin struct {
	api     AdminAPI
	session SessionState
	Flights []client.Flight
}

func NewAdmin(api AdminAPI, session SessionState) *Admin {
	return &Admin{api: api, session: session}
}

func (a *Admin) denied() bool {
	return !a.session.Snapshot().IsAdmin()
}

func (a *Admin) Load(ctx context.Context) Outcome {
	if a.denied() {
		return Outcome{AccessDenied: true}
	}

	flights, err := a.api.ListFlights(ctx)
	if err != nil {
		return failure("Error", "Failed to load flights. Please try again.")
	}
	a.Flights = flights
	return Outcome{}
}

func (a *Admin) Stats() Stats {
	var stats Stats
	for _, f := range a.Flights {
		occupied := f.TotalSeats - f.AvailableSeats
		stats.TotalFlights++
		stats.TotalSeats += f.TotalSeats
		stats.OccupiedSeats += occupied
		stats.Revenue += f.Price * float64(occupied)
	}
	return stats
}

// CreateFlight submits the form with every seat available and appends the
// created flight to the list
func (a *Admin) CreateFlight(ctx context.Context, form FlightForm) Outcome {
	if a.denied() {
		return Outcome{AccessDenied: true}
	}

	available := form.TotalSeats
	flight, err := a.api.CreateFlight(ctx, client.NewFlight{
		FlightNumber:   form.FlightNumber,
		Origin:         form.Origin,
		Destination:    form.Destination,
		DepartureTime:  form.DepartureTime,
		ArrivalTime:    form.ArrivalTime,
		Duration:       form.Duration,
		Aircraft:       form.Aircraft,
		Price:          form.Price,
		TotalSeats:     form.TotalSeats,
		AvailableSeats: &available,
	})
	if err != nil {
		return failure("Error", "Failed to create flight. Please try again.")
	}

	a.Flights = append(a.Flights, *flight)
	return notice("Flight Created", "New flight has been added successfully.")
}

// EditFlight only notifies; no request is sent
func (a *Admin) EditFlight(client.Flight) Outcome {
	return notice("Edit Flight", "Editing flights is not available yet.")
}

// DeleteFlight only notifies; no request is sent
func (a *Admin) DeleteFlight(client.Flight) Outcome {
	return notice("Delete Flight", "Deleting flights is not available yet.")
}
