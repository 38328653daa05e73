package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"skybook/internal/workflow"
	"skybook/pkg/client"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register": cmdRegister,
	"login":    cmdLogin,
	"logout":   cmdLogout,
	"whoami":   cmdWhoami,
	"nav":      cmdNav,
	"flights":  cmdFlights,
	"search":   cmdSearch,
	"quote":    cmdQuote,
	"book":     cmdBook,
	"bookings": cmdBookings,
	"cancel":   cmdCancel,
	"profile":  cmdProfile,
	"admin":    cmdAdmin,
}

// report prints an outcome and turns a destructive notification into an error exit
func (a *app) report(outcome workflow.Outcome) error {
	if outcome.AccessDenied {
		return errors.New("access denied: you don't have permission to access this page")
	}
	if n := outcome.Notification; n != nil {
		fmt.Fprintf(a.out, "%s: %s\n", n.Title, n.Description)
		if n.Variant == workflow.VariantDestructive {
			if outcome.Redirect == workflow.RouteLogin {
				return errors.New("run `skybook login` first")
			}
			return errors.New(strings.ToLower(n.Title))
		}
	}
	if outcome.Redirect == workflow.RouteLogin {
		return errors.New("run `skybook login` first")
	}
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (6+ characters)")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	err := a.sessions.Register(ctx, client.RegisterRequest{
		Email:     *email,
		Password:  *password,
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", *first)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	if err := a.sessions.Login(ctx, *email, *password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Fprintln(a.out, "Signed in as", *email)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.sessions.Logout(ctx); err != nil {
		// the local session is gone either way
		fmt.Fprintln(a.out, "Signed out (server did not confirm:", err.Error()+")")
		return nil
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func cmdWhoami(_ context.Context, a *app, _ []string) error {
	state := a.sessions.Snapshot()
	if !state.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	role := "user"
	if state.IsAdmin() {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%s %s <%s> (%s)\n", state.User.FirstName, state.User.LastName, state.User.Email, role)
	return nil
}

func cmdNav(_ context.Context, a *app, _ []string) error {
	for _, item := range workflow.Navigation(a.sessions.Snapshot()) {
		fmt.Fprintf(a.out, "%-12s %s\n", item.Label, item.Route)
	}
	return nil
}

func cmdFlights(ctx context.Context, a *app, _ []string) error {
	home := workflow.NewHome(a.api)
	if err := a.report(home.Load(ctx)); err != nil {
		return err
	}
	a.printFlights(home)
	return nil
}

func cmdSearch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("search")
	origin := fs.String("origin", "", "origin, any part of the name")
	destination := fs.String("destination", "", "destination, any part of the name")
	date := fs.String("date", "", "departure date YYYY-MM-DD")
	returnDate := fs.String("return", "", "return date YYYY-MM-DD (round trips)")
	passengers := fs.Int("passengers", 1, "number of passengers")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	form := workflow.SearchForm{
		Origin:      *origin,
		Destination: *destination,
		TripType:    workflow.TripOneWay,
		Passengers:  *passengers,
	}
	if *date != "" {
		d, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return usageError("date must be YYYY-MM-DD")
		}
		form.DepartureDate = d
	}
	if *returnDate != "" {
		d, err := time.Parse("2006-01-02", *returnDate)
		if err != nil {
			return usageError("return must be YYYY-MM-DD")
		}
		form.ReturnDate = d
		form.TripType = workflow.TripRoundTrip
	}

	home := workflow.NewHome(a.api)
	if err := a.report(home.Search(ctx, form)); err != nil {
		return err
	}
	a.printFlights(home)
	return nil
}

func (a *app) printFlights(home *workflow.Home) {
	if msg := home.EmptyMessage(); msg != "" {
		fmt.Fprintln(a.out, msg)
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FLIGHT\tFROM\tTO\tDEPARTS\tDURATION\tPRICE\tSEATS\tAVAILABILITY\tID")
	for _, f := range home.Flights {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\t$%.2f\t%d/%d\t%s\t%s\n",
			f.FlightNumber, f.Origin, f.Destination,
			workflow.FormatDate(f.DepartureTime), workflow.FormatTime(f.DepartureTime),
			f.Duration, f.Price, f.AvailableSeats, f.TotalSeats,
			workflow.AvailabilityLevel(f), f.ID)
	}
	w.Flush()
}

func cmdQuote(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("quote")
	flightNumber := fs.String("flight", "", "flight number")
	passengers := fs.Int("passengers", 1, "number of passengers")
	class := fs.String("class", "economy", "economy, premium_economy, business or first")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	quote, err := a.api.CalculatePrice(ctx, client.PriceRequest{
		FlightNumber:   *flightNumber,
		PassengerCount: *passengers,
		SeatClass:      *class,
	})
	if err != nil {
		return fmt.Errorf("failed to calculate price: %w", err)
	}

	b := quote.Breakdown
	fmt.Fprintf(a.out, "%s %s x%d: $%.2f x %.1f = $%.2f (taxes $%.2f, fees $%.2f)\nTotal: $%.2f\n",
		b.FlightNumber, b.SeatClass, b.PassengerCount, b.BaseFare, b.ClassMultiplier,
		b.Subtotal, b.Taxes, b.Fees, quote.TotalPrice)
	return nil
}

func cmdBook(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("book")
	ref := fs.String("flight", "", "flight id or number")
	name := fs.String("name", "", "passenger name (defaults to your profile name)")
	seat := fs.String("seat", "", "seat number, optional")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *ref == "" {
		return usageError("-flight is required")
	}

	flight, err := a.api.GetFlight(ctx, *ref)
	if err != nil {
		return fmt.Errorf("flight not found: %w", err)
	}

	screen := workflow.SelectFlight(a.api, a.sessions, *flight)
	passenger := *name
	if passenger == "" {
		passenger = screen.PassengerName
	}

	if err := a.report(screen.Submit(ctx, passenger, *seat)); err != nil {
		return err
	}
	if screen.Booking != nil {
		fmt.Fprintf(a.out, "Reference %s, total $%.2f\n", screen.Booking.BookingReference, screen.Booking.TotalAmount)
	}
	return nil
}

func cmdBookings(ctx context.Context, a *app, _ []string) error {
	page := workflow.NewMyBookings(a.api, a.sessions)
	if err := a.report(page.Load(ctx)); err != nil {
		return err
	}
	if len(page.Bookings) == 0 {
		fmt.Fprintln(a.out, "No bookings found. You haven't made any flight reservations yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REFERENCE\tFLIGHT\tROUTE\tDEPARTS\tPASSENGER\tSEAT\tSTATUS\tAMOUNT\tID")
	for _, b := range page.Bookings {
		flight, route, departs := "-", "-", "-"
		if b.Flight != nil {
			flight = b.Flight.FlightNumber
			route = b.Flight.Origin + " -> " + b.Flight.Destination
			departs = workflow.FormatDateTime(b.Flight.DepartureTime)
		}
		seat := "-"
		if b.SeatNumber != nil {
			seat = *b.SeatNumber
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t$%.2f\t%s\n",
			b.BookingReference, flight, route, departs, b.PassengerName, seat, b.Status, b.TotalAmount, b.ID)
	}
	w.Flush()
	return nil
}

func cmdCancel(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("cancel")
	id := fs.String("id", "", "booking id")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *id == "" {
		return usageError("-id is required")
	}

	page := workflow.NewMyBookings(a.api, a.sessions)
	return a.report(page.Cancel(ctx, *id))
}

func cmdProfile(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("profile")
	first := fs.String("first", "", "new first name")
	last := fs.String("last", "", "new last name")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	page := workflow.NewProfilePage(a.api, a.sessions)
	if *first != "" || *last != "" {
		if err := a.report(page.Update(ctx, *first, *last)); err != nil {
			return err
		}
	} else if err := a.report(page.Load(ctx)); err != nil {
		return err
	}

	p := page.Profile
	fmt.Fprintf(a.out, "%s %s <%s> role=%s\n", p.FirstName, p.LastName, p.Email, p.Role)
	return nil
}

func cmdAdmin(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return usageError("admin needs a subcommand: list, stats, server-stats, create, edit, delete")
	}

	dashboard := workflow.NewAdmin(a.api, a.sessions)
	sub, rest := args[0], args[1:]

	switch sub {
	case "list", "stats":
		if err := a.report(dashboard.Load(ctx)); err != nil {
			return err
		}
		if sub == "list" {
			home := &workflow.Home{Flights: dashboard.Flights}
			a.printFlights(home)
			return nil
		}
		s := dashboard.Stats()
		fmt.Fprintf(a.out, "Flights: %d\nSeats: %d\nOccupied: %d\nRevenue: $%.2f\n",
			s.TotalFlights, s.TotalSeats, s.OccupiedSeats, s.Revenue)
		return nil

	case "server-stats":
		if !a.sessions.IsAdmin() {
			return a.report(workflow.Outcome{AccessDenied: true})
		}
		s, err := a.api.AdminStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to load statistics: %w", err)
		}
		fmt.Fprintf(a.out, "Flights: %d\nSeats: %d\nOccupied: %d\nRevenue: $%.2f\nBookings: %d\nUsers: %d\n",
			s.TotalFlights, s.TotalSeats, s.OccupiedSeats, s.Revenue, s.TotalBookings, s.TotalUsers)
		return nil

	case "create":
		return adminCreate(ctx, a, dashboard, rest)

	case "edit":
		return a.report(dashboard.EditFlight(client.Flight{}))

	case "delete":
		return a.report(dashboard.DeleteFlight(client.Flight{}))

	default:
		return usageError(fmt.Sprintf("unknown admin subcommand %q", sub))
	}
}

func adminCreate(ctx context.Context, a *app, dashboard *workflow.Admin, args []string) error {
	fs := newFlagSet("admin create")
	number := fs.String("number", "", "flight number")
	origin := fs.String("origin", "", "origin")
	destination := fs.String("destination", "", "destination")
	departs := fs.String("departs", "", "departure time, RFC 3339")
	arrives := fs.String("arrives", "", "arrival time, RFC 3339")
	duration := fs.String("duration", "", "duration label, e.g. 6h 30m")
	aircraft := fs.String("aircraft", "", "aircraft")
	price := fs.Float64("price", 0, "price per seat")
	seats := fs.Int("seats", 0, "total seats")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	departure, err := time.Parse(time.RFC3339, *departs)
	if err != nil {
		return usageError("-departs must be RFC 3339, e.g. 2024-06-01T09:00:00Z")
	}
	arrival, err := time.Parse(time.RFC3339, *arrives)
	if err != nil {
		return usageError("-arrives must be RFC 3339, e.g. 2024-06-01T15:30:00Z")
	}

	return a.report(dashboard.CreateFlight(ctx, workflow.FlightForm{
		FlightNumber:  *number,
		Origin:        *origin,
		Destination:   *destination,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Duration:      *duration,
		Aircraft:      *aircraft,
		Price:         *price,
		TotalSeats:    *seats,
	}))
}
