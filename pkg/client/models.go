package client

import "time"

type Flight struct {
	ID             string    `json:"id"`
	FlightNumber   string    `json:"flight_number"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Duration       string    `json:"duration"`
	Aircraft       string    `json:"aircraft"`
	Price          float64   `json:"price"`
	AvailableSeats int       `json:"available_seats"`
	TotalSeats     int       `json:"total_seats"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Booking struct {
	ID               string    `json:"id"`
	BookingReference string    `json:"booking_reference"`
	UserID           string    `json:"user_id"`
	FlightID         string    `json:"flight_id"`
	PassengerName    string    `json:"passenger_name"`
	SeatNumber       *string   `json:"seat_number"`
	Status           string    `json:"status"`
	BookingDate      time.Time `json:"booking_date"`
	TotalAmount      float64   `json:"total_amount"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Flight           *Flight   `json:"flight,omitempty"`
}

type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == "admin"
}

// User is the signed-in identity as returned by the auth endpoints
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is the proof of authentication kept by the client
type Session struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// authResponse is the wire shape of register, login and refresh
type authResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SearchParams filters flights. Empty fields are not sent. Date is YYYY-MM-DD.
type SearchParams struct {
	Origin      string
	Destination string
	Date        string
}

type NewFlight struct {
	FlightNumber   string    `json:"flight_number"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Duration       string    `json:"duration,omitempty"`
	Aircraft       string    `json:"aircraft,omitempty"`
	Price          float64   `json:"price"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats *int      `json:"available_seats,omitempty"`
}

type FlightUpdate struct {
	FlightNumber   *string    `json:"flight_number,omitempty"`
	Origin         *string    `json:"origin,omitempty"`
	Destination    *string    `json:"destination,omitempty"`
	DepartureTime  *time.Time `json:"departure_time,omitempty"`
	ArrivalTime    *time.Time `json:"arrival_time,omitempty"`
	Duration       *string    `json:"duration,omitempty"`
	Aircraft       *string    `json:"aircraft,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	TotalSeats     *int       `json:"total_seats,omitempty"`
	AvailableSeats *int       `json:"available_seats,omitempty"`
}

type NewBooking struct {
	FlightID      string  `json:"flight_id"`
	PassengerName string  `json:"passenger_name"`
	SeatNumber    *string `json:"seat_number"`
}

type BookingUpdate struct {
	PassengerName *string `json:"passenger_name,omitempty"`
	SeatNumber    *string `json:"seat_number,omitempty"`
	Status        *string `json:"status,omitempty"`
}

type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
}

type PriceRequest struct {
	FlightNumber   string `json:"flight_number"`
	PassengerCount int    `json:"passenger_count"`
	SeatClass      string `json:"seat_class,omitempty"`
}

type PriceBreakdown struct {
	FlightNumber    string  `json:"flight_number"`
	BaseFare        float64 `json:"base_fare"`
	PassengerCount  int     `json:"passenger_count"`
	SeatClass       string  `json:"seat_class"`
	ClassMultiplier float64 `json:"class_multiplier"`
	Subtotal        float64 `json:"subtotal"`
	Taxes           float64 `json:"taxes"`
	Fees            float64 `json:"fees"`
}

type PriceQuote struct {
	TotalPrice float64        `json:"total_price"`
	Breakdown  PriceBreakdown `json:"breakdown"`
}

type AdminStats struct {
	TotalFlights   int64     `json:"total_flights"`
	TotalSeats     int64     `json:"total_seats"`
	AvailableSeats int64     `json:"available_seats"`
	OccupiedSeats  int64     `json:"occupied_seats"`
	Revenue        float64   `json:"revenue"`
	TotalBookings  int64     `json:"total_bookings"`
	TotalUsers     int64     `json:"total_users"`
	GeneratedAt    time.Time `json:"generated_at"`
}
