package bookings

type CreateBookingRequest struct {
	FlightID      string  `json:"flight_id" binding:"required,uuid"`
	PassengerName string  `json:"passenger_name" binding:"required,max=200"`
	SeatNumber    *string `json:"seat_number" binding:"omitempty,max=8"` // empty or null means unassigned
}

type UpdateBookingRequest struct {
	PassengerName *string `json:"passenger_name" binding:"omitempty,min=1,max=200"`
	SeatNumber    *string `json:"seat_number" binding:"omitempty,max=8"`
	Status        *Status `json:"status" binding:"omitempty,oneof=confirmed cancelled pending"`
}
