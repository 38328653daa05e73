package pricing

type CalculatePriceRequest struct {
	FlightNumber   string `json:"flight_number" binding:"required,max=20"`
	PassengerCount int    `json:"passenger_count" binding:"required,min=1,max=9"`
	SeatClass      string `json:"seat_class" binding:"omitempty,max=32"`
}
