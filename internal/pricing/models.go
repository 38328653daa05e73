package pricing

import "strings"

// SeatClass is the cabin a quote is priced for
type SeatClass string

const (
	SeatClassEconomy        SeatClass = "economy"
	SeatClassPremiumEconomy SeatClass = "premium_economy"
	SeatClassBusiness       SeatClass = "business"
	SeatClassFirst          SeatClass = "first"
)

var classMultipliers = map[SeatClass]float64{
	SeatClassEconomy:        1.0,
	SeatClassPremiumEconomy: 1.5,
	SeatClassBusiness:       2.5,
	SeatClassFirst:          4.0,
}

// ParseSeatClass accepts any casing and "-" or " " separators. An empty
// string means economy.
func ParseSeatClass(raw string) (SeatClass, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	if normalized == "" {
		return SeatClassEconomy, true
	}
	class := SeatClass(normalized)
	_, ok := classMultipliers[class]
	return class, ok
}

// Multiplier returns the fare multiplier, 1 for unknown classes
func (c SeatClass) Multiplier() float64 {
	if m, ok := classMultipliers[c]; ok {
		return m
	}
	return 1
}

// Breakdown itemises a quote. Taxes and fees are carried for display and are
// always zero.
type Breakdown struct {
	FlightNumber    string    `json:"flight_number"`
	BaseFare        float64   `json:"base_fare"`
	PassengerCount  int       `json:"passenger_count"`
	SeatClass       SeatClass `json:"seat_class"`
	ClassMultiplier float64   `json:"class_multiplier"`
	Subtotal        float64   `json:"subtotal"`
	Taxes           float64   `json:"taxes"`
	Fees            float64   `json:"fees"`
}

type Quote struct {
	TotalPrice float64   `json:"total_price"`
	Breakdown  Breakdown `json:"breakdown"`
}
