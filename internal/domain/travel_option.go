package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TravelMode string

const (
	TravelModeFlight TravelMode = "Flight"
	TravelModeTrain  TravelMode = "Train"
	TravelModeBus    TravelMode = "Bus"
)

func (m TravelMode) Valid() bool {
	switch m {
	case TravelModeFlight, TravelModeTrain, TravelModeBus:
		return true
	default:
		return false
	}
}

// TravelOption is a bookable offering. AvailableSeats is only changed by the
// inventory's reserve and release operations.
type TravelOption struct {
	ID             int64           `json:"id"`
	Mode           TravelMode      `json:"mode"`
	Source         string          `json:"source"`
	Destination    string          `json:"destination"`
	DepartureTime  time.Time       `json:"departure_time"`
	Price          decimal.Decimal `json:"price"`
	TotalSeats     int             `json:"total_seats"`
	AvailableSeats int             `json:"available_seats"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TotalFor returns the price of seats on this option.
func (o *TravelOption) TotalFor(seats int) decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(int64(seats)))
}

// ListFilter narrows travel option listings. Source and Destination match as
// case-insensitive substrings.
type ListFilter struct {
	Mode        TravelMode `form:"type" validate:"omitempty,oneof=Flight Train Bus"`
	Source      string     `form:"source" validate:"max=100"`
	Destination string     `form:"destination" validate:"max=100"`
}

// InventoryDiscrepancy reports an option whose seat counts disagree with its
// confirmed bookings.
type InventoryDiscrepancy struct {
	TravelOptionID int64
	TotalSeats     int
	AvailableSeats int
	ConfirmedSeats int
}
