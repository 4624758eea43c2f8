package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is closed over Confirmed and Cancelled. The zero value is not a
// valid status.
type BookingStatus uint8

const (
	BookingStatusConfirmed BookingStatus = iota + 1
	BookingStatusCancelled
)

func (s BookingStatus) String() string {
	switch s {
	case BookingStatusConfirmed:
		return "Confirmed"
	case BookingStatusCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("BookingStatus(%d)", uint8(s))
	}
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch s {
	case "Confirmed":
		return BookingStatusConfirmed, nil
	case "Cancelled":
		return BookingStatusCancelled, nil
	default:
		return 0, fmt.Errorf("unknown booking status %q", s)
	}
}

func (s BookingStatus) MarshalText() ([]byte, error) {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid booking status %d", uint8(s))
	}
}

func (s *BookingStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseBookingStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s BookingStatus) Value() (driver.Value, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

func (s *BookingStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into BookingStatus", src)
	}
}

type Booking struct {
	ID             int64           `json:"id"`
	UserID         string          `json:"user_id"`
	TravelOptionID int64           `json:"travel_option_id"`
	Seats          int             `json:"number_of_seats"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	BookedAt       time.Time       `json:"booking_date"`
	Status         BookingStatus   `json:"status"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewBooking creates a confirmed booking priced from option. TotalPrice is never
// recomputed afterwards.
func NewBooking(userID string, option *TravelOption, seats int, now time.Time) *Booking {
	return &Booking{
		UserID:         userID,
		TravelOptionID: option.ID,
		Seats:          seats,
		TotalPrice:     option.TotalFor(seats),
		BookedAt:       now,
		Status:         BookingStatusConfirmed,
	}
}

func (b *Booking) OwnedBy(userID string) bool {
	return b.UserID == userID
}

// Cancel moves a confirmed booking to Cancelled. It is the only status
// transition.
func (b *Booking) Cancel() error {
	if b.Status != BookingStatusConfirmed {
		return ErrAlreadyCancelled
	}
	b.Status = BookingStatusCancelled
	return nil
}
