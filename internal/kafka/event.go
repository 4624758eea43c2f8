package kafka

import (
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

type BookingEvent struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	BookingID      int64     `json:"booking_id"`
	UserID         string    `json:"user_id"`
	TravelOptionID int64     `json:"travel_option_id"`
	Seats          int       `json:"number_of_seats"`
	TotalPrice     string    `json:"total_price"`
	Status         string    `json:"status"`
	BookedAt       time.Time `json:"booking_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *domain.Booking) BookingEvent {
	return BookingEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		BookingID:      b.ID,
		UserID:         b.UserID,
		TravelOptionID: b.TravelOptionID,
		Seats:          b.Seats,
		TotalPrice:     b.TotalPrice.StringFixed(2),
		Status:         b.Status.String(),
		BookedAt:       b.BookedAt,
		OccurredAt:     time.Now().UTC(),
	}
}
