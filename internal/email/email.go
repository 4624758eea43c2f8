package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers booking notifications. Delivery is a structured log line;
// the user id stands in for the recipient address.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	msg, err := Render(event)
	if err != nil {
		s.log.WithError(err).WithField("event_id", event.ID).Warn("skipping notification")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"to":         msg.To,
		"subject":    msg.Subject,
		"booking_id": event.BookingID,
		"event_id":   event.ID,
	}).Info(msg.Body)
	return nil
}

func Render(event kafka.BookingEvent) (Message, error) {
	switch event.Type {
	case kafka.EventBookingCreated:
		return Message{
			To:      event.UserID,
			Subject: fmt.Sprintf("Booking #%d confirmed", event.BookingID),
			Body: fmt.Sprintf("Your booking #%d for %d seat(s) on travel option %d is confirmed. Total: %s.",
				event.BookingID, event.Seats, event.TravelOptionID, event.TotalPrice),
		}, nil
	case kafka.EventBookingCancelled:
		return Message{
			To:      event.UserID,
			Subject: fmt.Sprintf("Booking #%d cancelled", event.BookingID),
			Body: fmt.Sprintf("Your booking #%d for %d seat(s) on travel option %d was cancelled.",
				event.BookingID, event.Seats, event.TravelOptionID),
		}, nil
	default:
		return Message{}, fmt.Errorf("unknown event type %q", event.Type)
	}
}
