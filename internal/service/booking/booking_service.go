package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, userID string, bookingID int64) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID string, bookingID int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
}

// ListingsCache is invalidated after every committed seat change.
type ListingsCache interface {
	InvalidateListings(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingService is the booking ledger. Every seat change goes through the
// inventory inside the same transaction as the booking row it belongs to.
type BookingService struct {
	bookings           repository.BookingRepository
	inventory          repository.TravelOptionRepository
	tx                 repository.TxManager
	cache              ListingsCache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	validate           *validator.Validate
	log                logrus.FieldLogger
	now                func() time.Time
}

type CreateBookingInput struct {
	UserID         string `json:"user_id" validate:"required,max=255"`
	TravelOptionID int64  `json:"travel_option_id" validate:"gt=0"`
	Seats          int    `json:"number_of_seats" validate:"gt=0"`
}

type BookingServiceOption func(*BookingService)

func WithCache(cache ListingsCache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(log logrus.FieldLogger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	inventory repository.TravelOptionRepository,
	tx repository.TxManager,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:  bookings,
		inventory: inventory,
		tx:        tx,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves seats and records a confirmed booking in one
// transaction. Invalid input is rejected before the transaction starts.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, invalidRequest(err)
	}

	var booking *domain.Booking
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		option, err := s.inventory.ReserveSeats(ctx, input.TravelOptionID, input.Seats)
		if err != nil {
			return err
		}

		booking = domain.NewBooking(input.UserID, option, input.Seats, s.now())
		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		s.logFailure(err, logrus.Fields{"user_id": input.UserID, "travel_option_id": input.TravelOptionID, "seats": input.Seats}, "create booking failed")
		return nil, err
	}

	s.log.WithFields(bookingFields(booking)).Info("booking confirmed")
	s.afterCommit(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

// CancelBooking releases the booking's seats and marks it cancelled in one
// transaction. Ownership and status are checked before anything is written.
func (s *BookingService) CancelBooking(ctx context.Context, userID string, bookingID int64) (*domain.Booking, error) {
	if userID == "" || bookingID <= 0 {
		return nil, domain.InvalidRequest("user and booking id are required")
	}

	var booking *domain.Booking
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if !current.OwnedBy(userID) {
			return domain.ErrNotOwner
		}
		if err := current.Cancel(); err != nil {
			return err
		}

		if _, err := s.inventory.ReleaseSeats(ctx, current.TravelOptionID, current.Seats); err != nil {
			return err
		}
		if err := s.bookings.UpdateStatus(ctx, current); err != nil {
			return err
		}
		booking = current
		return nil
	})
	if err != nil {
		s.logFailure(err, logrus.Fields{"user_id": userID, "booking_id": bookingID}, "cancel booking failed")
		return nil, err
	}

	s.log.WithFields(bookingFields(booking)).Info("booking cancelled")
	s.afterCommit(ctx, kafka.EventBookingCancelled, booking)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, userID string, bookingID int64) (*domain.Booking, error) {
	if userID == "" || bookingID <= 0 {
		return nil, domain.InvalidRequest("user and booking id are required")
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.OwnedBy(userID) {
		return nil, domain.ErrNotOwner
	}
	return booking, nil
}

// ListBookings returns the user's bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	if userID == "" {
		return nil, domain.InvalidRequest("user is required")
	}
	return s.bookings.ListByUser(ctx, userID)
}

// afterCommit runs side effects that must not undo a committed booking.
func (s *BookingService) afterCommit(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.cache != nil {
		if err := s.cache.InvalidateListings(ctx); err != nil {
			s.log.WithError(err).Warn("failed to invalidate travel option listings")
		}
	}
	if err := s.publish(ctx, eventType, booking); err != nil {
		s.log.WithError(err).WithFields(bookingFields(booking)).Warnf("failed to publish %s event", eventType)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.NewBookingEvent(eventType, booking)
	key := fmt.Sprint(booking.ID)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

func (s *BookingService) logFailure(err error, fields logrus.Fields, msg string) {
	entry := s.log.WithFields(fields).WithError(err)
	if domain.IsBusinessError(err) {
		entry.Info(msg)
		return
	}
	entry.Error(msg)
}

func bookingFields(b *domain.Booking) logrus.Fields {
	return logrus.Fields{
		"booking_id":       b.ID,
		"user_id":          b.UserID,
		"travel_option_id": b.TravelOptionID,
		"seats":            b.Seats,
	}
}

func invalidRequest(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.InvalidRequest("%v", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return domain.InvalidRequest("%s", strings.Join(msgs, "; "))
}

var _ BookingUseCase = (*BookingService)(nil)
