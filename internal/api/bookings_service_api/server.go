package bookings_service_api

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UserIDMetadataKey carries the caller identity, mirroring the X-User-ID header
// of the HTTP API.
const UserIDMetadataKey = "x-user-id"

type Server struct {
	bookings booking.BookingUseCase
}

func NewServer(bookings booking.BookingUseCase) *Server {
	return &Server{bookings: bookings}
}

func (s *Server) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	userID, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	created, err := s.bookings.CreateBooking(ctx, booking.CreateBookingInput{
		UserID:         userID,
		TravelOptionID: req.TravelOptionID,
		Seats:          req.NumberOfSeats,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toPBBooking(created), nil
}

func (s *Server) CancelBooking(ctx context.Context, req *BookingIDRequest) (*Booking, error) {
	userID, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.bookings.CancelBooking(ctx, userID, req.BookingID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toPBBooking(cancelled), nil
}

func (s *Server) GetBooking(ctx context.Context, req *BookingIDRequest) (*Booking, error) {
	userID, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	b, err := s.bookings.GetBooking(ctx, userID, req.BookingID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toPBBooking(b), nil
}

func (s *Server) ListBookings(ctx context.Context, _ *ListBookingsRequest) (*ListBookingsResponse, error) {
	userID, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListBookings(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &ListBookingsResponse{Bookings: make([]*Booking, 0, len(bookings))}
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, toPBBooking(&bookings[i]))
	}
	return resp, nil
}

func userFromContext(ctx context.Context) (string, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	if values := md.Get(UserIDMetadataKey); len(values) > 0 && values[0] != "" {
		return values[0], nil
	}
	return "", status.Error(codes.Unauthenticated, "missing "+UserIDMetadataKey+" metadata")
}

func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrTravelOptionNotFound), errors.Is(err, domain.ErrBookingNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrNotOwner):
		code = codes.PermissionDenied
	case errors.Is(err, domain.ErrInsufficientSeats), errors.Is(err, domain.ErrAlreadyCancelled):
		code = codes.FailedPrecondition
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

func toPBBooking(b *domain.Booking) *Booking {
	if b == nil {
		return nil
	}

	return &Booking{
		ID:             b.ID,
		UserID:         b.UserID,
		TravelOptionID: b.TravelOptionID,
		NumberOfSeats:  b.Seats,
		TotalPrice:     b.TotalPrice.StringFixed(2),
		BookingDate:    b.BookedAt.UTC().Format(time.RFC3339),
		Status:         b.Status.String(),
	}
}

var _ BookingsServiceServer = (*Server)(nil)
