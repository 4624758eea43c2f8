package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInsufficientSeats    = errors.New("insufficient seats")
	ErrTravelOptionNotFound = errors.New("travel option not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrNotOwner             = errors.New("booking belongs to another user")
	ErrAlreadyCancelled     = errors.New("booking is already cancelled")
)

// InsufficientSeatsError reports availability at the moment of the locked check.
type InsufficientSeatsError struct {
	TravelOptionID int64
	Requested      int
	Available      int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("travel option %d: requested %d seats, only %d available", e.TravelOptionID, e.Requested, e.Available)
}

func (e *InsufficientSeatsError) Is(target error) bool {
	return target == ErrInsufficientSeats
}

func InvalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// IsBusinessError reports whether err is one of the typed booking outcomes as
// opposed to an infrastructure failure.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		ErrInsufficientSeats,
		ErrTravelOptionNotFound,
		ErrBookingNotFound,
		ErrNotOwner,
		ErrAlreadyCancelled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
