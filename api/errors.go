package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error          string `json:"error"`
	AvailableSeats *int   `json:"available_seats,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTravelOptionNotFound), errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientSeats), errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError hides infrastructure failures behind a generic message.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var seatsErr *domain.InsufficientSeatsError
	if errors.As(err, &seatsErr) {
		available := seatsErr.Available
		resp.AvailableSeats = &available
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		resp.Error = "internal error"
	}
	c.JSON(status, resp)
}
