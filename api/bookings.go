package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     logrus.FieldLogger
}

type createBookingRequest struct {
	NumberOfSeats int `json:"number_of_seats"`
}

type bookingResponse struct {
	ID             int64  `json:"id"`
	UserID         string `json:"user_id"`
	TravelOptionID int64  `json:"travel_option_id"`
	NumberOfSeats  int    `json:"number_of_seats"`
	TotalPrice     string `json:"total_price"`
	BookingDate    string `json:"booking_date"`
	Status         string `json:"status"`
}

func NewBookingHandler(service booking.BookingUseCase, log logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

// Register expects a group behind requireUser.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/travel-options/:id/bookings", h.create)
	router.GET("/bookings", h.list)
	router.GET("/bookings/:id", h.get)
	router.POST("/bookings/:id/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	optionID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, domain.InvalidRequest("%v", err))
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:         c.GetString(userIDKey),
		TravelOptionID: optionID,
		Seats:          req.NumberOfSeats,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), c.GetString(userIDKey), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	b, err := h.service.CancelBooking(c.Request.Context(), c.GetString(userIDKey), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, h.log, domain.InvalidRequest("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		TravelOptionID: b.TravelOptionID,
		NumberOfSeats:  b.Seats,
		TotalPrice:     b.TotalPrice.StringFixed(2),
		BookingDate:    b.BookedAt.UTC().Format(time.RFC3339),
		Status:         b.Status.String(),
	}
}
