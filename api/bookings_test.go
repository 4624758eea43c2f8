package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, userID string, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, userID string, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func newBookingContext(method, target, body, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set(userIDKey, userID)
	}
	return c, w
}

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:             5,
		UserID:         "alice",
		TravelOptionID: 1,
		Seats:          3,
		TotalPrice:     decimal.RequireFromString("300"),
		BookedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:         status,
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	c, w := newBookingContext("POST", "/api/v1/travel-options/1/bookings", `{"number_of_seats":3}`, "alice")
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	input := booking.CreateBookingInput{UserID: "alice", TravelOptionID: 1, Seats: 3}
	mockService.On("CreateBooking", c.Request.Context(), input).Return(sampleBooking(domain.BookingStatusConfirmed), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(5), response.ID)
	assert.Equal(t, "300.00", response.TotalPrice)
	assert.Equal(t, "Confirmed", response.Status)
	assert.Equal(t, "2026-03-01T10:00:00Z", response.BookingDate)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_createInsufficientSeats(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	c, w := newBookingContext("POST", "/api/v1/travel-options/1/bookings", `{"number_of_seats":3}`, "bob")
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	mockService.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, &domain.InsufficientSeatsError{TravelOptionID: 1, Requested: 3, Available: 2})

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.AvailableSeats)
	assert.Equal(t, 2, *response.AvailableSeats)
}

func TestBookingHandler_createBadInput(t *testing.T) {
	tests := []struct {
		name  string
		param string
		body  string
	}{
		{name: "non-numeric id", param: "abc", body: `{"number_of_seats":1}`},
		{name: "malformed body", param: "1", body: `{"number_of_seats":"many"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			log, _ := test.NewNullLogger()
			handler := NewBookingHandler(mockService, log)

			c, w := newBookingContext("POST", "/api/v1/travel-options/"+tt.param+"/bookings", tt.body, "alice")
			c.Params = gin.Params{{Key: "id", Value: tt.param}}

			handler.create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingHandler_cancel(t *testing.T) {
	tests := []struct {
		name     string
		result   *domain.Booking
		err      error
		wantCode int
	}{
		{name: "cancelled", result: sampleBooking(domain.BookingStatusCancelled), wantCode: http.StatusOK},
		{name: "not found", err: domain.ErrBookingNotFound, wantCode: http.StatusNotFound},
		{name: "not owner", err: domain.ErrNotOwner, wantCode: http.StatusForbidden},
		{name: "already cancelled", err: domain.ErrAlreadyCancelled, wantCode: http.StatusConflict},
		{name: "database down", err: assert.AnError, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			log, _ := test.NewNullLogger()
			handler := NewBookingHandler(mockService, log)

			c, w := newBookingContext("POST", "/api/v1/bookings/5/cancel", "", "alice")
			c.Params = gin.Params{{Key: "id", Value: "5"}}

			if tt.result != nil {
				mockService.On("CancelBooking", c.Request.Context(), "alice", int64(5)).Return(tt.result, nil)
			} else {
				mockService.On("CancelBooking", c.Request.Context(), "alice", int64(5)).Return(nil, tt.err)
			}

			handler.cancel(c)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), assert.AnError.Error())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	c, w := newBookingContext("GET", "/api/v1/bookings/5", "", "alice")
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	mockService.On("GetBooking", c.Request.Context(), "alice", int64(5)).Return(sampleBooking(domain.BookingStatusConfirmed), nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	c, w := newBookingContext("GET", "/api/v1/bookings", "", "alice")

	mockService.On("ListBookings", c.Request.Context(), "alice").
		Return([]domain.Booking{*sampleBooking(domain.BookingStatusConfirmed), *sampleBooking(domain.BookingStatusCancelled)}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)
	assert.Equal(t, "Cancelled", response[1].Status)

	mockService.AssertExpectations(t)
}
