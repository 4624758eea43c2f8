package bookings_service_api

type CreateBookingRequest struct {
	TravelOptionID int64 `json:"travel_option_id"`
	NumberOfSeats  int   `json:"number_of_seats"`
}

type BookingIDRequest struct {
	BookingID int64 `json:"booking_id"`
}

type ListBookingsRequest struct{}

type Booking struct {
	ID             int64  `json:"id"`
	UserID         string `json:"user_id"`
	TravelOptionID int64  `json:"travel_option_id"`
	NumberOfSeats  int    `json:"number_of_seats"`
	TotalPrice     string `json:"total_price"`
	BookingDate    string `json:"booking_date"`
	Status         string `json:"status"`
}

type ListBookingsResponse struct {
	Bookings []*Booking `json:"bookings"`
}
