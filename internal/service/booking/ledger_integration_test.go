package booking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/repository/pgtest"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerPostgres_CreateAndCancel(t *testing.T) {
	pool := pgtest.Start(t)
	log, _ := test.NewNullLogger()
	tx := repository.NewTxManager(pool)
	inventory := repository.NewTravelOptionRepository(pool, tx, log)
	bookings := repository.NewBookingRepository(pool)
	ledger := booking.NewBookingService(bookings, inventory, tx, booking.WithLogger(log))
	ctx := context.Background()

	option := &domain.TravelOption{
		Mode:           domain.TravelModeBus,
		Source:         "Pune",
		Destination:    "Goa",
		DepartureTime:  time.Now().Add(72 * time.Hour).UTC(),
		Price:          decimal.RequireFromString("100.00"),
		TotalSeats:     5,
		AvailableSeats: 5,
	}
	require.NoError(t, inventory.Create(ctx, option))

	var (
		wg      sync.WaitGroup
		results = make([]error, 2)
	)
	for i, user := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			_, results[i] = ledger.CreateBooking(ctx, booking.CreateBookingInput{UserID: user, TravelOptionID: option.ID, Seats: 3})
		}(i, user)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientSeats)
	}
	require.Equal(t, 1, succeeded)

	stored, err := inventory.GetByID(ctx, option.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AvailableSeats)

	var owner string
	var mine []domain.Booking
	for _, user := range []string{"alice", "bob"} {
		list, err := ledger.ListBookings(ctx, user)
		require.NoError(t, err)
		if len(list) == 1 {
			owner, mine = user, list
		}
	}
	require.Len(t, mine, 1)
	assert.Equal(t, "300.00", mine[0].TotalPrice.StringFixed(2))

	_, err = ledger.CancelBooking(ctx, "mallory", mine[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	cancelled, err := ledger.CancelBooking(ctx, owner, mine[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)

	_, err = ledger.CancelBooking(ctx, owner, mine[0].ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	stored, err = inventory.GetByID(ctx, option.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.AvailableSeats)

	found, err := inventory.Discrepancies(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)
}
