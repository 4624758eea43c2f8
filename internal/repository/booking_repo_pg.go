package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelbooking/internal/domain"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, booking *domain.Booking) error
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db, getter: trmpgx.DefaultCtxGetter}
}

const bookingColumns = `id, user_id, travel_option_id, number_of_seats, total_price, booking_date, status, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b      domain.Booking
		status string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.TravelOptionID, &b.Seats, &b.TotalPrice, &b.BookedAt, &status, &b.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}
	b.Status = parsed
	return &b, nil
}

func (r *PGBookingRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.conn(ctx).QueryRow(ctx, `INSERT INTO bookings (user_id, travel_option_id, number_of_seats, total_price, booking_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, updated_at`,
		b.UserID, b.TravelOptionID, b.Seats, b.TotalPrice, b.BookedAt, b.Status.String()).
		Scan(&b.ID, &b.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
}

// GetForUpdate locks the booking row for the rest of the transaction so that
// racing cancellations of the same booking serialize.
func (r *PGBookingRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
}

func (r *PGBookingRepository) get(ctx context.Context, query string, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.conn(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, b *domain.Booking) error {
	err := r.conn(ctx).QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING updated_at`, b.Status.String(), b.ID).
		Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrBookingNotFound
	}
	return err
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY booking_date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
