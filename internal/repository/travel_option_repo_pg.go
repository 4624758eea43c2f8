package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// TxManager runs fn in a transaction, joining the one already carried by ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TravelOptionRepository is the seat inventory. ReserveSeats and ReleaseSeats
// are the only writers of available_seats.
type TravelOptionRepository interface {
	List(ctx context.Context, filter domain.ListFilter) ([]domain.TravelOption, error)
	GetByID(ctx context.Context, id int64) (*domain.TravelOption, error)
	Create(ctx context.Context, option *domain.TravelOption) error
	ReserveSeats(ctx context.Context, id int64, count int) (*domain.TravelOption, error)
	ReleaseSeats(ctx context.Context, id int64, count int) (*domain.TravelOption, error)
	Discrepancies(ctx context.Context) ([]domain.InventoryDiscrepancy, error)
}

type PGTravelOptionRepository struct {
	db     *pgxpool.Pool
	tx     TxManager
	getter *trmpgx.CtxGetter
	log    logrus.FieldLogger
}

func NewTravelOptionRepository(db *pgxpool.Pool, tx TxManager, log logrus.FieldLogger) TravelOptionRepository {
	return &PGTravelOptionRepository{db: db, tx: tx, getter: trmpgx.DefaultCtxGetter, log: log}
}

const travelOptionColumns = `id, mode, source, destination, departure_time, price, total_seats, available_seats, created_at, updated_at`

func scanTravelOption(row pgx.Row) (*domain.TravelOption, error) {
	var o domain.TravelOption
	if err := row.Scan(&o.ID, &o.Mode, &o.Source, &o.Destination, &o.DepartureTime, &o.Price, &o.TotalSeats, &o.AvailableSeats, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGTravelOptionRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

func (r *PGTravelOptionRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.TravelOption, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+travelOptionColumns+` FROM travel_options
		WHERE ($1 = '' OR mode = $1)
		AND ($2 = '' OR source ILIKE '%' || $2 || '%')
		AND ($3 = '' OR destination ILIKE '%' || $3 || '%')
		ORDER BY departure_time, id`,
		string(filter.Mode), escapeLike(filter.Source), escapeLike(filter.Destination))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := make([]domain.TravelOption, 0)
	for rows.Next() {
		o, err := scanTravelOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, *o)
	}
	return options, rows.Err()
}

func (r *PGTravelOptionRepository) GetByID(ctx context.Context, id int64) (*domain.TravelOption, error) {
	o, err := scanTravelOption(r.conn(ctx).QueryRow(ctx, `SELECT `+travelOptionColumns+` FROM travel_options WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTravelOptionNotFound
	}
	return o, err
}

func (r *PGTravelOptionRepository) Create(ctx context.Context, o *domain.TravelOption) error {
	if !o.Mode.Valid() {
		return domain.InvalidRequest("unknown travel mode %q", o.Mode)
	}
	return r.conn(ctx).QueryRow(ctx, `INSERT INTO travel_options (mode, source, destination, departure_time, price, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		string(o.Mode), o.Source, o.Destination, o.DepartureTime, o.Price, o.TotalSeats, o.AvailableSeats).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

// ReserveSeats locks the option row, checks availability and decrements it. The
// lock is held until the surrounding transaction ends.
func (r *PGTravelOptionRepository) ReserveSeats(ctx context.Context, id int64, count int) (*domain.TravelOption, error) {
	if count <= 0 {
		return nil, domain.InvalidRequest("seat count must be positive, got %d", count)
	}

	var reserved *domain.TravelOption
	err := r.tx.Do(ctx, func(ctx context.Context) error {
		option, err := r.lock(ctx, id)
		if err != nil {
			return err
		}
		if option.AvailableSeats < count {
			return &domain.InsufficientSeatsError{TravelOptionID: id, Requested: count, Available: option.AvailableSeats}
		}
		if err := r.adjustSeats(ctx, option, -count); err != nil {
			return err
		}
		reserved = option
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reserved, nil
}

// ReleaseSeats locks the option row and gives count seats back. The result is
// not capped at total capacity.
func (r *PGTravelOptionRepository) ReleaseSeats(ctx context.Context, id int64, count int) (*domain.TravelOption, error) {
	if count <= 0 {
		return nil, domain.InvalidRequest("seat count must be positive, got %d", count)
	}

	var released *domain.TravelOption
	err := r.tx.Do(ctx, func(ctx context.Context) error {
		option, err := r.lock(ctx, id)
		if err != nil {
			return err
		}
		if err := r.adjustSeats(ctx, option, count); err != nil {
			return err
		}
		released = option
		return nil
	})
	if err != nil {
		return nil, err
	}

	if released.AvailableSeats > released.TotalSeats {
		r.log.WithFields(logrus.Fields{
			"travel_option_id": id,
			"available_seats":  released.AvailableSeats,
			"total_seats":      released.TotalSeats,
		}).Warn("released seats exceed capacity")
	}
	return released, nil
}

func (r *PGTravelOptionRepository) lock(ctx context.Context, id int64) (*domain.TravelOption, error) {
	option, err := scanTravelOption(r.conn(ctx).QueryRow(ctx, `SELECT `+travelOptionColumns+` FROM travel_options WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTravelOptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock travel option %d: %w", id, err)
	}
	return option, nil
}

func (r *PGTravelOptionRepository) adjustSeats(ctx context.Context, option *domain.TravelOption, delta int) error {
	err := r.conn(ctx).QueryRow(ctx, `UPDATE travel_options SET available_seats = available_seats + $2, updated_at = now() WHERE id=$1 RETURNING available_seats, updated_at`, option.ID, delta).
		Scan(&option.AvailableSeats, &option.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update seats of travel option %d: %w", option.ID, err)
	}
	return nil
}

func (r *PGTravelOptionRepository) Discrepancies(ctx context.Context) ([]domain.InventoryDiscrepancy, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT t.id, t.total_seats, t.available_seats,
			COALESCE(SUM(b.number_of_seats) FILTER (WHERE b.status = 'Confirmed'), 0) AS confirmed
		FROM travel_options t
		LEFT JOIN bookings b ON b.travel_option_id = t.id
		GROUP BY t.id
		HAVING t.available_seats + COALESCE(SUM(b.number_of_seats) FILTER (WHERE b.status = 'Confirmed'), 0) <> t.total_seats
		ORDER BY t.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InventoryDiscrepancy
	for rows.Next() {
		var d domain.InventoryDiscrepancy
		if err := rows.Scan(&d.TravelOptionID, &d.TotalSeats, &d.AvailableSeats, &d.ConfirmedSeats); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}

var _ TravelOptionRepository = (*PGTravelOptionRepository)(nil)
