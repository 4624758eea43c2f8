package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitializeSchema creates the tables if they do not exist yet.
//
// available_seats has no upper CHECK against total_seats: releases are not
// capped, mismatches are reported by Discrepancies instead.
func InitializeSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS travel_options (
	id BIGSERIAL PRIMARY KEY,
	mode VARCHAR(20) NOT NULL CHECK (mode IN ('Flight', 'Train', 'Bus')),
	source VARCHAR(100) NOT NULL,
	destination VARCHAR(100) NOT NULL,
	departure_time TIMESTAMPTZ NOT NULL,
	price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
	total_seats INTEGER NOT NULL CHECK (total_seats >= 0),
	available_seats INTEGER NOT NULL CHECK (available_seats >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create travel_options table: %w", err)
	}

	_, err = db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	user_id VARCHAR(255) NOT NULL,
	travel_option_id BIGINT NOT NULL REFERENCES travel_options(id),
	number_of_seats INTEGER NOT NULL CHECK (number_of_seats > 0),
	total_price NUMERIC(12, 2) NOT NULL,
	booking_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	status VARCHAR(10) NOT NULL DEFAULT 'Confirmed' CHECK (status IN ('Confirmed', 'Cancelled')),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create bookings table: %w", err)
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS bookings_user_id_idx ON bookings (user_id, booking_date DESC)`,
		`CREATE INDEX IF NOT EXISTS bookings_travel_option_id_idx ON bookings (travel_option_id)`,
		`CREATE INDEX IF NOT EXISTS travel_options_departure_idx ON travel_options (departure_time)`,
	} {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// ResetData deletes every booking and travel option and restarts the id
// sequences.
func ResetData(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, `TRUNCATE bookings, travel_options RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to reset data: %w", err)
	}
	return nil
}
