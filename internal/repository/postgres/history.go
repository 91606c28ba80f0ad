package postgres

import (
	"context"
	"database/sql"
	"time"

	"bakkie/internal/domain"
)

// HistoryArchive is a PostgreSQL implementation of repository.HistoryArchive.
//
// Expected schema:
//
//	CREATE TABLE trip_history (
//	    id          TEXT PRIMARY KEY,
//	    trip_date   DATE NOT NULL,
//	    pickup      TEXT NOT NULL,
//	    dropoff     TEXT NOT NULL,
//	    price       BIGINT NOT NULL,
//	    vehicle     TEXT NOT NULL,
//	    driver_name TEXT NOT NULL,
//	    status      TEXT NOT NULL,
//	    recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type HistoryArchive struct {
	q Querier
}

// NewHistoryArchive creates a new PostgreSQL history archive.
func NewHistoryArchive(db *sql.DB) *HistoryArchive {
	return &HistoryArchive{q: db}
}

// NewHistoryArchiveWithTx creates a history archive using a transaction.
func NewHistoryArchiveWithTx(tx *sql.Tx) *HistoryArchive {
	return &HistoryArchive{q: tx}
}

// Record persists a completed trip.
func (r *HistoryArchive) Record(ctx context.Context, entry *domain.TripHistoryEntry) error {
	query := `
		INSERT INTO trip_history (id, trip_date, pickup, dropoff, price, vehicle, driver_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	date, err := time.Parse("2006-01-02", entry.Date)
	if err != nil {
		date = time.Now()
	}

	_, err = r.q.ExecContext(ctx, query,
		entry.ID,
		date,
		entry.Pickup,
		entry.Dropoff,
		entry.Price,
		entry.Vehicle,
		entry.Driver,
		entry.Status,
	)

	return err
}

// List retrieves up to limit archived trips, newest first.
func (r *HistoryArchive) List(ctx context.Context, limit int) ([]*domain.TripHistoryEntry, error) {
	query := `
		SELECT id, trip_date, pickup, dropoff, price, vehicle, driver_name, status
		FROM trip_history
		ORDER BY recorded_at DESC
		LIMIT $1
	`

	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TripHistoryEntry
	for rows.Next() {
		var entry domain.TripHistoryEntry
		var date time.Time

		if err := rows.Scan(
			&entry.ID,
			&date,
			&entry.Pickup,
			&entry.Dropoff,
			&entry.Price,
			&entry.Vehicle,
			&entry.Driver,
			&entry.Status,
		); err != nil {
			return nil, err
		}

		entry.Date = date.Format("2006-01-02")
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
