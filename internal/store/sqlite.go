package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"weather-report-service/internal/weather"
)

// SQLiteStore is a SQLite-backed implementation of weather.SampleStore.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection; this also keeps readers
	// from ever observing a half-applied reconciliation.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS weather_samples (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   TIMESTAMP NOT NULL,
			latitude    REAL NOT NULL,
			longitude   REAL NOT NULL,
			temperature REAL NOT NULL,
			humidity    REAL NOT NULL,
			recorded_at TIMESTAMP NOT NULL,
			UNIQUE (latitude, longitude, timestamp)
		);
		CREATE INDEX IF NOT EXISTS idx_weather_samples_timestamp
			ON weather_samples (timestamp);
	`)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceAt deletes every sample stored for the coordinate and inserts the
// given samples, all in one transaction. A failure mid-insert rolls the whole
// reconciliation back, leaving the prior history intact.
func (s *SQLiteStore) ReplaceAt(ctx context.Context, coord weather.Coordinate, samples []weather.Sample) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reconcile: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM weather_samples WHERE latitude = ? AND longitude = ?`,
		coord.Latitude, coord.Longitude,
	); err != nil {
		return 0, fmt.Errorf("delete coordinate history: %w", err)
	}

	if err := insertAll(ctx, tx, samples); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reconcile: %w", err)
	}
	return len(samples), nil
}

// InsertAll bulk-inserts samples without touching existing rows.
func (s *SQLiteStore) InsertAll(ctx context.Context, samples []weather.Sample) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	if err := insertAll(ctx, tx, samples); err != nil {
		return err
	}
	return tx.Commit()
}

func insertAll(ctx context.Context, tx *sql.Tx, samples []weather.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weather_samples
			(timestamp, latitude, longitude, temperature, humidity, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, smp := range samples {
		if _, err := stmt.ExecContext(ctx,
			smp.Timestamp.UTC(), smp.Latitude, smp.Longitude,
			smp.Temperature, smp.Humidity, smp.RecordedAt.UTC(),
		); err != nil {
			return fmt.Errorf("insert sample at %s: %w", smp.Timestamp.UTC().Format(time.RFC3339), err)
		}
	}
	return nil
}

// DeleteAt removes every sample stored for the coordinate.
func (s *SQLiteStore) DeleteAt(ctx context.Context, coord weather.Coordinate) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM weather_samples WHERE latitude = ? AND longitude = ?`,
		coord.Latitude, coord.Longitude,
	)
	if err != nil {
		return fmt.Errorf("delete coordinate history: %w", err)
	}
	return nil
}

// SelectWindow returns samples ordered by timestamp ascending. A nil coord
// selects across all coordinates; a zero since applies no lower bound.
func (s *SQLiteStore) SelectWindow(ctx context.Context, coord *weather.Coordinate, since time.Time) ([]weather.Sample, error) {
	query := `
		SELECT timestamp, latitude, longitude, temperature, humidity, recorded_at
		FROM weather_samples
	`
	var (
		conds []string
		args  []interface{}
	)
	if coord != nil {
		conds = append(conds, "latitude = ? AND longitude = ?")
		args = append(args, coord.Latitude, coord.Longitude)
	}
	if !since.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, since.UTC())
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY timestamp ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select samples: %w", err)
	}
	defer rows.Close()

	var samples []weather.Sample
	for rows.Next() {
		var smp weather.Sample
		if err := rows.Scan(
			&smp.Timestamp, &smp.Latitude, &smp.Longitude,
			&smp.Temperature, &smp.Humidity, &smp.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		smp.Timestamp = smp.Timestamp.UTC()
		smp.RecordedAt = smp.RecordedAt.UTC()
		samples = append(samples, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}
