package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const vitalColumns = `id, device_id, ts_seconds, ts_nanos, thermal_value, battery_level, memory_usage`

const historyOrder = `ORDER BY ts_seconds DESC, ts_nanos DESC, id DESC`

// SQLiteBackend implements Backend interface using SQLite database
type SQLiteBackend struct {
	db *sql.DB
}

// SQLiteConfig holds configuration for SQLite backend
type SQLiteConfig struct {
	DBPath string
}

// NewSQLiteBackend opens the database, applies migrations and returns a
// ready backend. Writes go straight to the table; there is no write queue.
func NewSQLiteBackend(config SQLiteConfig) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Insert writes one reading and returns it with the assigned id
func (s *SQLiteBackend) Insert(ctx context.Context, vital Vital) (Vital, error) {
	ts := vital.Timestamp.UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO device_vitals (device_id, ts_seconds, ts_nanos, thermal_value, battery_level, memory_usage)
		VALUES (?, ?, ?, ?, ?, ?)`,
		vital.DeviceID,
		ts.Unix(),
		ts.Nanosecond(),
		vital.ThermalValue,
		vital.BatteryLevel,
		vital.MemoryUsage,
	)
	if err != nil {
		return Vital{}, fmt.Errorf("failed to insert vital: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Vital{}, fmt.Errorf("failed to read inserted id: %w", err)
	}

	vital.ID = id
	vital.Timestamp = ts
	return vital, nil
}

// Count returns the number of stored readings
func (s *SQLiteBackend) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM device_vitals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count vitals: %w", err)
	}
	return count, nil
}

// Latest returns up to n of the newest readings
func (s *SQLiteBackend) Latest(ctx context.Context, n int) ([]Vital, error) {
	return s.query(ctx,
		`SELECT `+vitalColumns+` FROM device_vitals `+historyOrder+` LIMIT ?`, n)
}

// Page returns one page of history plus the total count. The count and the
// range are separate queries; the table is never scanned in full.
func (s *SQLiteBackend) Page(ctx context.Context, page, pageSize int) ([]Vital, int64, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	vitals, err := s.query(ctx,
		`SELECT `+vitalColumns+` FROM device_vitals `+historyOrder+` LIMIT ? OFFSET ?`,
		pageSize, pageOffset(page, pageSize))
	if err != nil {
		return nil, 0, err
	}

	return vitals, total, nil
}

// Get returns the reading with the given id
func (s *SQLiteBackend) Get(ctx context.Context, id int64) (Vital, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+vitalColumns+` FROM device_vitals WHERE id = ?`, id)

	vital, err := scanVital(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Vital{}, ErrNotFound
	}
	if err != nil {
		return Vital{}, fmt.Errorf("failed to get vital %d: %w", id, err)
	}
	return vital, nil
}

// Close closes the database connection
func (s *SQLiteBackend) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateBackup creates a backup of the SQLite database using the existing connection
// This avoids file locking issues by using the same database connection
func (s *SQLiteBackend) CreateBackup(config *BackupConfig) error {
	if s.db == nil {
		return fmt.Errorf("no database connection available")
	}

	return BackupVitalsDatabase(s.db, config)
}

func (s *SQLiteBackend) query(ctx context.Context, query string, args ...interface{}) ([]Vital, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vitals: %w", err)
	}
	defer rows.Close()

	vitals := make([]Vital, 0)
	for rows.Next() {
		vital, err := scanVital(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vital: %w", err)
		}
		vitals = append(vitals, vital)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return vitals, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVital(row rowScanner) (Vital, error) {
	var v Vital
	var seconds, nanos int64

	err := row.Scan(&v.ID, &v.DeviceID, &seconds, &nanos, &v.ThermalValue, &v.BatteryLevel, &v.MemoryUsage)
	if err != nil {
		return Vital{}, err
	}

	v.Timestamp = time.Unix(seconds, nanos).UTC()
	return v, nil
}
