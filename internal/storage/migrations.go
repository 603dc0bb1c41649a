package storage

import (
	"database/sql"
	"fmt"
)

// schemaStep is one forward change to the vitals schema. Steps are applied
// in order and recorded in schema_migrations.
type schemaStep struct {
	version int
	name    string
	up      string
}

var vitalsSchema = []schemaStep{
	{
		version: 1,
		name:    "device_vitals table",
		up: `CREATE TABLE device_vitals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			thermal_value INTEGER NOT NULL CHECK (thermal_value BETWEEN 0 AND 3),
			battery_level REAL NOT NULL,
			memory_usage REAL NOT NULL,
			created_at INTEGER DEFAULT (strftime('%s', 'now'))
		);

		CREATE INDEX idx_device_vitals_recent ON device_vitals(timestamp DESC, id DESC);`,
	},
	{
		version: 2,
		name:    "device index",
		up:      `CREATE INDEX idx_device_vitals_device ON device_vitals(device_id);`,
	},
	{
		// unix nanos in an int64 only span 1678 to 2262, so the instant is
		// split into whole seconds and a 0..999999999 nanosecond part
		version: 3,
		name:    "seconds and nanos timestamp",
		up: `CREATE TABLE device_vitals_v3 (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id TEXT NOT NULL,
			ts_seconds INTEGER NOT NULL,
			ts_nanos INTEGER NOT NULL CHECK (ts_nanos BETWEEN 0 AND 999999999),
			thermal_value INTEGER NOT NULL CHECK (thermal_value BETWEEN 0 AND 3),
			battery_level REAL NOT NULL,
			memory_usage REAL NOT NULL,
			created_at INTEGER DEFAULT (strftime('%s', 'now'))
		);

		INSERT INTO device_vitals_v3
			(id, device_id, ts_seconds, ts_nanos, thermal_value, battery_level, memory_usage, created_at)
		SELECT id, device_id,
			(timestamp - ((timestamp % 1000000000) + 1000000000) % 1000000000) / 1000000000,
			((timestamp % 1000000000) + 1000000000) % 1000000000,
			thermal_value, battery_level, memory_usage, created_at
		FROM device_vitals;

		DROP TABLE device_vitals;
		ALTER TABLE device_vitals_v3 RENAME TO device_vitals;

		CREATE INDEX idx_device_vitals_recent ON device_vitals(ts_seconds DESC, ts_nanos DESC, id DESC);
		CREATE INDEX idx_device_vitals_device ON device_vitals(device_id);`,
	},
}

// migrate brings db up to the latest vitals schema
func migrate(db *sql.DB) error {
	return migrateTo(db, vitalsSchema)
}

func migrateTo(db *sql.DB, steps []schemaStep) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, step := range steps {
		if step.version <= current {
			continue
		}
		if err := applyStep(db, step); err != nil {
			return fmt.Errorf("migration %d (%s): %w", step.version, step.name, err)
		}
	}

	return nil
}

func applyStep(db *sql.DB, step schemaStep) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(step.up); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		step.version, step.name); err != nil {
		return err
	}

	return tx.Commit()
}

// SchemaVersion returns the highest applied schema step, 0 for a new file
func SchemaVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	return version, err
}
