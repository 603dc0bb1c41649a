package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	backupPrefix     = "vitals_"
	backupSuffix     = ".db"
	backupDateFormat = "20060102"
)

// BackupVitalsDatabase snapshots db into one file per calendar day, then
// applies retention. The snapshot is written beside today's file and renamed
// over it, so a failed run leaves the previous snapshot in place.
func BackupVitalsDatabase(db *sql.DB, config *BackupConfig) error {
	if !config.Enabled {
		return nil
	}

	if err := os.MkdirAll(config.BackupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := time.Now()
	final := filepath.Join(config.BackupDir, backupFileName(now))
	partial := final + ".partial"

	// VACUUM INTO refuses an existing target
	if err := os.Remove(partial); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear partial backup: %w", err)
	}

	quoted := strings.ReplaceAll(partial, "'", "''")
	if _, err := db.Exec(fmt.Sprintf("VACUUM INTO '%s'", quoted)); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := os.Rename(partial, final); err != nil {
		return fmt.Errorf("failed to publish backup: %w", err)
	}

	if err := pruneBackups(config, now); err != nil {
		return fmt.Errorf("backup succeeded but cleanup failed: %w", err)
	}

	return nil
}

// CleanupVitalsBackups removes backups older than the retention period
func CleanupVitalsBackups(config *BackupConfig) error {
	return pruneBackups(config, time.Now())
}

// pruneBackups keeps today's file plus RetentionDays earlier calendar days.
// A retention of 0 keeps only today's.
func pruneBackups(config *BackupConfig, now time.Time) error {
	files, err := os.ReadDir(config.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	oldest := retentionCutoff(now, config.RetentionDays)

	for _, file := range files {
		day, ok := backupDate(file.Name())
		if !ok || !day.Before(oldest) {
			continue
		}

		if err := os.Remove(filepath.Join(config.BackupDir, file.Name())); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", file.Name(), err)
		}
	}

	return nil
}

// retentionCutoff is the earliest backup day kept, in the same calendar
// terms as backup file names
func retentionCutoff(now time.Time, retentionDays int) time.Time {
	if retentionDays < 0 {
		retentionDays = 0
	}
	y, m, d := now.AddDate(0, 0, -retentionDays).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ListVitalsBackups returns backup file names, oldest first
func ListVitalsBackups(config *BackupConfig) ([]string, error) {
	files, err := os.ReadDir(config.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := make([]string, 0)
	for _, file := range files {
		if _, ok := backupDate(file.Name()); ok {
			backups = append(backups, file.Name())
		}
	}

	// filename order is chronological
	sort.Strings(backups)
	return backups, nil
}

func backupFileName(t time.Time) string {
	return backupPrefix + t.Format(backupDateFormat) + backupSuffix
}

// backupDate reads the calendar day from a backup file name, as UTC midnight
func backupDate(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return time.Time{}, false
	}

	datePart := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
	t, err := time.Parse(backupDateFormat, datePart)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
