package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrBackupUnsupported is returned when the active backend cannot be backed up
	ErrBackupUnsupported = errors.New("backend does not support backups")
	// ErrBackupDisabled is returned when backups are switched off
	ErrBackupDisabled = errors.New("backups are disabled")
)

// backupCreator is implemented by backends that can snapshot themselves
type backupCreator interface {
	CreateBackup(config *BackupConfig) error
}

// Manager owns the configured Backend and the backup policy around it.
// It embeds the backend, so a Manager is itself a Backend.
type Manager struct {
	Backend
	backup BackupConfig
}

// NewManager wraps an existing backend
func NewManager(backend Backend, backup BackupConfig) *Manager {
	return &Manager{
		Backend: backend,
		backup:  backup,
	}
}

// NewManagerFromConfig creates a manager using environment variable configuration
func NewManagerFromConfig() (*Manager, error) {
	return NewManagerWithConfig(LoadConfig())
}

// NewManagerWithConfig opens the backend named by cfg.Kind
func NewManagerWithConfig(cfg *Config) (*Manager, error) {
	var backend Backend
	var err error

	switch cfg.Kind {
	case KindMemory:
		backend = NewMemoryBackend()
	case KindSQLite, "":
		backend, err = NewSQLiteBackend(SQLiteConfig{DBPath: cfg.DBPath})
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
	case KindPostgres:
		backend, err = NewPostgresBackend(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres backend: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown storage kind %q", cfg.Kind)
	}

	return NewManager(backend, cfg.Backup), nil
}

// BackupEnabled reports whether backups are configured and possible
func (m *Manager) BackupEnabled() bool {
	_, ok := m.Backend.(backupCreator)
	return ok && m.backup.Enabled
}

// BackupConfig returns the backup policy
func (m *Manager) BackupConfig() BackupConfig {
	return m.backup
}

// CreateBackup snapshots the backend according to the backup policy
func (m *Manager) CreateBackup() error {
	creator, ok := m.Backend.(backupCreator)
	if !ok {
		return ErrBackupUnsupported
	}
	if !m.backup.Enabled {
		return ErrBackupDisabled
	}

	return creator.CreateBackup(&m.backup)
}

// ListBackups returns the backup files currently on disk
func (m *Manager) ListBackups() ([]string, error) {
	return ListVitalsBackups(&m.backup)
}
