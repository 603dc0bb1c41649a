package storage

import (
	"time"

	"github.com/thisdougb/vitals/internal/config"
)

// Storage kinds accepted in VITALS_STORAGE
const (
	KindMemory   = "memory"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// BackupConfig holds backup-specific configuration
type BackupConfig struct {
	Enabled        bool
	BackupDir      string
	RetentionDays  int
	BackupInterval time.Duration
}

// Config holds all configuration options for the vital record store
type Config struct {
	Kind        string
	DBPath      string
	PostgresDSN string
	Backup      BackupConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	cfg := &Config{
		Kind:        config.StringValue("VITALS_STORAGE"),
		DBPath:      config.StringValue("VITALS_DB_PATH"),
		PostgresDSN: config.StringValue("VITALS_POSTGRES_DSN"),
		Backup: BackupConfig{
			Enabled:        config.BoolValue("VITALS_BACKUP_ENABLED"),
			BackupDir:      config.StringValue("VITALS_BACKUP_DIR"),
			RetentionDays:  config.IntValue("VITALS_BACKUP_RETENTION_DAYS"),
			BackupInterval: config.DurationValue("VITALS_BACKUP_INTERVAL"),
		},
	}

	if cfg.Backup.RetentionDays < 0 {
		cfg.Backup.RetentionDays = 0
	}

	return cfg
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *Config {
	return &Config{
		Kind:   KindMemory,
		DBPath: ":memory:",
	}
}
