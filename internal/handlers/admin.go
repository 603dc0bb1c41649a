package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/thisdougb/vitals/internal/config"
	"github.com/thisdougb/vitals/internal/storage"
)

// BackupListResponse describes the backups on disk
type BackupListResponse struct {
	Enabled       bool     `json:"enabled"`
	BackupDir     string   `json:"backup_dir"`
	RetentionDays int      `json:"retention_days"`
	Backups       []string `json:"backups"`
}

// BackupHandler takes a backup now. Answers 503 when the store cannot be
// backed up or backups are switched off.
func BackupHandler(manager *storage.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := config.AppendToContextCorrelationId(r.Context(), "backup")

		err := manager.CreateBackup()
		if errors.Is(err, storage.ErrBackupUnsupported) || errors.Is(err, storage.ErrBackupDisabled) {
			config.LogInfo(ctx, fmt.Sprintf("backup refused: %v", err))
			writeError(w, http.StatusServiceUnavailable, "", CodeUnavailable, "Backups are not available.")
			return
		}
		if err != nil {
			internalError(w, r.WithContext(ctx), "backup failed", err)
			return
		}

		config.LogInfo(ctx, "backup created")
		listBackups(w, r.WithContext(ctx), manager, http.StatusCreated)
	}
}

// ListBackupsHandler lists the backup files in the backup directory
func ListBackupsHandler(manager *storage.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listBackups(w, r, manager, http.StatusOK)
	}
}

func listBackups(w http.ResponseWriter, r *http.Request, manager *storage.Manager, status int) {
	cfg := manager.BackupConfig()

	backups := []string{}
	if cfg.BackupDir != "" {
		files, err := manager.ListBackups()
		if err != nil {
			internalError(w, r, "failed to list backups", err)
			return
		}
		backups = append(backups, files...)
	}

	writeJSON(w, status, BackupListResponse{
		Enabled:       manager.BackupEnabled(),
		BackupDir:     cfg.BackupDir,
		RetentionDays: cfg.RetentionDays,
		Backups:       backups,
	})
}
