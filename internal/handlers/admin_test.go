package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thisdougb/vitals/internal/core"
	"github.com/thisdougb/vitals/internal/storage"
)

func newAdminRouter(t *testing.T, backend storage.Backend, backup storage.BackupConfig) http.Handler {
	t.Helper()
	svc := core.NewService(backend, core.DefaultSettings(), core.WithClock(fixedClock(testNow)))
	return NewRouter(RouterConfig{
		Service: svc,
		Manager: storage.NewManager(backend, backup),
	})
}

func TestBackup_Unsupported(t *testing.T) {

	backup := storage.BackupConfig{Enabled: true, BackupDir: t.TempDir(), RetentionDays: 30}
	h := newAdminRouter(t, storage.NewMemoryBackend(), backup)

	rec := do(h, http.MethodPost, "/admin/backup", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, CodeUnavailable, decodeError(t, rec)["code"])

	rec = do(h, http.MethodGet, "/admin/backups", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list BackupListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.False(t, list.Enabled)
	assert.Empty(t, list.Backups)
}

func TestBackup_Disabled(t *testing.T) {

	dir := t.TempDir()
	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{DBPath: filepath.Join(dir, "vitals.db")})
	require.NoError(t, err)
	defer backend.Close()

	h := newAdminRouter(t, backend, storage.BackupConfig{Enabled: false, BackupDir: filepath.Join(dir, "backups")})

	rec := do(h, http.MethodPost, "/admin/backup", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBackup_SQLite(t *testing.T) {

	dir := t.TempDir()
	backend, err := storage.NewSQLiteBackend(storage.SQLiteConfig{DBPath: filepath.Join(dir, "vitals.db")})
	require.NoError(t, err)
	defer backend.Close()

	backup := storage.BackupConfig{
		Enabled:        true,
		BackupDir:      filepath.Join(dir, "backups"),
		RetentionDays:  30,
		BackupInterval: 24 * time.Hour,
	}
	h := newAdminRouter(t, backend, backup)

	rec := do(h, http.MethodPost, "/api/vitals", validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(h, http.MethodPost, "/admin/backup", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var list BackupListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.True(t, list.Enabled)
	assert.Equal(t, 30, list.RetentionDays)
	require.Len(t, list.Backups, 1)
	assert.Equal(t, "vitals_"+time.Now().Format("20060102")+".db", list.Backups[0])

	// a second backup the same day replaces the first
	rec = do(h, http.MethodPost, "/admin/backup", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Backups, 1)
}
