package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "overlay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	return db
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestSettingsRepo_GetMissing(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))

	s, err := repo.GetSetting("obs_overlay_settings_v2")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSettingsRepo_PutAndOverwrite(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))

	require.NoError(t, repo.PutSetting("k", []byte(`{"quakeMinScale":40}`)))
	require.NoError(t, repo.PutSetting("k", []byte(`{"quakeMinScale":50}`)))

	s, err := repo.GetSetting("k")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "k", s.Key)
	assert.JSONEq(t, `{"quakeMinScale":50}`, string(s.Value))
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestSettingsRepo_Delete(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))

	require.NoError(t, repo.PutSetting("k", []byte(`{}`)))
	require.NoError(t, repo.DeleteSetting("k"))

	s, err := repo.GetSetting("k")
	require.NoError(t, err)
	assert.Nil(t, s)
}
