package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var _ SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo stores saved overlay settings as opaque blobs by key.
type SettingsRepo struct {
	db  *DB
	now func() time.Time
}

func NewSettingsRepository(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db, now: time.Now}
}

// GetSetting returns nil when key has never been saved.
func (r *SettingsRepo) GetSetting(key string) (*Setting, error) {
	var s Setting
	var value string
	err := r.db.QueryRow(`
		SELECT key, value, updated_at
		FROM settings
		WHERE key = ?
	`, key).Scan(&s.Key, &value, &s.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	s.Value = []byte(value)
	return &s, nil
}

func (r *SettingsRepo) PutSetting(key string, value []byte) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(value), r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

func (r *SettingsRepo) DeleteSetting(key string) error {
	if _, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
