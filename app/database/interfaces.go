package database

import (
	"time"
)

type Setting struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type SettingsRepository interface {
	GetSetting(key string) (*Setting, error)
	PutSetting(key string, value []byte) error
	DeleteSetting(key string) error
}
