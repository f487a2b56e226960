package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/obs-overlay/app/database"
	"github.com/lysyi3m/obs-overlay/app/overlay"
)

const (
	InitialNewsRSS   = "https://news.yahoo.co.jp/rss/media/hokkaibun/all.xml"
	InitialNewsProxy = "https://api.allorigins.win/raw?url="
	InitialNewsSpeed = 90

	SoundWarning = "⚠ 音レベル2の閾値はレベル1より「大きい震度」を推奨します（同じ・小さいと区別がつきません）"
)

// Preview is everything the settings form shows for the current input.
type Preview struct {
	TimeBody     bool   `json:"timeBody"`
	QuakeBody    bool   `json:"quakeBody"`
	NewsBody     bool   `json:"newsBody"`
	PrefCount    string `json:"prefCount"`
	SoundWarning string `json:"soundWarning,omitempty"`
	URL          string `json:"url"`
}

type Service struct {
	repo    database.SettingsRepository
	baseURL string
}

func NewService(repo database.SettingsRepository, baseURL string) *Service {
	return &Service{repo: repo, baseURL: baseURL}
}

// InitialForm is what the settings form starts from. The saved blob is
// deliberately not consulted, so reloading the form resets it.
func InitialForm() overlay.Config {
	cfg := overlay.Defaults()
	cfg.NewsRSS = InitialNewsRSS
	cfg.NewsProxy = InitialNewsProxy
	cfg.NewsSpeed = InitialNewsSpeed
	return cfg
}

// Preview recomputes the derived form state without saving anything.
func (s *Service) Preview(form overlay.Config) Preview {
	return Preview{
		TimeBody:     form.TimeOn,
		QuakeBody:    form.QuakeOn,
		NewsBody:     form.NewsOn,
		PrefCount:    PrefCount(form.QuakePrefs),
		SoundWarning: soundWarning(form),
		URL:          form.Normalize().OverlayURL(s.baseURL, overlay.URLOptions{}),
	}
}

// PrefCount counts the distinct known prefectures ticked in the form.
func PrefCount(prefs []string) string {
	seen := make(map[string]struct{}, len(prefs))
	for _, p := range prefs {
		if overlay.IsPrefecture(p) {
			seen[p] = struct{}{}
		}
	}
	return fmt.Sprintf("%d / %d 選択中", len(seen), len(overlay.Prefectures))
}

func soundWarning(form overlay.Config) string {
	if form.Sound1Min > 0 && form.Sound2Min > 0 && form.Sound2Min <= form.Sound1Min {
		return SoundWarning
	}
	return ""
}

// Build saves the form and returns its overlay URL. The dev variant points
// the quake feed at the sandbox and turns on the test badge.
func (s *Service) Build(form overlay.Config, dev bool) (string, error) {
	cfg := form.Normalize()

	blob, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.repo.PutSetting(overlay.StorageKey, blob); err != nil {
		return "", fmt.Errorf("failed to save settings: %w", err)
	}

	return s.URL(cfg, dev), nil
}

// URL builds the overlay URL for form without saving it.
func (s *Service) URL(form overlay.Config, dev bool) string {
	return form.Normalize().OverlayURL(s.baseURL, overlay.URLOptions{Sandbox: dev, Test: dev})
}

// Saved returns the stored blob, or nil when nothing usable is stored.
func (s *Service) Saved() []byte {
	setting, err := s.repo.GetSetting(overlay.StorageKey)
	if err != nil {
		slog.Warn("Failed to load saved settings, using defaults", "error", err)
		return nil
	}
	if setting == nil {
		return nil
	}
	return setting.Value
}
