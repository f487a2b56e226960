package api

import (
	"github.com/jonboulle/clockwork"

	"github.com/lysyi3m/obs-overlay/app/overlay"
	"github.com/lysyi3m/obs-overlay/app/preset"
	"github.com/lysyi3m/obs-overlay/app/session"
	"github.com/lysyi3m/obs-overlay/app/settings"
)

type SettingsInterface interface {
	Preview(form overlay.Config) settings.Preview
	Build(form overlay.Config, dev bool) (string, error)
	Saved() []byte
}

type PresetStoreInterface interface {
	GetPreset(name string) (*preset.Preset, error)
	Names() []string
	Count() int
}

var (
	_ SettingsInterface    = (*settings.Service)(nil)
	_ PresetStoreInterface = (*preset.Cache)(nil)
)

type Handler struct {
	hub               *session.Hub
	settings          SettingsInterface
	presets           PresetStoreInterface
	clock             clockwork.Clock
	countdownFallback string
	webDir            string
	version           string
}

// soundFailure is posted by the overlay page when a clip fails to play.
type soundFailure struct {
	Reason string `json:"reason"`
}

// tickerReport is posted by the overlay page for its marquee: either the
// measured track width or the end of a scroll loop.
type tickerReport struct {
	Generation uint64  `json:"generation"`
	Width      float64 `json:"width"`
	Loop       bool    `json:"loop"`
}
