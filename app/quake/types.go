package quake

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	ProductionAPI = "https://api-v2.p2pquake.net/v2"
	SandboxAPI    = "https://api-v2-sandbox.p2pquake.net/v2"

	// CodeEarthquake selects detailed earthquake information in the history feed.
	CodeEarthquake = 551
)

var jst = time.FixedZone("JST", 9*60*60)

type Event struct {
	ID         json.RawMessage `json:"id"`
	Code       int             `json:"code"`
	Time       string          `json:"time"`
	Issue      Issue           `json:"issue"`
	Earthquake Earthquake      `json:"earthquake"`
	Points     []Point         `json:"points"`
}

type Issue struct {
	Source string `json:"source"`
	Time   string `json:"time"`
	Type   string `json:"type"`
}

type Earthquake struct {
	Time       string     `json:"time"`
	MaxScale   int        `json:"maxScale"`
	Hypocenter Hypocenter `json:"hypocenter"`
}

type Hypocenter struct {
	Name      string      `json:"name"`
	Depth     json.Number `json:"depth"`
	Magnitude json.Number `json:"magnitude"`
}

type Point struct {
	Pref   string `json:"pref"`
	Addr   string `json:"addr"`
	IsArea bool   `json:"isArea"`
	Scale  int    `json:"scale"`
}

// Page is one screen of the alert panel.
type Page struct {
	Headline string `json:"headline"`
	Detail   string `json:"detail"`
}

// Signature identifies an event for change detection.
func (e Event) Signature() string {
	return strings.Join([]string{
		e.Time,
		itoa(e.Code),
		rawString(e.ID),
		e.Issue.Time,
		e.Issue.Source,
		e.Earthquake.Time,
		itoa(e.Earthquake.MaxScale),
		e.Earthquake.Hypocenter.Name,
		e.Earthquake.Hypocenter.Depth.String(),
		e.Earthquake.Hypocenter.Magnitude.String(),
	}, "|")
}

// OccurredAt parses the earthquake time, falling back to the record time.
// Times in the feed are Japan local time without a zone.
func (e Event) OccurredAt() (time.Time, bool) {
	for _, raw := range []string{e.Earthquake.Time, e.Time} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		for _, layout := range []string{"2006/01/02 15:04:05.000", "2006/01/02 15:04:05", "2006/01/02 15:04"} {
			if t, err := time.ParseInLocation(layout, raw, jst); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
