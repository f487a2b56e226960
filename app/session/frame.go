package session

import (
	"github.com/lysyi3m/obs-overlay/app/audio"
	"github.com/lysyi3m/obs-overlay/app/quake"
)

type FrameType string

const (
	FrameClock    FrameType = "clock"
	FrameTicker   FrameType = "ticker"
	FrameQuake    FrameType = "quake"
	FrameSound    FrameType = "sound"
	FrameStatus   FrameType = "status"
	FrameTestMode FrameType = "test_mode"
)

// Frame is one display update for the overlay page. Type becomes the SSE
// event name and Data its JSON payload.
type Frame struct {
	Type FrameType
	Data any
}

type QuakeFrame struct {
	Visible  bool   `json:"visible"`
	Headline string `json:"headline,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Page     int    `json:"page,omitempty"`
	Total    int    `json:"total,omitempty"`
}

func newQuakeFrame(page quake.Page, index, total int) QuakeFrame {
	return QuakeFrame{
		Visible:  true,
		Headline: page.Headline,
		Detail:   page.Detail,
		Page:     index + 1,
		Total:    total,
	}
}

// SoundFrame asks the page to play a clip. The page reports the end of
// playback with the play id.
type SoundFrame struct {
	Play string     `json:"play"`
	Clip audio.Clip `json:"clip"`
}

type StatusFrame struct {
	Message string `json:"message"`
}

type TestModeFrame struct {
	Enabled bool `json:"enabled"`
}
