package clock

import (
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/obs-overlay/app/overlay"
)

var weekdaysJa = [7]string{"日", "月", "火", "水", "木", "金", "土"}

type Options struct {
	Seconds bool
	Hour24  bool
	Date    bool
	Weekday bool
}

func OptionsFromConfig(cfg overlay.Config) Options {
	return Options{
		Seconds: cfg.TimeSec,
		Hour24:  cfg.Time24h,
		Date:    cfg.TimeDate,
		Weekday: cfg.TimeDow,
	}
}

// Frame is one rendered clock tick as shown by the overlay.
type Frame struct {
	Visible bool   `json:"visible"`
	Time    string `json:"time,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Render formats t as the clock line and the date line. In 12-hour mode
// midnight and noon both read 12.
func Render(t time.Time, opts Options) (string, string) {
	hh := t.Hour()
	if !opts.Hour24 {
		hh %= 12
		if hh == 0 {
			hh = 12
		}
	}

	clockText := fmt.Sprintf("%02d:%02d", hh, t.Minute())
	if opts.Seconds {
		clockText += fmt.Sprintf(":%02d", t.Second())
	}

	var parts []string
	if opts.Date {
		parts = append(parts, fmt.Sprintf("%d月%d日", int(t.Month()), t.Day()))
	}
	if opts.Weekday {
		parts = append(parts, "("+weekdaysJa[t.Weekday()]+")")
	}

	return clockText, strings.Join(parts, " ")
}

// Interval is how often the clock is re-rendered.
func Interval(opts Options) time.Duration {
	if opts.Seconds {
		return 250 * time.Millisecond
	}
	return time.Second
}

func NewFrame(t time.Time, opts Options) Frame {
	clockText, dateText := Render(t, opts)
	return Frame{Visible: true, Time: clockText, Date: dateText}
}
