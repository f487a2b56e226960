package countdown

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrNoDeadline = errors.New("no deadline: date parameter or fallback deadline required")

var (
	jst         = time.FixedZone("JST", 9*60*60)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	themes      = map[string]struct{}{"red": {}, "green": {}, "blue": {}, "yellow": {}, "white": {}, "black": {}}
)

const (
	day   = 24 * 60 * 60
	month = 30 * day
	year  = 365 * day
)

type Widget struct {
	Deadline time.Time
	Title    string
	Theme    string
}

type Snapshot struct {
	Title    string `json:"title,omitempty"`
	Theme    string `json:"theme"`
	Deadline string `json:"deadline"`
	Finished bool   `json:"finished"`
	Days     int    `json:"days"`
	Hours    string `json:"hours"`
	Minutes  string `json:"minutes"`
	Seconds  string `json:"seconds"`
	Overtime string `json:"overtime,omitempty"`
}

// New resolves the deadline from a YYYY-MM-DD date (midnight JST), falling
// back to an RFC3339 deadline. The title is only set for the date form.
func New(date, color, fallback string) (Widget, error) {
	w := Widget{Theme: theme(color)}

	if d := strings.TrimSpace(date); datePattern.MatchString(d) {
		if t, err := time.ParseInLocation("2006-01-02", d, jst); err == nil {
			w.Deadline = t
			w.Title = fmt.Sprintf("%d年%d月%d日まで", t.Year(), int(t.Month()), t.Day())
			return w, nil
		}
	}

	if fallback = strings.TrimSpace(fallback); fallback != "" {
		t, err := time.Parse(time.RFC3339, fallback)
		if err != nil {
			return Widget{}, fmt.Errorf("invalid fallback deadline %q: %w", fallback, err)
		}
		w.Deadline = t
		return w, nil
	}

	return Widget{}, ErrNoDeadline
}

func theme(color string) string {
	c := strings.TrimSpace(color)
	if _, ok := themes[c]; ok {
		return c
	}
	return "white"
}

func (w Widget) At(now time.Time) Snapshot {
	s := Snapshot{
		Title:    w.Title,
		Theme:    w.Theme,
		Deadline: w.Deadline.Format(time.RFC3339),
	}

	remaining := w.Deadline.Sub(now)
	if remaining <= 0 {
		s.Finished = true
		s.Hours, s.Minutes, s.Seconds = "00", "00", "00"
		s.Overtime = FormatOvertime(-remaining)
		return s
	}

	total := int64(remaining / time.Second)
	s.Days = int(total / day)
	s.Hours = pad2(total % day / 3600)
	s.Minutes = pad2(total % 3600 / 60)
	s.Seconds = pad2(total % 60)
	return s
}

// FormatOvertime renders time past the deadline with 365-day years and
// 30-day months. A unit is shown once it or any larger unit is non-zero.
func FormatOvertime(d time.Duration) string {
	total := max(int64(d/time.Second), 0)

	years := total / year
	total %= year
	months := total / month
	total %= month
	days := total / day
	total %= day
	hours := total / 3600
	total %= 3600
	minutes := total / 60
	seconds := total % 60

	var b strings.Builder
	b.WriteString("超過時間：")

	shown := false
	for _, u := range []struct {
		n      int64
		suffix string
	}{{years, "年"}, {months, "か月"}, {days, "日"}, {hours, "時間"}} {
		if u.n > 0 || shown {
			shown = true
			b.WriteString(strconv.FormatInt(u.n, 10) + u.suffix)
		}
	}

	if minutes > 0 || shown {
		b.WriteString(pad2(minutes) + "分")
	} else {
		b.WriteString(strconv.FormatInt(minutes, 10) + "分")
	}
	b.WriteString(pad2(seconds) + "秒")

	return b.String()
}

func pad2(n int64) string {
	return fmt.Sprintf("%02d", n)
}
