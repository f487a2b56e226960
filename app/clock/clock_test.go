package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	// Sunday
	ts := time.Date(2024, time.March, 3, 0, 5, 9, 0, jst)

	tests := []struct {
		name     string
		opts     Options
		wantTime string
		wantDate string
	}{
		{"24h full", Options{Seconds: true, Hour24: true, Date: true, Weekday: true}, "00:05:09", "3月3日 (日)"},
		{"12h midnight", Options{Hour24: false, Date: true}, "12:05", "3月3日"},
		{"weekday only", Options{Hour24: true, Weekday: true}, "00:05", "(日)"},
		{"nothing", Options{Hour24: true}, "00:05", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTime, gotDate := Render(ts, tt.opts)
			assert.Equal(t, tt.wantTime, gotTime)
			assert.Equal(t, tt.wantDate, gotDate)
		})
	}
}

func TestRenderAfternoon12h(t *testing.T) {
	ts := time.Date(2024, time.December, 25, 13, 0, 0, 0, time.UTC)

	got, date := Render(ts, Options{Date: true, Weekday: true})
	assert.Equal(t, "01:00", got)
	assert.Equal(t, "12月25日 (水)", date)

	noon := time.Date(2024, time.December, 25, 12, 30, 0, 0, time.UTC)
	got, _ = Render(noon, Options{})
	assert.Equal(t, "12:30", got)
}

func TestInterval(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, Interval(Options{Seconds: true}))
	assert.Equal(t, time.Second, Interval(Options{}))
}
