package news

import (
	"strings"
	"time"

	"golang.org/x/text/width"
)

const (
	Separator = "　◆　"
	EmptyText = "（新しいニュースがありません）"
	MaxTitles = 50

	MinScroll = 18 * time.Second
	MaxScroll = 240 * time.Second

	// DefaultFontPx is the ticker font size the width estimate assumes.
	DefaultFontPx = 40
	// gapEm is the spacer between the two copies of the text.
	gapEm = 4
)

// Compose joins up to MaxTitles visible titles into one marquee line.
func Compose(items []Item) string {
	titles := make([]string, 0, min(len(items), MaxTitles))
	for _, item := range Visible(items) {
		if len(titles) == MaxTitles {
			break
		}
		titles = append(titles, item.Title)
	}
	if len(titles) == 0 {
		return EmptyText
	}
	return strings.Join(titles, Separator)
}

// ScrollDuration is how long one loop takes. trackWidth covers both copies
// of the text, so one loop travels half of it.
func ScrollDuration(trackWidth float64, speed int) time.Duration {
	if trackWidth <= 0 || speed <= 0 {
		return MinScroll
	}
	d := time.Duration(trackWidth / 2 / float64(speed) * float64(time.Second))
	return max(MinScroll, min(MaxScroll, d))
}

// EstimateTrackWidth guesses the rendered track width before the page has
// measured it. Wide and fullwidth runes take a full em, the rest about half.
func EstimateTrackWidth(text string, fontPx float64) float64 {
	ems := 0.0
	for _, r := range text {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			ems += 1
		default:
			ems += 0.55
		}
	}
	return 2 * (ems + gapEm) * fontPx
}
