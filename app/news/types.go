package news

import (
	"time"
)

type Item struct {
	GUID        string
	Title       string
	Link        string
	PublishedAt *time.Time // nil when the feed gives no usable date

	IsFiltered   bool
	FilterReason string
}

// Rules decide which items make it onto the ticker.
type Rules struct {
	MaxAge   time.Duration
	Excludes []string
	Now      time.Time
}
