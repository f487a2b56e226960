package quake

import "time"

// Policy holds the judgment calls applied before an event is displayed.
type Policy struct {
	// FreshnessWindow drops events that occurred longer ago than this.
	// Zero disables the check.
	FreshnessWindow time.Duration
	// DropUnknownScale suppresses events and points whose intensity has no
	// JMA label.
	DropUnknownScale bool
}

func DefaultPolicy() Policy {
	return Policy{
		FreshnessWindow:  30 * time.Minute,
		DropUnknownScale: true,
	}
}

// IsStale reports whether ev is too old to show. Events without a parseable
// time are treated as fresh.
func (p Policy) IsStale(ev Event, now time.Time) bool {
	if p.FreshnessWindow <= 0 {
		return false
	}
	at, ok := ev.OccurredAt()
	if !ok {
		return false
	}
	return now.Sub(at) > p.FreshnessWindow
}
