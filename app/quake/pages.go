package quake

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter selects which points of an event are shown and how they are paged.
type Filter struct {
	MinScale int
	PerPage  int
	Prefs    map[string]struct{}
	Policy   Policy
}

// Relevant reports whether an event with this maximum scale should be
// shown at all.
func (f Filter) Relevant(maxScale int) bool {
	if maxScale < f.MinScale {
		return false
	}
	return !f.Policy.DropUnknownScale || KnownScale(maxScale)
}

func (f Filter) keep(p Point) bool {
	if len(f.Prefs) > 0 {
		if _, ok := f.Prefs[p.Pref]; !ok {
			return false
		}
	}
	if p.Scale < f.MinScale {
		return false
	}
	return !f.Policy.DropUnknownScale || KnownScale(p.Scale)
}

// BuildPages groups the matching points by exact scale, highest first,
// orders each group by prefecture then locality in Japanese collation and
// chunks it into pages. The event's maximum scale is returned alongside.
func BuildPages(ev Event, f Filter) ([]Page, int) {
	maxScale := ev.Earthquake.MaxScale
	if !f.Relevant(maxScale) {
		return nil, maxScale
	}

	byScale := make(map[int][]Point)
	for _, p := range ev.Points {
		if f.keep(p) {
			byScale[p.Scale] = append(byScale[p.Scale], p)
		}
	}
	if len(byScale) == 0 {
		return nil, maxScale
	}

	scales := make([]int, 0, len(byScale))
	for sc := range byScale {
		scales = append(scales, sc)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scales)))

	perPage := max(f.PerPage, 1)
	col := collate.New(language.Japanese)

	var pages []Page
	for _, sc := range scales {
		list := byScale[sc]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Pref != list[j].Pref {
				return col.CompareString(list[i].Pref, list[j].Pref) < 0
			}
			return col.CompareString(list[i].Addr, list[j].Addr) < 0
		})

		headline := "震度 " + ScaleLabel(sc)
		for start := 0; start < len(list); start += perPage {
			chunk := list[start:min(start+perPage, len(list))]
			lines := make([]string, len(chunk))
			for i, p := range chunk {
				lines[i] = p.line()
			}
			pages = append(pages, Page{Headline: headline, Detail: strings.Join(lines, "\n")})
		}
	}

	return pages, maxScale
}

func (p Point) line() string {
	if p.Addr == "" {
		return p.Pref
	}
	return p.Pref + " " + p.Addr
}

// AlertLevel picks the sound for an event. Level 2 wins when both
// thresholds are met; a zero threshold disables that level.
func AlertLevel(maxScale, sound1Min, sound2Min int) int {
	if sound2Min > 0 && maxScale >= sound2Min {
		return 2
	}
	if sound1Min > 0 && maxScale >= sound1Min {
		return 1
	}
	return 0
}
