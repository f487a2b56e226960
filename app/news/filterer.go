package news

import (
	"fmt"
	"strings"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run marks every item that should stay off the ticker and says why.
func (f *Filterer) Run(items []Item, rules Rules) []Item {
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		item.IsFiltered, item.FilterReason = f.applyRules(item, rules)
		filtered = append(filtered, item)
	}
	return filtered
}

func (f *Filterer) applyRules(item Item, rules Rules) (bool, string) {
	if item.Title == "" {
		return true, "Empty title"
	}

	if rules.MaxAge > 0 && item.PublishedAt != nil && rules.Now.Sub(*item.PublishedAt) > rules.MaxAge {
		return true, fmt.Sprintf("Older than %s", rules.MaxAge)
	}

	for _, exclude := range rules.Excludes {
		if f.matchesFilter(item.Title, exclude) {
			return true, fmt.Sprintf("Excluded by title filter: contains '%s'", exclude)
		}
	}

	return false, ""
}

// Keywords match exactly; the feeds this serves are mostly Japanese.
func (f *Filterer) matchesFilter(value, pattern string) bool {
	return pattern != "" && strings.Contains(value, pattern)
}

// Visible returns the items that passed filtering, in feed order.
func Visible(items []Item) []Item {
	visible := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.IsFiltered {
			visible = append(visible, item)
		}
	}
	return visible
}
