package overlay

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// leadingInt reads an optional sign followed by decimal digits, ignoring
// whatever trails them. "12abc" is 12, "3.9" is 3, "abc" is not a number.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}

	n, err := strconv.Atoi(s[:i])
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if s[0] == '-' {
				return math.MinInt32, true
			}
			return math.MaxInt32, true
		}
		return 0, false
	}
	return n, true
}

// looseBool accepts 1/true/on/yes and 0/false/off/no in any case.
func looseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true, true
	case "0", "false", "off", "no":
		return false, true
	}
	return false, false
}

func intFromAny(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(math.Trunc(max(math.MinInt32, min(math.MaxInt32, x)))), true
	case string:
		return leadingInt(x)
	}
	return 0, false
}

func boolFromAny(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case float64:
		return x != 0, true
	case string:
		return looseBool(x)
	}
	return false, false
}

func stringFromAny(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}

// normalizePrefs trims, deduplicates and drops unknown names. An empty
// result selects every prefecture.
func normalizePrefs(names []string) []string {
	prefs := filterPrefs(names)
	if len(prefs) == 0 {
		return append([]string(nil), Prefectures...)
	}
	return prefs
}

// filterPrefs is normalizePrefs without the fallback, so a form with
// nothing ticked stays empty.
func filterPrefs(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	prefs := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if !IsPrefecture(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		prefs = append(prefs, name)
	}
	return prefs
}

func prefsFromAny(v any) ([]string, bool) {
	switch x := v.(type) {
	case string:
		return filterPrefs(strings.Split(x, ",")), true
	case []any:
		names := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return filterPrefs(names), true
	}
	return nil, false
}
