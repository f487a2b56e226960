package overlay

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Resolve builds the effective configuration. A non-empty query wins
// outright, then a saved blob, then the defaults. Bad input never fails; it
// falls back field by field.
func Resolve(query url.Values, saved []byte) Config {
	if len(query) > 0 {
		return FromQuery(query)
	}
	if cfg, ok := FromSaved(saved); ok {
		return cfg
	}
	return Defaults()
}

func FromQuery(query url.Values) Config {
	cfg := Defaults()

	for _, f := range IntFields {
		if !query.Has(f.Query) {
			continue
		}
		if n, ok := leadingInt(query.Get(f.Query)); ok {
			f.set(&cfg, n)
		}
	}

	for _, f := range BoolFields {
		if !query.Has(f.Query) {
			continue
		}
		if b, ok := looseBool(query.Get(f.Query)); ok {
			*f.ref(&cfg) = b
		}
	}

	for _, f := range stringFields {
		*f.ref(&cfg) = cleanString(f.Query, query.Get(f.Query))
	}

	if query.Has(prefsQuery) {
		cfg.QuakePrefs = normalizePrefs(strings.Split(query.Get(prefsQuery), ","))
	}

	return cfg
}

// FromSaved decodes a saved settings blob. A blob that is missing, corrupt
// or not a JSON object reports false.
func FromSaved(blob []byte) (Config, bool) {
	if len(blob) == 0 {
		return Config{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil || raw == nil {
		return Config{}, false
	}
	return FromMap(raw), true
}

// FromMap coerces a saved blob's object into a Config over the defaults.
// An empty prefecture list selects every prefecture.
func FromMap(raw map[string]any) Config {
	return Defaults().Merge(raw).Normalize()
}

// Merge coerces a loosely typed object (a saved blob or a submitted
// settings form) over c. Keys that are absent or cannot be coerced keep
// their current value, and a prefecture list may come out empty. Query-only
// flags are never taken from it.
func (c Config) Merge(raw map[string]any) Config {
	cfg := c

	for _, f := range IntFields {
		if n, ok := intFromAny(raw[f.JSON]); ok {
			f.set(&cfg, n)
		}
	}

	for _, f := range BoolFields {
		if f.QueryOnly {
			continue
		}
		if b, ok := boolFromAny(raw[f.JSON]); ok {
			*f.ref(&cfg) = b
		}
	}

	for _, f := range stringFields {
		if s, ok := stringFromAny(raw[f.JSON]); ok {
			*f.ref(&cfg) = cleanString(f.Query, s)
		}
	}

	if prefs, ok := prefsFromAny(raw[prefsJSON]); ok {
		cfg.QuakePrefs = prefs
	}

	return cfg
}

// Normalize re-applies every clamp, useful after a Config was edited by hand.
func (c Config) Normalize() Config {
	for _, f := range IntFields {
		f.set(&c, f.Get(c))
	}
	for _, f := range stringFields {
		*f.ref(&c) = cleanString(f.Query, *f.ref(&c))
	}
	c.QuakePrefs = normalizePrefs(c.QuakePrefs)
	return c
}

// Exclude keywords keep their line structure; URLs are trimmed.
func cleanString(key, s string) string {
	if key == "news_ex" {
		return s
	}
	return strings.TrimSpace(s)
}

// ExcludeWords splits the newline separated exclude list, dropping blanks.
func (c Config) ExcludeWords() []string {
	var words []string
	for _, line := range strings.Split(c.NewsExclude, "\n") {
		if w := strings.TrimSpace(line); w != "" {
			words = append(words, w)
		}
	}
	return words
}
