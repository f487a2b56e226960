package overlay

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.True(t, cfg.TimeOn)
	assert.False(t, cfg.TimeSec)
	assert.True(t, cfg.Time24h)
	assert.Equal(t, 30, cfg.QuakeMinScale)
	assert.Equal(t, 5, cfg.QuakePageSec)
	assert.Equal(t, 9, cfg.QuakePerPage)
	assert.Equal(t, 20, cfg.QuakePollSec)
	assert.Len(t, cfg.QuakePrefs, 47)
	assert.Equal(t, 50, cfg.Sound2Min)
	assert.Equal(t, 2, cfg.Sound2Repeat)
	assert.Equal(t, 90, cfg.NewsSpeed)
	assert.False(t, cfg.ShowStatus)
	assert.False(t, cfg.TestMode)
}

func TestFromQueryClampsEveryIntegerField(t *testing.T) {
	for _, f := range IntFields {
		t.Run(f.Query, func(t *testing.T) {
			high := FromQuery(url.Values{f.Query: {"99999"}})
			assert.Equal(t, f.Max, f.Get(high))

			low := FromQuery(url.Values{f.Query: {"-99999"}})
			assert.Equal(t, f.Min, f.Get(low))

			junk := FromQuery(url.Values{f.Query: {"abc"}})
			assert.Equal(t, f.Default, f.Get(junk))

			huge := FromQuery(url.Values{f.Query: {"999999999999999999999999"}})
			assert.Equal(t, f.Max, f.Get(huge))
		})
	}
}

func TestFromQueryLeadingInteger(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"12abc", 12},
		{"3.9", 3},
		{" 7 ", 7},
		{"+8", 8},
		{"", 5},
		{"x1", 5},
	}

	for _, tt := range tests {
		cfg := FromQuery(url.Values{"quake_page": {tt.raw}})
		assert.Equal(t, tt.want, cfg.QuakePageSec, "raw %q", tt.raw)
	}
}

func TestFromQueryBooleans(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"1", true},
		{"YES", true},
		{"On", true},
		{"true", true},
		{"0", false},
		{"off", false},
		{"No", false},
		{"FALSE", false},
		{"maybe", true},
	}

	for _, tt := range tests {
		cfg := FromQuery(url.Values{"time_on": {tt.raw}})
		assert.Equal(t, tt.want, cfg.TimeOn, "raw %q", tt.raw)
	}
}

func TestFromQueryPrefectures(t *testing.T) {
	t.Run("unknown names fall back to all", func(t *testing.T) {
		cfg := FromQuery(url.Values{"quake_prefs": {"xyz"}})
		assert.Equal(t, Prefectures, cfg.QuakePrefs)
	})

	t.Run("empty list falls back to all", func(t *testing.T) {
		cfg := FromQuery(url.Values{"quake_prefs": {""}})
		assert.Len(t, cfg.QuakePrefs, 47)
	})

	t.Run("trimmed and deduplicated", func(t *testing.T) {
		cfg := FromQuery(url.Values{"quake_prefs": {" 東京都, 大阪府,東京都,火星"}})
		assert.Equal(t, []string{"東京都", "大阪府"}, cfg.QuakePrefs)
	})
}

func TestFromQueryStrings(t *testing.T) {
	cfg := FromQuery(url.Values{
		"news_rss":   {"  https://example.com/rss.xml "},
		"news_ex":    {"広告\nPR"},
		"news_proxy": {"https://proxy.example/?u={url}"},
	})

	assert.Equal(t, "https://example.com/rss.xml", cfg.NewsRSS)
	assert.Equal(t, "広告\nPR", cfg.NewsExclude)
	assert.Equal(t, []string{"広告", "PR"}, cfg.ExcludeWords())
	assert.Equal(t, "https://proxy.example/?u={url}", cfg.NewsProxy)
	assert.Empty(t, cfg.QuakeProxy)
}

func TestResolvePrecedence(t *testing.T) {
	saved := []byte(`{"quakeMinScale": 45, "newsOn": false}`)

	t.Run("query wins over saved", func(t *testing.T) {
		cfg := Resolve(url.Values{"quake_page": {"7"}}, saved)
		assert.Equal(t, 7, cfg.QuakePageSec)
		assert.Equal(t, 30, cfg.QuakeMinScale)
		assert.True(t, cfg.NewsOn)
	})

	t.Run("saved used without query", func(t *testing.T) {
		cfg := Resolve(url.Values{}, saved)
		assert.Equal(t, 45, cfg.QuakeMinScale)
		assert.False(t, cfg.NewsOn)
	})

	t.Run("corrupt saved is ignored", func(t *testing.T) {
		assert.Equal(t, Defaults(), Resolve(nil, []byte(`{not json`)))
		assert.Equal(t, Defaults(), Resolve(nil, []byte(`[1,2,3]`)))
		assert.Equal(t, Defaults(), Resolve(nil, []byte(`null`)))
		assert.Equal(t, Defaults(), Resolve(nil, nil))
	})
}

func TestFromSavedCoercion(t *testing.T) {
	cfg, ok := FromSaved([]byte(`{
		"quakeMinScale": "45",
		"quakePerPage": 2,
		"sound1Repeat": 3.7,
		"timeSec": "yes",
		"timeDow": 0,
		"newsOn": "off",
		"quakePrefs": "東京都,大阪府",
		"newsRss": " https://example.com/feed ",
		"testMode": true,
		"quakeSandbox": true
	}`))
	require.True(t, ok)

	assert.Equal(t, 45, cfg.QuakeMinScale)
	assert.Equal(t, 4, cfg.QuakePerPage)
	assert.Equal(t, 3, cfg.Sound1Repeat)
	assert.True(t, cfg.TimeSec)
	assert.False(t, cfg.TimeDow)
	assert.False(t, cfg.NewsOn)
	assert.Equal(t, []string{"東京都", "大阪府"}, cfg.QuakePrefs)
	assert.Equal(t, "https://example.com/feed", cfg.NewsRSS)
	assert.False(t, cfg.TestMode)
	assert.False(t, cfg.QuakeSandbox)
}

func TestFromSavedPrefectureArray(t *testing.T) {
	cfg, ok := FromSaved([]byte(`{"quakePrefs": ["北海道", 12, "沖縄県"]}`))
	require.True(t, ok)
	assert.Equal(t, []string{"北海道", "沖縄県"}, cfg.QuakePrefs)
}

func TestNormalize(t *testing.T) {
	cfg := Defaults()
	cfg.QuakePollSec = 1
	cfg.NewsSpeed = 5000
	cfg.QuakePrefs = nil

	cfg = cfg.Normalize()
	assert.Equal(t, 10, cfg.QuakePollSec)
	assert.Equal(t, 900, cfg.NewsSpeed)
	assert.Len(t, cfg.QuakePrefs, 47)
}

func TestMergeKeepsBaseForUnusableValues(t *testing.T) {
	base := Defaults()
	base.NewsRSS = "https://example.com/base.xml"
	base.NewsSpeed = 120

	cfg := base.Merge(map[string]any{
		"newsSpeed":     "fast",
		"quakeMinScale": "45",
		"sound2Repeat":  99.0,
		"quakePrefs":    []any{},
		"testMode":      true,
	})

	assert.Equal(t, 120, cfg.NewsSpeed)
	assert.Equal(t, "https://example.com/base.xml", cfg.NewsRSS)
	assert.Equal(t, 45, cfg.QuakeMinScale)
	assert.Equal(t, 10, cfg.Sound2Repeat)
	assert.Empty(t, cfg.QuakePrefs)
	assert.False(t, cfg.TestMode)

	assert.Len(t, FromMap(map[string]any{"quakePrefs": []any{}}).QuakePrefs, 47)
}
