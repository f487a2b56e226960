package overlay

// IntField describes one clamped integer setting.
type IntField struct {
	Query   string
	JSON    string
	Min     int
	Max     int
	Default int
	ref     func(*Config) *int
}

func (f IntField) Get(c Config) int    { return *f.ref(&c) }
func (f IntField) set(c *Config, v int) { *f.ref(c) = clamp(v, f.Min, f.Max) }

// BoolField describes one boolean setting. QueryOnly fields are never
// restored from a saved blob.
type BoolField struct {
	Query     string
	JSON      string
	Default   bool
	QueryOnly bool
	ref       func(*Config) *bool
}

func (f BoolField) Get(c Config) bool { return *f.ref(&c) }

type stringField struct {
	Query string
	JSON  string
	ref   func(*Config) *string
}

var IntFields = []IntField{
	{Query: "quake_min", JSON: "quakeMinScale", Min: 10, Max: 70, Default: 30, ref: func(c *Config) *int { return &c.QuakeMinScale }},
	{Query: "quake_page", JSON: "quakePageSec", Min: 1, Max: 60, Default: 5, ref: func(c *Config) *int { return &c.QuakePageSec }},
	{Query: "quake_per", JSON: "quakePerPage", Min: 4, Max: 60, Default: 9, ref: func(c *Config) *int { return &c.QuakePerPage }},
	{Query: "quake_poll", JSON: "quakePollSec", Min: 10, Max: 120, Default: 20, ref: func(c *Config) *int { return &c.QuakePollSec }},
	{Query: "sound1_min", JSON: "sound1Min", Min: 0, Max: 70, Default: 30, ref: func(c *Config) *int { return &c.Sound1Min }},
	{Query: "sound1_rep", JSON: "sound1Repeat", Min: 0, Max: 10, Default: 1, ref: func(c *Config) *int { return &c.Sound1Repeat }},
	{Query: "sound2_min", JSON: "sound2Min", Min: 0, Max: 70, Default: 50, ref: func(c *Config) *int { return &c.Sound2Min }},
	{Query: "sound2_rep", JSON: "sound2Repeat", Min: 0, Max: 10, Default: 2, ref: func(c *Config) *int { return &c.Sound2Repeat }},
	{Query: "news_age", JSON: "newsAgeHours", Min: 1, Max: 365, Default: 24, ref: func(c *Config) *int { return &c.NewsAgeHours }},
	{Query: "news_speed", JSON: "newsSpeed", Min: 40, Max: 900, Default: 90, ref: func(c *Config) *int { return &c.NewsSpeed }},
}

var BoolFields = []BoolField{
	{Query: "time_on", JSON: "timeOn", Default: true, ref: func(c *Config) *bool { return &c.TimeOn }},
	{Query: "time_date", JSON: "timeDate", Default: true, ref: func(c *Config) *bool { return &c.TimeDate }},
	{Query: "time_dow", JSON: "timeDow", Default: true, ref: func(c *Config) *bool { return &c.TimeDow }},
	{Query: "time_sec", JSON: "timeSec", Default: false, ref: func(c *Config) *bool { return &c.TimeSec }},
	{Query: "time_24h", JSON: "time24h", Default: true, ref: func(c *Config) *bool { return &c.Time24h }},
	{Query: "quake_on", JSON: "quakeOn", Default: true, ref: func(c *Config) *bool { return &c.QuakeOn }},
	{Query: "news_on", JSON: "newsOn", Default: true, ref: func(c *Config) *bool { return &c.NewsOn }},
	{Query: "debug", JSON: "showStatus", Default: false, ref: func(c *Config) *bool { return &c.ShowStatus }},
	{Query: "quake_sandbox", JSON: "quakeSandbox", Default: false, QueryOnly: true, ref: func(c *Config) *bool { return &c.QuakeSandbox }},
	{Query: "test", JSON: "testMode", Default: false, QueryOnly: true, ref: func(c *Config) *bool { return &c.TestMode }},
}

var stringFields = []stringField{
	{Query: "quake_proxy", JSON: "quakeProxy", ref: func(c *Config) *string { return &c.QuakeProxy }},
	{Query: "news_rss", JSON: "newsRss", ref: func(c *Config) *string { return &c.NewsRSS }},
	{Query: "news_ex", JSON: "newsExclude", ref: func(c *Config) *string { return &c.NewsExclude }},
	{Query: "news_proxy", JSON: "newsProxy", ref: func(c *Config) *string { return &c.NewsProxy }},
}

const prefsQuery, prefsJSON = "quake_prefs", "quakePrefs"

// Defaults returns the configuration used when neither a query nor a saved
// blob is available.
func Defaults() Config {
	var c Config
	for _, f := range IntFields {
		*f.ref(&c) = f.Default
	}
	for _, f := range BoolFields {
		*f.ref(&c) = f.Default
	}
	c.QuakePrefs = append([]string(nil), Prefectures...)
	return c
}

// IsQueryKey reports whether key is an overlay query parameter.
func IsQueryKey(key string) bool {
	if key == prefsQuery {
		return true
	}
	for _, f := range IntFields {
		if f.Query == key {
			return true
		}
	}
	for _, f := range BoolFields {
		if f.Query == key {
			return true
		}
	}
	for _, f := range stringFields {
		if f.Query == key {
			return true
		}
	}
	return false
}
