package cfg

import "time"

const (
	CommandServe = "serve"
	CommandURL   = "url"
)

type Cfg struct {
	Command string

	// Application configuration
	Port         string
	BaseUrl      string
	DBPath       string
	PresetsDir   string
	WebDir       string
	WorkerCount  int
	QueueSize    int
	APIAccessKey string

	// Earthquake feed
	QuakeAPI         string
	QuakeSandboxAPI  string
	FetchTimeout     time.Duration
	FreshnessWindow  time.Duration
	KeepUnknownScale bool

	// News feed
	NewsRefresh    time.Duration
	NewsRetryDelay time.Duration

	// Alert sounds
	Sound1Duration time.Duration
	Sound2Duration time.Duration

	// Countdown widget
	CountdownDeadline string

	// url command
	URLDev    bool
	URLNoCopy bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// OverlayURL is the page address embedded into generated overlay URLs.
func (c *Cfg) OverlayURL() string {
	if c.BaseUrl != "" {
		return c.BaseUrl + "/overlay"
	}
	return "http://localhost:" + c.Port + "/overlay"
}
