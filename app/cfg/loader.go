package cfg

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type serveCommand struct{}

type urlCommand struct {
	Dev    bool `long:"dev" description:"Build the sandbox test URL (quake sandbox API and TEST MODE badge)"`
	NoCopy bool `long:"no-copy" description:"Print the URL without copying it to the clipboard"`
}

type rawCfg struct {
	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://overlay.example.com)"`
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./data/overlay.db" description:"SQLite database file for saved settings"`
	PresetsDir   string `long:"presets-dir" env:"PRESETS_DIR" default:"./presets" description:"Directory containing overlay preset files"`
	WebDir       string `long:"web-dir" env:"WEB_DIR" default:"./web" description:"Directory with the overlay page and alert sounds"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of background workers for polling and refreshes"`
	QueueSize    int    `long:"queue-size" env:"QUEUE_SIZE" default:"256" description:"Capacity of the worker queue"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for saving settings (optional)"`

	// Earthquake feed
	QuakeAPI         string        `long:"quake-api" env:"QUAKE_API" default:"https://api-v2.p2pquake.net/v2" description:"Earthquake history API base"`
	QuakeSandboxAPI  string        `long:"quake-sandbox-api" env:"QUAKE_SANDBOX_API" default:"https://api-v2-sandbox.p2pquake.net/v2" description:"Earthquake sandbox API base"`
	FetchTimeout     time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10s" description:"Timeout for each outbound fetch"`
	FreshnessWindow  time.Duration `long:"freshness-window" env:"FRESHNESS_WINDOW" default:"30m" description:"Ignore earthquakes older than this (0 disables)"`
	KeepUnknownScale bool          `long:"keep-unknown-scale" env:"KEEP_UNKNOWN_SCALE" description:"Show observation points without a known intensity label"`

	// News feed
	NewsRefresh    time.Duration `long:"news-refresh" env:"NEWS_REFRESH" default:"10m" description:"RSS refresh interval"`
	NewsRetryDelay time.Duration `long:"news-retry-delay" env:"NEWS_RETRY_DELAY" default:"30s" description:"Delay before retrying a failed RSS fetch"`

	// Alert sounds
	Sound1Duration time.Duration `long:"sound1-duration" env:"SOUND1_DURATION" default:"2s" description:"Length of the level 1 alert clip"`
	Sound2Duration time.Duration `long:"sound2-duration" env:"SOUND2_DURATION" default:"3s" description:"Length of the level 2 alert clip"`

	// Countdown widget
	CountdownDeadline string `long:"countdown-deadline" env:"COUNTDOWN_DEADLINE" description:"Fallback RFC3339 deadline when no date parameter is given"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"OBS Overlay/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Asia/Tokyo" description:"Timezone for the clock (e.g., Asia/Tokyo, UTC)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Serve serveCommand `command:"serve" description:"Run the overlay server (default)"`
	URL   urlCommand   `command:"url" description:"Print the overlay URL for the saved settings and copy it to the clipboard"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses args and the environment. It returns nil without an
// error when help was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.SubcommandsOptional = true

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	command := CommandServe
	if parser.Active != nil {
		command = parser.Active.Name
	}

	cfg := &Cfg{
		Command:           command,
		Port:              raw.Port,
		BaseUrl:           strings.TrimRight(raw.BaseUrl, "/"),
		DBPath:            raw.DBPath,
		PresetsDir:        raw.PresetsDir,
		WebDir:            raw.WebDir,
		WorkerCount:       raw.WorkerCount,
		QueueSize:         raw.QueueSize,
		APIAccessKey:      raw.APIAccessKey,
		QuakeAPI:          strings.TrimRight(raw.QuakeAPI, "/"),
		QuakeSandboxAPI:   strings.TrimRight(raw.QuakeSandboxAPI, "/"),
		FetchTimeout:      raw.FetchTimeout,
		FreshnessWindow:   raw.FreshnessWindow,
		KeepUnknownScale:  raw.KeepUnknownScale,
		NewsRefresh:       raw.NewsRefresh,
		NewsRetryDelay:    raw.NewsRetryDelay,
		Sound1Duration:    raw.Sound1Duration,
		Sound2Duration:    raw.Sound2Duration,
		CountdownDeadline: raw.CountdownDeadline,
		URLDev:            raw.URL.Dev,
		URLNoCopy:         raw.URL.NoCopy,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func validate(cfg *Cfg) error {
	positive := map[string]time.Duration{
		"news refresh":  cfg.NewsRefresh,
		"fetch timeout": cfg.FetchTimeout,
		"news retry":    cfg.NewsRetryDelay,
	}
	for name, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if cfg.FreshnessWindow < 0 {
		return fmt.Errorf("freshness window must be non-negative")
	}
	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	return nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
