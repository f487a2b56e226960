package news

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lysyi3m/obs-overlay/app/observability"
	"github.com/lysyi3m/obs-overlay/app/overlay"
)

const (
	// ReadyTimeout bounds how long a new text waits for the page to report
	// its measured width before scrolling starts on the estimate.
	ReadyTimeout = 1200 * time.Millisecond

	FailureStatus = "NEWS: RSS取得失敗（CORS/Proxy設定を確認）"
)

// Frame is the ticker state sent to the page. Generation changes whenever
// the text changes; width reports and loop acknowledgements carry it back.
type Frame struct {
	Visible    bool    `json:"visible"`
	Text       string  `json:"text,omitempty"`
	Duration   float64 `json:"duration,omitempty"` // seconds per loop
	Running    bool    `json:"running"`
	Generation uint64  `json:"generation"`
}

type Display interface {
	ShowTicker(frame Frame)
	HideTicker()
	Status(msg string)
}

type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Ticker owns one overlay's marquee. The first text is shown as soon as it
// arrives; later changes wait for the current loop to finish.
type Ticker struct {
	cfg      overlay.Config
	fetcher  FeedFetcher
	parser   *Parser
	filterer *Filterer
	display  Display
	clock    clockwork.Clock
	metrics  *observability.Metrics
	fontPx   float64

	inFlight atomic.Bool

	mu         sync.Mutex
	current    string
	pending    string
	hasPending bool
	generation uint64
	epoch      uint64
	armedEpoch uint64
	running    bool
	duration   time.Duration
	trackWidth float64
	startedAt  time.Time
	ready      chan float64
}

func NewTicker(cfg overlay.Config, fetcher FeedFetcher, display Display, clock clockwork.Clock,
	metrics *observability.Metrics) *Ticker {
	return &Ticker{
		cfg:      cfg,
		fetcher:  fetcher,
		parser:   NewParser(),
		filterer: NewFilterer(),
		display:  display,
		clock:    clock,
		metrics:  metrics,
		fontPx:   DefaultFontPx,
	}
}

func (t *Ticker) Enabled() bool {
	return t.cfg.NewsOn && t.cfg.NewsRSS != ""
}

// FetchURL is the feed URL after proxy routing.
func (t *Ticker) FetchURL() string {
	return overlay.ApplyProxy(t.cfg.NewsRSS, t.cfg.NewsProxy)
}

// Refresh fetches the feed and offers the composed text. Errors are
// returned so the caller can schedule a retry; shown content stays put.
func (t *Ticker) Refresh(ctx context.Context) error {
	if !t.Enabled() {
		t.display.HideTicker()
		return nil
	}
	if !t.inFlight.CompareAndSwap(false, true) {
		slog.Debug("News refresh skipped, previous refresh still in flight")
		return nil
	}
	defer t.inFlight.Store(false)

	text, err := t.load(ctx)
	if err != nil {
		t.metrics.NewsFetches.WithLabelValues("error").Inc()
		slog.Warn("News refresh failed", "url", t.FetchURL(), "error", err)

		t.mu.Lock()
		shown := t.current != ""
		t.mu.Unlock()
		if !shown {
			t.display.HideTicker()
		}
		t.display.Status(FailureStatus)
		return err
	}

	if t.Offer(ctx, text) {
		t.metrics.NewsFetches.WithLabelValues("ok").Inc()
	} else {
		t.metrics.NewsFetches.WithLabelValues("unchanged").Inc()
	}
	return nil
}

func (t *Ticker) load(ctx context.Context) (string, error) {
	data, err := t.fetcher.Fetch(ctx, t.FetchURL())
	if err != nil {
		return "", err
	}

	items, err := t.parser.Run(data)
	if err != nil {
		return "", err
	}

	items = t.filterer.Run(items, Rules{
		MaxAge:   time.Duration(t.cfg.NewsAgeHours) * time.Hour,
		Excludes: t.cfg.ExcludeWords(),
		Now:      t.clock.Now(),
	})

	return Compose(items), nil
}

// Offer hands the ticker a freshly composed text. It reports whether the
// text differs from what is on screen.
func (t *Ticker) Offer(ctx context.Context, text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.current == "":
		t.showLocked(ctx, text)
		return true
	case text == t.current:
		t.pending, t.hasPending = "", false
		return false
	default:
		t.pending, t.hasPending = text, true
		t.armBoundaryLocked(ctx)
		return true
	}
}

// ReportWidth takes the page's measurement of the track. The first report
// for a text releases the readiness wait; later ones restart the loop with
// the new duration. The page re-measures after fonts settle and on resize,
// so a report matching the running width is ignored.
func (t *Ticker) ReportWidth(ctx context.Context, generation uint64, trackWidth float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if generation != t.generation || trackWidth <= 0 {
		return
	}
	if !t.running {
		select {
		case t.ready <- trackWidth:
		default:
		}
		return
	}
	if trackWidth == t.trackWidth {
		return
	}
	t.startLocked(ctx, trackWidth)
}

// LoopBoundary swaps in a queued text. The page calls it when a loop ends;
// a timer does the same from the computed duration.
func (t *Ticker) LoopBoundary(ctx context.Context, generation uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if generation != t.generation || !t.hasPending {
		return
	}
	text := t.pending
	t.pending, t.hasPending = "", false
	t.showLocked(ctx, text)
}

// Current returns what is on screen and what is queued.
func (t *Ticker) Current() (string, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.pending
}

func (t *Ticker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

func (t *Ticker) showLocked(ctx context.Context, text string) {
	t.generation++
	t.epoch++
	t.current = text
	t.running = false
	t.ready = make(chan float64, 1)

	estimate := EstimateTrackWidth(text, t.fontPx)
	t.duration = ScrollDuration(estimate, t.cfg.NewsSpeed)
	t.display.ShowTicker(Frame{
		Visible:    true,
		Text:       text,
		Duration:   t.duration.Seconds(),
		Generation: t.generation,
	})

	go t.awaitReady(ctx, t.generation, t.ready, estimate)
}

func (t *Ticker) awaitReady(ctx context.Context, generation uint64, ready <-chan float64, estimate float64) {
	timer := t.clock.NewTimer(ReadyTimeout)
	defer timer.Stop()

	trackWidth := estimate
	select {
	case <-ctx.Done():
		return
	case w := <-ready:
		trackWidth = w
	case <-timer.Chan():
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if generation != t.generation || t.running {
		return
	}
	t.startLocked(ctx, trackWidth)
}

func (t *Ticker) startLocked(ctx context.Context, trackWidth float64) {
	t.epoch++
	t.running = true
	t.trackWidth = trackWidth
	t.duration = ScrollDuration(trackWidth, t.cfg.NewsSpeed)
	t.startedAt = t.clock.Now()
	t.display.ShowTicker(Frame{
		Visible:    true,
		Text:       t.current,
		Duration:   t.duration.Seconds(),
		Running:    true,
		Generation: t.generation,
	})

	if t.hasPending {
		t.armBoundaryLocked(ctx)
	}
}

// armBoundaryLocked waits for the end of the running loop. A restart bumps
// the epoch, which retires the wait and arms a new one.
func (t *Ticker) armBoundaryLocked(ctx context.Context) {
	if !t.running || t.armedEpoch == t.epoch {
		return
	}
	t.armedEpoch = t.epoch

	elapsed := t.clock.Since(t.startedAt)
	wait := t.duration - elapsed%t.duration

	epoch, generation := t.epoch, t.generation
	go func() {
		timer := t.clock.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.Chan():
		}

		t.mu.Lock()
		current := epoch == t.epoch
		t.mu.Unlock()
		if current {
			t.LoopBoundary(ctx, generation)
		}
	}()
}
