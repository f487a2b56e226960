package quake

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lysyi3m/obs-overlay/app/observability"
	"github.com/lysyi3m/obs-overlay/app/overlay"
)

// Source fetches the latest earthquake record.
type Source interface {
	Latest(ctx context.Context, route Route) (*Event, error)
}

// Alerter plays an alert sound level the given number of times.
type Alerter interface {
	PlayAlert(ctx context.Context, level, repeat int) int
}

type Outcome string

const (
	OutcomeDisabled   Outcome = "disabled"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeError      Outcome = "error"
	OutcomeEmpty      Outcome = "empty"
	OutcomeStale      Outcome = "stale"
	OutcomeUnchanged  Outcome = "unchanged"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeShown      Outcome = "shown"
)

// Pipeline runs one overlay's earthquake poll cycle: fetch, dedupe,
// filter, page and alert.
type Pipeline struct {
	cfg       overlay.Config
	policy    Policy
	source    Source
	display   Display
	presenter *Presenter
	alerter   Alerter
	clock     clockwork.Clock
	metrics   *observability.Metrics

	inFlight atomic.Bool

	mu      sync.Mutex
	lastSig string
}

func NewPipeline(cfg overlay.Config, policy Policy, source Source, display Display, alerter Alerter,
	clock clockwork.Clock, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		policy:    policy,
		source:    source,
		display:   display,
		presenter: NewPresenter(clock, display),
		alerter:   alerter,
		clock:     clock,
		metrics:   metrics,
	}
}

func (p *Pipeline) PollInterval() time.Duration {
	return time.Duration(p.cfg.QuakePollSec) * time.Second
}

func (p *Pipeline) Presenter() *Presenter {
	return p.presenter
}

// Poll runs one cycle. A cycle that starts while another is still in
// flight is skipped, not queued.
func (p *Pipeline) Poll(ctx context.Context) Outcome {
	if !p.inFlight.CompareAndSwap(false, true) {
		slog.Debug("Quake poll skipped, previous poll still in flight")
		p.metrics.QuakePolls.WithLabelValues(string(OutcomeSkipped)).Inc()
		return OutcomeSkipped
	}
	defer p.inFlight.Store(false)

	outcome := p.poll(ctx)
	p.metrics.QuakePolls.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (p *Pipeline) poll(ctx context.Context) Outcome {
	if !p.cfg.QuakeOn {
		p.presenter.Hide()
		p.display.Status("quake: off")
		return OutcomeDisabled
	}

	ev, err := p.source.Latest(ctx, Route{
		Sandbox:       p.cfg.QuakeSandbox,
		Proxy:         p.cfg.QuakeProxy,
		FallbackProxy: p.cfg.NewsProxy,
	})
	if err != nil {
		slog.Warn("Quake fetch failed", "error", err)
		p.presenter.Hide()
		p.display.Status(fmt.Sprintf("quake: error %v", err))
		return OutcomeError
	}
	if ev == nil {
		p.display.Status("quake: empty")
		return OutcomeEmpty
	}

	if p.policy.IsStale(*ev, p.clock.Now()) {
		p.display.Status("quake: stale")
		return OutcomeStale
	}

	sig := ev.Signature()
	p.mu.Lock()
	if sig == p.lastSig {
		p.mu.Unlock()
		p.display.Status("quake: no change")
		return OutcomeUnchanged
	}
	p.lastSig = sig
	p.mu.Unlock()

	pages, maxScale := BuildPages(*ev, Filter{
		MinScale: p.cfg.QuakeMinScale,
		PerPage:  p.cfg.QuakePerPage,
		Prefs:    p.cfg.PrefSet(),
		Policy:   p.policy,
	})
	if len(pages) == 0 {
		p.presenter.Hide()
		p.display.Status(fmt.Sprintf("quake: ignored (maxScale=%d)", maxScale))
		return OutcomeSuppressed
	}

	p.display.Status(fmt.Sprintf("quake: show pages=%d maxScale=%d", len(pages), maxScale))
	slog.Info("Quake alert shown", "max_scale", maxScale, "label", ScaleLabel(maxScale), "pages", len(pages))

	p.presenter.Show(ctx, pages, time.Duration(p.cfg.QuakePageSec)*time.Second)
	p.alert(ctx, maxScale)

	return OutcomeShown
}

// alert starts the sound alongside paging so the panel timing is not
// stretched by playback.
func (p *Pipeline) alert(ctx context.Context, maxScale int) {
	level := AlertLevel(maxScale, p.cfg.Sound1Min, p.cfg.Sound2Min)
	if level == 0 || p.alerter == nil {
		return
	}

	repeat := p.cfg.Sound1Repeat
	if level == 2 {
		repeat = p.cfg.Sound2Repeat
	}

	go func() {
		played := p.alerter.PlayAlert(ctx, level, repeat)
		if played > 0 {
			p.metrics.AlertsPlayed.WithLabelValues(strconv.Itoa(level)).Add(float64(played))
		}
	}()
}
