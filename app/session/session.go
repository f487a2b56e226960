package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lysyi3m/obs-overlay/app/audio"
	"github.com/lysyi3m/obs-overlay/app/clock"
	"github.com/lysyi3m/obs-overlay/app/news"
	"github.com/lysyi3m/obs-overlay/app/observability"
	"github.com/lysyi3m/obs-overlay/app/overlay"
	"github.com/lysyi3m/obs-overlay/app/quake"
	"github.com/lysyi3m/obs-overlay/app/tasks"
)

const DefaultFrameBuffer = 64

// Deps are the shared services every session is built from.
type Deps struct {
	Clock          clockwork.Clock
	Metrics        *observability.Metrics
	Scheduler      tasks.TaskSchedulerInterface
	QuakeSource    quake.Source
	NewsFetcher    news.FeedFetcher
	Policy         quake.Policy
	Level1Clip     audio.Clip
	Level2Clip     audio.Clip
	NewsRefresh    time.Duration
	NewsRetryDelay time.Duration
	FrameBuffer    int
}

var (
	_ quake.Display = (*Session)(nil)
	_ news.Display  = (*Session)(nil)
)

// Session drives one connected overlay page. It owns the widgets built
// from the page's resolved configuration and publishes their updates as
// frames. Frames are dropped oldest first when the page falls behind.
type Session struct {
	ID     string
	Config overlay.Config

	deps     Deps
	ctx      context.Context
	cancel   context.CancelFunc
	frames   chan Frame
	pubMu    sync.Mutex
	sink     *SinkBackend
	player   *audio.Player
	ticker   *news.Ticker
	pipeline *quake.Pipeline
	wg       sync.WaitGroup
}

func New(parent context.Context, cfg overlay.Config, deps Deps) *Session {
	ctx, cancel := context.WithCancel(parent)
	buffer := deps.FrameBuffer
	if buffer <= 0 {
		buffer = DefaultFrameBuffer
	}

	s := &Session{
		ID:     uuid.NewString(),
		Config: cfg,
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		frames: make(chan Frame, buffer),
	}

	s.sink = NewSinkBackend(s.publish, deps.Clock)
	s.player = audio.NewPlayer(s.sink, deps.Clock, deps.Level1Clip, deps.Level2Clip)
	s.ticker = news.NewTicker(cfg, deps.NewsFetcher, s, deps.Clock, deps.Metrics)
	s.pipeline = quake.NewPipeline(cfg, deps.Policy, deps.QuakeSource, s, s.player, deps.Clock, deps.Metrics)

	return s
}

// Start publishes the initial frames and registers the periodic jobs.
func (s *Session) Start() {
	s.publish(Frame{Type: FrameTestMode, Data: TestModeFrame{Enabled: s.Config.TestMode}})
	s.HideQuake()

	s.wg.Add(1)
	go s.runClock()

	if s.ticker.Enabled() {
		s.deps.Scheduler.Every(s.ctx, s.deps.NewsRefresh, func() tasks.TaskInterface {
			return tasks.NewNewsRefreshTask(s.ID, s.ticker, s.deps.NewsRetryDelay)
		})
	} else {
		s.HideTicker()
	}

	if s.Config.QuakeOn {
		s.deps.Scheduler.Every(s.ctx, s.pipeline.PollInterval(), func() tasks.TaskInterface {
			return tasks.NewQuakePollTask(s.ID, s.pipeline)
		})
	} else {
		s.pipeline.Poll(s.ctx)
	}

	slog.Info("Overlay session started", "session", s.ID, "quake", s.Config.QuakeOn, "news", s.ticker.Enabled(), "test_mode", s.Config.TestMode)
}

// Close stops every job of the session and waits for the clock loop.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Session) Frames() <-chan Frame {
	return s.frames
}

func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Ticker() *news.Ticker {
	return s.ticker
}

func (s *Session) Pipeline() *quake.Pipeline {
	return s.pipeline
}

// SoundEnded acknowledges the end of a playback started by a sound frame.
func (s *Session) SoundEnded(playID string) bool {
	return s.sink.Ended(playID)
}

// SoundFailed reports that the page could not play a clip.
func (s *Session) SoundFailed(playID, reason string) bool {
	return s.sink.Failed(playID, reason)
}

// ReportTickerWidth forwards the page's measured track width.
func (s *Session) ReportTickerWidth(generation uint64, width float64) {
	s.ticker.ReportWidth(s.ctx, generation, width)
}

func (s *Session) TickerLoop(generation uint64) {
	s.ticker.LoopBoundary(s.ctx, generation)
}

// PreviewAlert plays the alert sound for level with the configured repeat
// count (at least once) without showing anything.
func (s *Session) PreviewAlert(level int) {
	repeat := s.Config.Sound1Repeat
	if level == 2 {
		repeat = s.Config.Sound2Repeat
	}
	go s.player.PlayAlert(s.ctx, level, max(1, repeat))
}

func (s *Session) ShowQuakePage(page quake.Page, index, total int) {
	s.publish(Frame{Type: FrameQuake, Data: newQuakeFrame(page, index, total)})
}

func (s *Session) HideQuake() {
	s.publish(Frame{Type: FrameQuake, Data: QuakeFrame{}})
}

func (s *Session) ShowTicker(frame news.Frame) {
	s.publish(Frame{Type: FrameTicker, Data: frame})
}

func (s *Session) HideTicker() {
	s.publish(Frame{Type: FrameTicker, Data: news.Frame{}})
}

// Status reaches the page only when the debug line is enabled.
func (s *Session) Status(msg string) {
	slog.Debug("Overlay status", "session", s.ID, "status", msg)
	if !s.Config.ShowStatus {
		return
	}
	s.publish(Frame{Type: FrameStatus, Data: StatusFrame{Message: msg}})
}

func (s *Session) runClock() {
	defer s.wg.Done()

	if !s.Config.TimeOn {
		s.publish(Frame{Type: FrameClock, Data: clock.Frame{}})
		return
	}

	opts := clock.OptionsFromConfig(s.Config)
	last := clock.NewFrame(s.deps.Clock.Now(), opts)
	s.publish(Frame{Type: FrameClock, Data: last})

	ticker := s.deps.Clock.NewTicker(clock.Interval(opts))
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.Chan():
			frame := clock.NewFrame(now, opts)
			if frame == last {
				continue
			}
			last = frame
			s.publish(Frame{Type: FrameClock, Data: frame})
		}
	}
}

func (s *Session) publish(frame Frame) {
	if s.ctx.Err() != nil {
		return
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	for {
		select {
		case s.frames <- frame:
			return
		default:
		}

		select {
		case <-s.frames:
			s.deps.Metrics.FramesDropped.Inc()
		default:
		}
	}
}
