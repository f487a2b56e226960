package audio

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// PauseBetween separates consecutive playbacks of one alert.
const PauseBetween = 180 * time.Millisecond

// Clip is one alert sound as served to the overlay page.
type Clip struct {
	Name     string        `json:"name"`
	Src      string        `json:"src"`
	Duration time.Duration `json:"-"`
}

// Backend starts playback of a clip. The returned channel yields nil when
// playback ends and an error when it fails; a closed channel counts as ended.
type Backend interface {
	Play(ctx context.Context, clip Clip) (<-chan error, error)
}

type Player struct {
	backend Backend
	clock   clockwork.Clock
	level1  Clip
	level2  Clip
}

func NewPlayer(backend Backend, clock clockwork.Clock, level1, level2 Clip) *Player {
	return &Player{
		backend: backend,
		clock:   clock,
		level1:  level1,
		level2:  level2,
	}
}

// DefaultClips returns the two bundled alert sounds served under soundPath.
func DefaultClips(soundPath string, level1, level2 time.Duration) (Clip, Clip) {
	return Clip{Name: "Alert01.mp3", Src: soundPath + "/Alert01.mp3", Duration: level1},
		Clip{Name: "Alert02.mp3", Src: soundPath + "/Alert02.mp3", Duration: level2}
}

func (p *Player) ClipFor(level int) Clip {
	if level == 2 {
		return p.level2
	}
	return p.level1
}

// CompletionFloor is how long a single playback may take before it is
// considered finished without an end signal.
func CompletionFloor(clip Clip) time.Duration {
	return max(4*time.Second, clip.Duration+500*time.Millisecond)
}

func clampRepeat(repeat int) int {
	return max(1, min(9, repeat))
}

// PlayAlert plays the clip for level repeat times (clamped to 1..9) and
// returns how many playbacks were started. A playback error ends the run.
func (p *Player) PlayAlert(ctx context.Context, level, repeat int) int {
	clip := p.ClipFor(level)
	times := clampRepeat(repeat)

	played := 0
	for range times {
		if err := p.playOnce(ctx, clip); err != nil {
			slog.Warn("Alert playback failed", "clip", clip.Name, "played", played, "error", err)
			return played
		}
		played++

		select {
		case <-ctx.Done():
			return played
		case <-p.clock.After(PauseBetween):
		}
	}
	return played
}

func (p *Player) playOnce(ctx context.Context, clip Clip) error {
	done, err := p.backend.Play(ctx, clip)
	if err != nil {
		return err
	}

	timer := p.clock.NewTimer(CompletionFloor(clip))
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-timer.Chan():
		slog.Debug("Alert playback end not reported, continuing", "clip", clip.Name)
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
