package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lysyi3m/obs-overlay/app/audio"
)

// staleAfter drops playbacks the page never acknowledged. The player has
// long since moved on by then.
const staleAfter = time.Minute

var _ audio.Backend = (*SinkBackend)(nil)

type pendingPlay struct {
	done      chan error
	startedAt time.Time
}

// SinkBackend plays clips on the overlay page: each playback becomes a
// sound frame and ends when the page reports it ended or failed.
type SinkBackend struct {
	publish func(Frame)
	clock   clockwork.Clock

	mu      sync.Mutex
	pending map[string]pendingPlay
}

func NewSinkBackend(publish func(Frame), clock clockwork.Clock) *SinkBackend {
	return &SinkBackend{
		publish: publish,
		clock:   clock,
		pending: make(map[string]pendingPlay),
	}
}

func (b *SinkBackend) Play(ctx context.Context, clip audio.Clip) (<-chan error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	done := make(chan error, 1)

	b.mu.Lock()
	now := b.clock.Now()
	for playID, p := range b.pending {
		if now.Sub(p.startedAt) > staleAfter {
			delete(b.pending, playID)
		}
	}
	b.pending[id] = pendingPlay{done: done, startedAt: now}
	b.mu.Unlock()

	b.publish(Frame{Type: FrameSound, Data: SoundFrame{Play: id, Clip: clip}})
	return done, nil
}

// Ended marks a playback finished. It reports false for unknown or
// already acknowledged ids.
func (b *SinkBackend) Ended(playID string) bool {
	return b.resolve(playID, nil)
}

// Failed marks a playback the page could not play. The player stops the
// remaining repeats of that alert.
func (b *SinkBackend) Failed(playID, reason string) bool {
	if reason == "" {
		reason = "unknown error"
	}
	return b.resolve(playID, fmt.Errorf("playback failed on overlay page: %s", reason))
}

func (b *SinkBackend) resolve(playID string, result error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[playID]
	if !ok {
		return false
	}
	delete(b.pending, playID)
	p.done <- result
	close(p.done)
	return true
}

func (b *SinkBackend) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
