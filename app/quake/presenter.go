package quake

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Display receives what the alert panel should show.
type Display interface {
	ShowQuakePage(page Page, index, total int)
	HideQuake()
	Status(msg string)
}

// Presenter pages through an event on a fixed cadence. Every Show or Hide
// bumps the display token; a paging run whose token is no longer current
// stops without touching the display.
type Presenter struct {
	clock   clockwork.Clock
	display Display

	mu    sync.Mutex
	token uint64
}

func NewPresenter(clock clockwork.Clock, display Display) *Presenter {
	return &Presenter{clock: clock, display: display}
}

// Show starts paging and returns the token of the new run. The panel stays
// up for len(pages) * every and is then hidden.
func (p *Presenter) Show(ctx context.Context, pages []Page, every time.Duration) uint64 {
	p.mu.Lock()
	p.token++
	token := p.token
	p.mu.Unlock()

	go p.run(ctx, token, pages, every)
	return token
}

// Hide cancels any paging run and hides the panel.
func (p *Presenter) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token++
	p.display.HideQuake()
}

func (p *Presenter) Token() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

func (p *Presenter) run(ctx context.Context, token uint64, pages []Page, every time.Duration) {
	for i, page := range pages {
		if !p.ifCurrent(token, func() { p.display.ShowQuakePage(page, i, len(pages)) }) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-p.clock.After(every):
		}
	}

	p.ifCurrent(token, p.display.HideQuake)
}

func (p *Presenter) ifCurrent(token uint64, fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != token {
		return false
	}
	fn()
	return true
}
