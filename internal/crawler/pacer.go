package crawler

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// RandSource supplies the randomness of politeness pacing.
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	// Int64N returns a value in [0, n).
	Int64N(n int64) int64
}

// globalRand uses the automatically seeded top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }

// Politeness configures randomized pauses between fetches.
// A pause of a random length in [PauseMin, PauseMax] is inserted after a
// random number of successful fetches in [EveryMin, EveryMax].
type Politeness struct {
	EveryMin int
	EveryMax int
	PauseMin time.Duration
	PauseMax time.Duration
}

// DefaultPoliteness pauses for 1-3 seconds every 8-15 pages.
func DefaultPoliteness() Politeness {
	return Politeness{
		EveryMin: 8,
		EveryMax: 15,
		PauseMin: 1 * time.Second,
		PauseMax: 3 * time.Second,
	}
}

// Enabled reports whether pauses are configured at all.
func (p Politeness) Enabled() bool {
	return p.EveryMin > 0 && p.PauseMax > 0
}

// Pacer inserts politeness pauses. It is shared by all workers of a crawl so
// that the cadence stays global.
type Pacer struct {
	cfg  Politeness
	rnd  RandSource
	mu   sync.Mutex
	done int
	next int
}

// NewPacer creates a Pacer. A nil rnd uses the global random source.
func NewPacer(cfg Politeness, rnd RandSource) *Pacer {
	if rnd == nil {
		rnd = globalRand{}
	}
	if cfg.EveryMax < cfg.EveryMin {
		cfg.EveryMax = cfg.EveryMin
	}
	if cfg.PauseMax < cfg.PauseMin {
		cfg.PauseMax = cfg.PauseMin
	}
	p := &Pacer{cfg: cfg, rnd: rnd}
	p.next = p.nextTrigger()
	return p
}

// Done records one successful fetch and pauses when the trigger count is
// reached. It returns whether a pause happened, and ctx.Err() if the context
// ended during the pause.
func (p *Pacer) Done(ctx context.Context) (bool, error) {
	if !p.cfg.Enabled() {
		return false, nil
	}

	p.mu.Lock()
	p.done++
	if p.done < p.next {
		p.mu.Unlock()
		return false, nil
	}
	p.done = 0
	p.next = p.nextTrigger()
	d := p.pauseLength()
	p.mu.Unlock()

	if d <= 0 {
		return true, nil
	}
	select {
	case <-ctx.Done():
		return true, ctx.Err()
	case <-time.After(d):
		return true, nil
	}
}

// nextTrigger must be called with mu held or before the pacer is shared.
func (p *Pacer) nextTrigger() int {
	span := int64(p.cfg.EveryMax - p.cfg.EveryMin + 1)
	return p.cfg.EveryMin + int(p.rnd.Int64N(span))
}

func (p *Pacer) pauseLength() time.Duration {
	span := int64(p.cfg.PauseMax-p.cfg.PauseMin) + 1
	return p.cfg.PauseMin + time.Duration(p.rnd.Int64N(span))
}
