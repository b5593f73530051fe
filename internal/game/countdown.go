package game

import (
	"sync"
	"time"
)

// Countdown decrements a remaining-time counter on a fixed wall-clock
// cadence. It cannot fail; its only terminal state is reaching zero, at
// which point it stops itself and fires onExpire exactly once.
type Countdown struct {
	mu        sync.Mutex
	interval  time.Duration
	total     time.Duration
	remaining time.Duration
	running   bool
	stop      chan struct{}

	onTick   func(remaining time.Duration)
	onExpire func()
}

// NewCountdown creates a countdown ticking every interval. Callbacks are
// invoked without the internal lock held, so they may call back into the
// countdown (ApplyPenalty, Remaining, Stop).
func NewCountdown(interval time.Duration, onTick func(time.Duration), onExpire func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// Start begins the cadence with the given budget. Idempotent: starting while
// already running stops the prior cadence first, so time is never
// double-decremented. remaining is clamped to [0, total].
func (c *Countdown) Start(total, remaining time.Duration) {
	c.mu.Lock()
	if c.running {
		close(c.stop)
	}
	c.total = total
	c.remaining = clampDuration(remaining, 0, total)
	c.stop = make(chan struct{})
	c.running = true
	stop := c.stop
	c.mu.Unlock()

	go c.loop(stop)
}

// Stop halts the cadence. Safe to call when not running.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if c.running {
		close(c.stop)
		c.running = false
	}
	c.mu.Unlock()
}

// Remaining returns the time left on the clock.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// ApplyPenalty subtracts p from the remaining time, clamped to [0, total],
// without affecting the cadence. A penalty that empties the clock does not
// fire expiry itself; the next tick does.
func (c *Countdown) ApplyPenalty(p time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = clampDuration(c.remaining-p, 0, c.total)
	return c.remaining
}

func (c *Countdown) loop(stop chan struct{}) {
	t := time.NewTicker(c.interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if c.tick(stop) {
				return
			}
		}
	}
}

// tick advances the clock by one interval. Returns true when this loop must
// exit: either the cadence was superseded by a later Start, or time expired.
func (c *Countdown) tick(stop chan struct{}) bool {
	c.mu.Lock()
	if !c.running || c.stop != stop {
		c.mu.Unlock()
		return true
	}
	c.remaining = clampDuration(c.remaining-c.interval, 0, c.total)
	rem := c.remaining
	expired := rem <= 0
	if expired {
		close(c.stop)
		c.running = false
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(rem)
	}
	if expired && c.onExpire != nil {
		c.onExpire()
	}
	return expired
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
