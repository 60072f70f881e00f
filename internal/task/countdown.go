// Package task provides cancellable deferred work: a one-second countdown that
// fires a completion callback, and an errgroup wrapper for fan-out.
package task

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice on one Countdown.
	ErrAlreadyStarted = errors.New("countdown already started")
	// ErrCanceled is returned when Start is called on a canceled Countdown.
	ErrCanceled = errors.New("countdown canceled")
)

// Countdown ticks down once per interval and calls onDone when it reaches zero.
//
// onDone fires at most once, and never after Cancel has returned true. The
// callbacks must not call Cancel on the same Countdown.
type Countdown struct {
	interval time.Duration

	// fire is held while onDone runs so Cancel can wait it out.
	fire sync.Mutex

	mu        sync.Mutex
	remaining int
	started   bool
	canceled  bool
	fired     bool
	stop      context.CancelFunc

	done     chan struct{}
	doneOnce sync.Once
}

// NewCountdown returns a Countdown that ticks every second.
func NewCountdown() *Countdown {
	return NewCountdownWithInterval(time.Second)
}

// NewCountdownWithInterval returns a Countdown with a custom tick length, mainly for tests.
func NewCountdownWithInterval(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval, done: make(chan struct{})}
}

// Start runs the countdown in a new goroutine. onTick receives the remaining
// ticks after each decrement; either callback may be nil. Canceling ctx stops
// the countdown without firing onDone.
func (c *Countdown) Start(
	ctx context.Context,
	ticks int,
	onTick func(remaining int),
	onDone func(ctx context.Context),
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.canceled:
		return ErrCanceled
	case c.started:
		return ErrAlreadyStarted
	}
	c.started = true
	c.remaining = max(ticks, 0)

	runCtx, stop := context.WithCancel(ctx)
	c.stop = stop
	go c.run(runCtx, onTick, onDone)
	return nil
}

func (c *Countdown) run(ctx context.Context, onTick func(int), onDone func(context.Context)) {
	defer c.closeDone()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for c.Remaining() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		c.mu.Lock()
		c.remaining--
		left := c.remaining
		c.mu.Unlock()
		if onTick != nil {
			onTick(left)
		}
	}

	c.fire.Lock()
	defer c.fire.Unlock()

	c.mu.Lock()
	if c.canceled || ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.fired = true
	c.mu.Unlock()

	if onDone != nil {
		onDone(ctx)
	}
}

// Cancel stops the countdown. It returns false when onDone has already fired;
// in that case Cancel waits for onDone to return first.
func (c *Countdown) Cancel() bool {
	c.fire.Lock()
	defer c.fire.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fired {
		return false
	}
	if !c.canceled {
		c.canceled = true
		if c.stop != nil {
			c.stop()
		}
		if !c.started {
			c.closeDone()
		}
	}
	return true
}

// Remaining returns the ticks left before completion.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Fired reports whether onDone has run.
func (c *Countdown) Fired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}

// Canceled reports whether Cancel stopped the countdown.
func (c *Countdown) Canceled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canceled
}

// Done is closed once the countdown goroutine has exited, or when a countdown
// that never started is canceled.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

func (c *Countdown) closeDone() {
	c.doneOnce.Do(func() { close(c.done) })
}
