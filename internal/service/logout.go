package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
	"github.com/sman1jakarta/portal/internal/task"
)

const (
	// DefaultLogoutCountdown is the wait, in ticks, before a confirmed logout runs.
	DefaultLogoutCountdown = 5
	// completedLogoutRetention bounds how long an unclaimed completed logout is kept.
	completedLogoutRetention = 5 * time.Minute
)

var (
	// ErrLogoutNotReady is returned by Complete while the countdown is still running.
	ErrLogoutNotReady = apperrors.Conflict("logout countdown still running")
	// ErrNoPendingLogout is returned by Complete when no logout was started for the session.
	ErrNoPendingLogout = apperrors.NotFound("no pending logout")
	// ErrLogoutAlreadyDone is returned by Cancel once the record has been removed.
	ErrLogoutAlreadyDone = apperrors.Conflict("logout already completed")
)

// LogoutState describes where a session is in the logout flow.
type LogoutState string

const (
	LogoutNone    LogoutState = "none"
	LogoutPending LogoutState = "pending"
	LogoutDone    LogoutState = "done"
)

// LogoutStatus is reported to the polling logout dialog.
type LogoutStatus struct {
	State     LogoutState `json:"state"`
	Remaining int         `json:"remaining"`
}

// SessionTerminator removes an auth record.
type SessionTerminator interface {
	Logout(ctx context.Context, sessionID string) error
}

// LogoutCoordinatorOptions groups dependencies for LogoutCoordinator.
type LogoutCoordinatorOptions struct {
	Auth   SessionTerminator // Required
	Config LogoutConfig
}

// LogoutConfig tunes the countdown.
type LogoutConfig struct {
	Countdown int           // ticks before logout; default DefaultLogoutCountdown
	Interval  time.Duration // tick length; default one second
	Logger    *slog.Logger
}

type logoutEntry struct {
	countdown *task.Countdown
	done      bool
	doneAt    time.Time
	err       error
}

// LogoutCoordinator runs the confirmed-logout countdown, at most one per
// session. When a countdown completes the auth record is deleted and the
// session is marked done; the page then claims the result with Complete.
type LogoutCoordinator struct {
	auth     SessionTerminator
	ticks    int
	interval time.Duration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[string]*logoutEntry
}

// NewLogoutCoordinator creates a coordinator. Call Shutdown to stop pending countdowns.
func NewLogoutCoordinator(opts LogoutCoordinatorOptions) *LogoutCoordinator {
	if opts.Auth == nil {
		panic("NewLogoutCoordinator: Auth is required")
	}
	cfg := opts.Config
	if cfg.Countdown <= 0 {
		cfg.Countdown = DefaultLogoutCountdown
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &LogoutCoordinator{
		auth:     opts.Auth,
		ticks:    cfg.Countdown,
		interval: cfg.Interval,
		logger:   logger.With("component", "logout"),
		ctx:      ctx,
		cancel:   cancel,
		entries:  make(map[string]*logoutEntry),
	}
}

// Begin starts the countdown for sessionID unless one already exists.
func (c *LogoutCoordinator) Begin(sessionID string) (LogoutStatus, error) {
	if sessionID == "" {
		return LogoutStatus{State: LogoutNone}, domainauth.ErrNoSession
	}
	if err := c.ctx.Err(); err != nil {
		return LogoutStatus{State: LogoutNone}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked(time.Now())

	if e, ok := c.entries[sessionID]; ok {
		return e.status(), nil
	}

	e := &logoutEntry{countdown: task.NewCountdownWithInterval(c.interval)}
	c.entries[sessionID] = e
	err := e.countdown.Start(c.ctx, c.ticks, nil, func(ctx context.Context) {
		c.finish(ctx, sessionID, e)
	})
	if err != nil {
		delete(c.entries, sessionID)
		return LogoutStatus{State: LogoutNone}, err
	}
	c.logger.Debug("logout countdown started", "seconds", c.ticks)
	return e.status(), nil
}

func (c *LogoutCoordinator) finish(ctx context.Context, sessionID string, e *logoutEntry) {
	err := c.auth.Logout(ctx, sessionID)
	if err != nil {
		c.logger.ErrorContext(ctx, "logout failed", "error", err)
	}
	c.mu.Lock()
	e.done = true
	e.doneAt = time.Now()
	e.err = err
	c.mu.Unlock()
}

// caller holds c.mu
func (e *logoutEntry) status() LogoutStatus {
	if e.done {
		return LogoutStatus{State: LogoutDone}
	}
	return LogoutStatus{State: LogoutPending, Remaining: e.countdown.Remaining()}
}

// caller holds c.mu
func (c *LogoutCoordinator) pruneLocked(now time.Time) {
	for id, e := range c.entries {
		if e.done && now.Sub(e.doneAt) > completedLogoutRetention {
			delete(c.entries, id)
		}
	}
}

// Status reports the logout state for sessionID.
func (c *LogoutCoordinator) Status(sessionID string) LogoutStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sessionID]
	if !ok {
		return LogoutStatus{State: LogoutNone}
	}
	return e.status()
}

// Cancel stops a pending countdown and leaves the auth record untouched.
// Canceling when nothing is pending is a no-op. Once the countdown has
// completed Cancel returns ErrLogoutAlreadyDone.
func (c *LogoutCoordinator) Cancel(sessionID string) error {
	c.mu.Lock()
	e, ok := c.entries[sessionID]
	c.mu.Unlock()
	if !ok {
		return nil
	}

	if !e.countdown.Cancel() {
		return ErrLogoutAlreadyDone
	}
	c.mu.Lock()
	if c.entries[sessionID] == e {
		delete(c.entries, sessionID)
	}
	c.mu.Unlock()
	c.logger.Debug("logout countdown canceled")
	return nil
}

// Complete claims a finished logout exactly once. It fails with
// ErrLogoutNotReady while the countdown runs and ErrNoPendingLogout when there
// is nothing to claim.
func (c *LogoutCoordinator) Complete(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sessionID]
	switch {
	case !ok:
		return ErrNoPendingLogout
	case !e.done:
		return ErrLogoutNotReady
	}
	delete(c.entries, sessionID)
	return e.err
}

// Pending returns the number of sessions with a running countdown.
func (c *LogoutCoordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if !e.done {
			n++
		}
	}
	return n
}

// Shutdown cancels every pending countdown and waits for their goroutines.
func (c *LogoutCoordinator) Shutdown() {
	c.cancel()
	c.mu.Lock()
	entries := make([]*logoutEntry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.mu.Unlock()
	for _, e := range entries {
		e.countdown.Cancel()
		<-e.countdown.Done()
	}
}

// IsLogoutConflict reports whether err is one of the coordinator's 409 errors.
func IsLogoutConflict(err error) bool {
	return errors.Is(err, ErrLogoutNotReady) || errors.Is(err, ErrLogoutAlreadyDone)
}
