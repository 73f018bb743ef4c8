// Package session keeps the CLI in step with the server-side login session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/client/client"
)

const (
	DefaultPollInterval  = 30 * time.Second
	DefaultTickInterval  = time.Second
	DefaultWarnThreshold = 2 * time.Minute
)

// ErrExpired is passed to the expiry callback when the countdown or the
// server reports no time left.
var ErrExpired = errors.New("session expired")

// Checker fetches the current session state.
type Checker interface {
	Session(ctx context.Context) (*client.SessionInfo, error)
}

// Watcher polls the server for the remaining session time and counts down
// locally between polls. A 401 or an exhausted countdown ends the watch and
// fires OnExpired; other errors are reported to OnError and the watch goes on
// with the last known deadline.
type Watcher struct {
	checker       Checker
	pollInterval  time.Duration
	tickInterval  time.Duration
	warnThreshold time.Duration
	now           func() time.Time

	onWarning func(remaining time.Duration)
	onExpired func(reason error)
	onError   func(err error)

	mu        sync.RWMutex
	remaining time.Duration
}

func NewWatcher(c Checker, pollInterval time.Duration) *Watcher {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Watcher{
		checker:       c,
		pollInterval:  pollInterval,
		tickInterval:  DefaultTickInterval,
		warnThreshold: DefaultWarnThreshold,
		now:           time.Now,
		onWarning:     func(time.Duration) {},
		onExpired:     func(error) {},
		onError:       func(error) {},
	}
}

func (w *Watcher) OnWarning(fn func(remaining time.Duration)) *Watcher {
	w.onWarning = fn
	return w
}

func (w *Watcher) OnExpired(fn func(reason error)) *Watcher {
	w.onExpired = fn
	return w
}

func (w *Watcher) OnError(fn func(err error)) *Watcher {
	w.onError = fn
	return w
}

// Remaining is the locally counted time left, as of the last tick or poll.
func (w *Watcher) Remaining() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.remaining
}

func (w *Watcher) setRemaining(d time.Duration) {
	w.mu.Lock()
	w.remaining = d
	w.mu.Unlock()
}

// Run blocks until ctx is cancelled or the session ends.
func (w *Watcher) Run(ctx context.Context) {
	var (
		deadline time.Time
		known    bool
		warned   bool
	)

	// evaluate returns false once the session is over.
	evaluate := func(remaining time.Duration) bool {
		if remaining <= 0 {
			w.setRemaining(0)
			w.onExpired(ErrExpired)
			return false
		}
		w.setRemaining(remaining)
		if remaining > w.warnThreshold {
			warned = false
		} else if !warned {
			warned = true
			w.onWarning(remaining)
		}
		return true
	}

	poll := func() bool {
		info, err := w.checker.Session(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			if errors.Is(err, client.ErrUnauthorized) {
				w.setRemaining(0)
				w.onExpired(err)
				return false
			}
			w.onError(err)
			return true
		}
		deadline, known = w.now().Add(info.TimeRemaining), true
		return evaluate(info.TimeRemaining)
	}

	if !poll() {
		return
	}

	pollTicker := time.NewTicker(w.pollInterval)
	defer pollTicker.Stop()
	countdown := time.NewTicker(w.tickInterval)
	defer countdown.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pollTicker.C:
			if !poll() {
				return
			}
		case <-countdown.C:
			if known && !evaluate(deadline.Sub(w.now())) {
				return
			}
		}
	}
}
