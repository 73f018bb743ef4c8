// Package services contains server-side business logic: the session window,
// account and token handling, the vault entry store, and vault export.
//
// Services return the sentinel errors of internal/common, usually wrapped in
// a *common.Error carrying a message that is safe to show to API clients.
package services

import "time"

// Clock returns the current time. Services take one so tests can move time.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// SessionObserver receives session lifecycle events, usually for metrics.
type SessionObserver interface {
	SessionCreated()
	SessionRefreshed()
	SessionsPurged(n int64)
}

type noopObserver struct{}

func (noopObserver) SessionCreated()      {}
func (noopObserver) SessionRefreshed()    {}
func (noopObserver) SessionsPurged(int64) {}
