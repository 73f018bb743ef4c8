package models

import "time"

// Session bounds how long a logged-in client may stay active. It expires
// independently of the bearer token; only a new login moves ExpiryTime.
type Session struct {
	ID           string
	UserID       string
	LoginTime    time.Time
	ExpiryTime   time.Time
	IsActive     bool
	LastActivity time.Time
	CreatedAt    time.Time
}

// Expired reports whether the session can no longer be used at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.IsActive || !s.ExpiryTime.After(now)
}

// TimeRemaining is the time left until expiry, never negative.
func (s *Session) TimeRemaining(now time.Time) time.Duration {
	if d := s.ExpiryTime.Sub(now); d > 0 {
		return d
	}
	return 0
}
