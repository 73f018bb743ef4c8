package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/dbx"
	"github.com/krsnavtr-code/Pass-Manager/internal/logging"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/repomanager"
)

// DefaultSessionWindow is how long a login keeps a session alive.
const DefaultSessionWindow = 10 * time.Minute

const msgSessionExpired = "Session expired or not found"

// SessionStatus is the result of a successful Validate.
type SessionStatus struct {
	Session       *models.Session
	TimeRemaining time.Duration
}

// SessionService tracks short-lived login sessions on top of the long-lived
// bearer token. A session is only extended by a new login.
type SessionService struct {
	repomanager repomanager.RepositoryManager
	window      time.Duration
	now         Clock
	observer    SessionObserver
	log         logging.Logger
}

func NewSessionService(m repomanager.RepositoryManager, window time.Duration, log logging.Logger) *SessionService {
	if window <= 0 {
		window = DefaultSessionWindow
	}
	return &SessionService{
		repomanager: m,
		window:      window,
		now:         systemClock,
		observer:    noopObserver{},
		log:         logging.ForModule(log, "sessions"),
	}
}

func (s *SessionService) WithClock(c Clock) *SessionService {
	s.now = c
	return s
}

func (s *SessionService) WithObserver(o SessionObserver) *SessionService {
	if o != nil {
		s.observer = o
	}
	return s
}

// Login refreshes the user's newest live session or starts a new one.
// Two concurrent logins may both create a row; Validate always picks the
// newest, so that is harmless.
func (s *SessionService) Login(ctx context.Context, userID string) (*models.Session, error) {
	return s.loginWith(ctx, s.repomanager.Conn(), userID)
}

func (s *SessionService) loginWith(ctx context.Context, db dbx.DBTX, userID string) (*models.Session, error) {
	repo := s.repomanager.Sessions(db)
	now := s.now()
	expiry := now.Add(s.window)

	existing, err := repo.FindActive(ctx, userID, now)
	switch {
	case err == nil:
		if err := repo.Refresh(ctx, existing.ID, expiry, now); err != nil {
			return nil, fmt.Errorf("refresh session: %w", err)
		}
		existing.ExpiryTime = expiry
		existing.LastActivity = now
		s.observer.SessionRefreshed()
		s.log.Debug(ctx, "session refreshed", "user_id", userID, "session_id", existing.ID)
		return existing, nil
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("find session: %w", err)
	}

	created, err := repo.Create(ctx, &models.Session{
		UserID:       userID,
		LoginTime:    now,
		ExpiryTime:   expiry,
		IsActive:     true,
		LastActivity: now,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.observer.SessionCreated()
	s.log.Debug(ctx, "session created", "user_id", userID, "session_id", created.ID)
	return created, nil
}

// Validate purges every expired session of any user, then returns the
// newest live session of userID. A missing or expired session is reported
// as common.ErrSessionExpired.
func (s *SessionService) Validate(ctx context.Context, userID string) (*SessionStatus, error) {
	if _, err := s.PurgeExpired(ctx); err != nil {
		return nil, err
	}

	repo := s.repomanager.Sessions(s.repomanager.Conn())
	now := s.now()

	session, err := repo.FindActive(ctx, userID, now)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrSessionExpired, msgSessionExpired)
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	if err := repo.Touch(ctx, session.ID, now); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrSessionExpired, msgSessionExpired)
		}
		return nil, fmt.Errorf("touch session: %w", err)
	}
	session.LastActivity = now

	return &SessionStatus{Session: session, TimeRemaining: session.TimeRemaining(now)}, nil
}

// PurgeExpired deletes all sessions whose expiry is not after now.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions(s.repomanager.Conn()).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	if n > 0 {
		s.observer.SessionsPurged(n)
		s.log.Debug(ctx, "expired sessions purged", "count", n)
	}
	return n, nil
}
