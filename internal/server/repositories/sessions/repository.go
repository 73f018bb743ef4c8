// Package sessions persists login sessions.
package sessions

import (
	"context"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
)

// Repository stores sessions.
type Repository interface {
	// Create inserts s and fills in its ID.
	Create(ctx context.Context, s *models.Session) (*models.Session, error)
	// FindActive returns the newest active session of userID whose expiry is
	// after now, or common.ErrorNotFound.
	FindActive(ctx context.Context, userID string, now time.Time) (*models.Session, error)
	// Refresh moves the expiry of session id and records activity.
	Refresh(ctx context.Context, id string, expiry, lastActivity time.Time) error
	// Touch records activity without changing the expiry.
	Touch(ctx context.Context, id string, lastActivity time.Time) error
	// DeleteExpired removes every session of any user with expiry <= now and
	// returns how many rows went away.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
