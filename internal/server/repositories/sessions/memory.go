package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
)

// MemoryRepository keeps sessions in a map keyed by session id.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]*models.Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]*models.Session)}
}

func (r *MemoryRepository) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = uuid.NewString()
	stored := *s
	r.rows[s.ID] = &stored
	return s, nil
}

func (r *MemoryRepository) FindActive(ctx context.Context, userID string, now time.Time) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *models.Session
	for _, s := range r.rows {
		if s.UserID != userID || !s.IsActive || !s.ExpiryTime.After(now) {
			continue
		}
		if best == nil || s.CreatedAt.After(best.CreatedAt) {
			best = s
		}
	}
	if best == nil {
		return nil, common.ErrorNotFound
	}
	c := *best
	return &c, nil
}

func (r *MemoryRepository) Refresh(ctx context.Context, id string, expiry, lastActivity time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	s.ExpiryTime = expiry
	s.LastActivity = lastActivity
	return nil
}

func (r *MemoryRepository) Touch(ctx context.Context, id string, lastActivity time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	s.LastActivity = lastActivity
	return nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.rows {
		if !s.ExpiryTime.After(now) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// Len is the number of stored rows, expired or not.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
