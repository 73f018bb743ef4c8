package entries

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
)

// MemoryRepository keeps entries in process memory and applies filters with
// models.EntryFilter.Matches.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]*models.PasswordEntry
	seq  map[string]int64
	next int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rows: make(map[string]*models.PasswordEntry),
		seq:  make(map[string]int64),
	}
}

func clone(e *models.PasswordEntry) *models.PasswordEntry {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, e *models.PasswordEntry) (*models.PasswordEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = uuid.NewString()
	r.rows[e.ID] = clone(e)
	r.next++
	r.seq[e.ID] = r.next
	return e, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.PasswordEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(e), nil
}

func (r *MemoryRepository) List(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.PasswordEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.PasswordEntry, 0)
	for _, e := range r.rows {
		if e.UserID == userID && filter.Matches(e) {
			result = append(result, clone(e))
		}
	}

	// newest first; insertion order breaks ties between equal timestamps
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return r.seq[a.ID] > r.seq[b.ID]
	})
	return result, nil
}

func (r *MemoryRepository) Update(ctx context.Context, e *models.PasswordEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.rows[e.ID]
	if !ok {
		return common.ErrorNotFound
	}
	updated := clone(e)
	updated.UserID = cur.UserID
	updated.CreatedAt = cur.CreatedAt
	r.rows[e.ID] = updated
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, id)
	delete(r.seq, id)
	return nil
}
