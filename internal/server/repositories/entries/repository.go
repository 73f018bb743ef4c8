// Package entries persists vault entries. Repositories never check
// ownership; that is the service's job.
package entries

import (
	"context"

	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
)

type Repository interface {
	// Create inserts e and fills in its ID.
	Create(ctx context.Context, e *models.PasswordEntry) (*models.PasswordEntry, error)
	// GetByID returns the entry regardless of owner, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.PasswordEntry, error)
	// List returns userID's entries matching filter, newest first.
	List(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.PasswordEntry, error)
	// Update stores every mutable field of e. Missing rows yield common.ErrorNotFound.
	Update(ctx context.Context, e *models.PasswordEntry) error
	// Delete removes the entry. Missing rows yield common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}
