// Package users persists accounts.
package users

import (
	"context"

	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
)

// Repository stores users. Emails are compared case-insensitively;
// Create returns common.ErrConflict for a taken email and lookups return
// common.ErrorNotFound for unknown users.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
