// Package repomanager vends repository implementations for one storage
// backend and owns the backend's connection lifecycle.
package repomanager

import (
	"context"

	"github.com/krsnavtr-code/Pass-Manager/internal/dbx"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/entries"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/sessions"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error

	// Conn is the non-transactional handle passed to the factories below.
	Conn() dbx.DBTX
	// WithTx runs fn in a transaction where the backend supports one.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error

	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Entries(db dbx.DBTX) entries.Repository

	Close() error
}
