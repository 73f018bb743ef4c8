package repomanager

import (
	"context"

	"github.com/krsnavtr-code/Pass-Manager/internal/dbx"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/entries"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/sessions"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/users"
)

// MemoryRepositoryManager serves process-local repositories. The DBTX
// arguments are ignored and WithTx gives no rollback; it is meant for tests
// and throwaway local runs.
type MemoryRepositoryManager struct {
	users    *users.MemoryRepository
	sessions *sessions.MemoryRepository
	entries  *entries.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
		entries:  entries.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Sessions(dbx.DBTX) sessions.Repository { return m.sessions }

func (m *MemoryRepositoryManager) Entries(dbx.DBTX) entries.Repository { return m.entries }

// SessionStore exposes the concrete session store for inspection in tests.
func (m *MemoryRepositoryManager) SessionStore() *sessions.MemoryRepository { return m.sessions }

func (m *MemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }
