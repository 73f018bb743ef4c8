package services

import (
	"testing"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/dbx"
	"github.com/krsnavtr-code/Pass-Manager/internal/logging"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/config"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/entries"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/repomanager"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/sessions"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// fakeClock is a settable Clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	rm       *repomanager.MemoryRepositoryManager
	clock    *fakeClock
	sessions *SessionService
	users    *UserService
	entries  *EntryService
	cfg      *config.Config
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.SecretKey = "test-secret"
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	rm := repomanager.NewMemoryRepositoryManager()
	clock := &fakeClock{t: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)}
	log := logging.NewDiscardLogger()

	sessions := NewSessionService(rm, cfg.SessionDuration, log).WithClock(clock.Now)
	return &testEnv{
		rm:       rm,
		clock:    clock,
		sessions: sessions,
		users:    NewUserService(rm, sessions, cfg, log),
		entries:  NewEntryService(rm, log).WithClock(clock.Now),
		cfg:      cfg,
	}
}

func ptr[T any](v T) *T { return &v }

// failingManager swaps individual repositories of the memory backend.
type failingManager struct {
	*repomanager.MemoryRepositoryManager
	users    users.Repository
	sessions sessions.Repository
	entries  entries.Repository
}

func (m *failingManager) Users(db dbx.DBTX) users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.MemoryRepositoryManager.Users(db)
}

func (m *failingManager) Sessions(db dbx.DBTX) sessions.Repository {
	if m.sessions != nil {
		return m.sessions
	}
	return m.MemoryRepositoryManager.Sessions(db)
}

func (m *failingManager) Entries(db dbx.DBTX) entries.Repository {
	if m.entries != nil {
		return m.entries
	}
	return m.MemoryRepositoryManager.Entries(db)
}
