package repomanager

import "context"

// MemoryDSN selects NewMemoryRepositoryManager in Open.
const MemoryDSN = "memory"

// Open returns the manager for dsn: the in-memory backend for MemoryDSN,
// PostgreSQL otherwise.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == MemoryDSN {
		return NewMemoryRepositoryManager(), nil
	}
	return OpenPostgres(ctx, dsn)
}
