package persistence

import (
	"github.com/a1-en/E-Shoe-Store/internal/domain/user"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/persistence/memory"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/persistence/postgres"
)

// Repositories holds all repository implementations.
type Repositories struct {
	User user.Repository
}

// NewRepositories creates repository implementations backed by PostgreSQL.
func NewRepositories(db *postgres.DB) *Repositories {
	return &Repositories{
		User: postgres.NewUserRepository(db),
	}
}

// NewMemoryRepositories creates in-memory repository implementations
// for tests and dev mode.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		User: memory.NewUserRepository(),
	}
}
