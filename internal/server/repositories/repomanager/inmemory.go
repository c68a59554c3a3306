package repomanager

import (
	"context"
	"database/sql"

	"github.com/youverse/dupliverse/internal/dbx"
	"github.com/youverse/dupliverse/internal/server/repositories/profiles"
	"github.com/youverse/dupliverse/internal/server/repositories/refreshtokens"
	"github.com/youverse/dupliverse/internal/server/repositories/users"
)

// InMemoryRepositoryManager vends shared map-backed repositories. The DBTX
// argument is ignored; there is no transactional isolation.
type InMemoryRepositoryManager struct {
	users         *users.InMemoryRepository
	profiles      *profiles.InMemoryRepository
	refreshTokens *refreshtokens.InMemoryRepository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return m.profiles
}

func (m *InMemoryRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewInMemoryRepository(),
		profiles:      profiles.NewInMemoryRepository(),
		refreshTokens: refreshtokens.NewInMemoryRepository(),
	}
}
