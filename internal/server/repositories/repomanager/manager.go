package repomanager

import (
	"context"
	"database/sql"

	"github.com/youverse/dupliverse/internal/dbx"
	"github.com/youverse/dupliverse/internal/server/repositories/profiles"
	"github.com/youverse/dupliverse/internal/server/repositories/refreshtokens"
	"github.com/youverse/dupliverse/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
