package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"

	"github.com/youverse/dupliverse/internal/client/config"
	"github.com/youverse/dupliverse/internal/client/remote"
	"github.com/youverse/dupliverse/internal/client/repositories/state"
	"github.com/youverse/dupliverse/internal/client/scheduler"
	"github.com/youverse/dupliverse/internal/client/session"
	"github.com/youverse/dupliverse/internal/client/store"
	"github.com/youverse/dupliverse/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config     *config.Config
	sessions   *session.HTTPProvider
	store      *store.Store
	scheduler  *scheduler.Scheduler
	visibility *scheduler.ManualVisibility
	db         *sql.DB
	reader     *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()
	logger := logging.NewDev(slog.LevelWarn)

	db, err := state.OpenDatabase(ctx, c.CacheDSN)
	if err != nil {
		log.Printf("error initializing cache database: %s", err.Error())
		return nil, err
	}
	cache := state.NewSQLiteRepository(db)

	sessions := session.NewHTTPProvider(c.ServerURL, c.APIKey, logger)
	remoteClient := remote.NewHTTPClient(c.ServerURL, c.APIKey, sessions)

	st := store.New(remoteClient, logger, store.WithCache(cache))
	if err := st.Restore(ctx); err != nil {
		log.Printf("warm start skipped: %s", err.Error())
	}

	visibility := scheduler.NewManualVisibility()
	sched := scheduler.New(st, sessions, visibility, scheduler.Config{
		SyncInterval: c.SyncInterval,
		StaleAfter:   c.StaleAfter,
		FetchTimeout: c.FetchTimeout,
	}, logger)

	return &App{
		config:     c,
		sessions:   sessions,
		store:      st,
		scheduler:  sched,
		visibility: visibility,
		db:         db,
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the background sync scheduler and blocks in the REPL until the
// user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := a.scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("scheduler stopped: %s", err.Error())
		}
	}()

	a.Root(ctx)

	a.sessions.Close()
	if err := a.db.Close(); err != nil {
		log.Printf("error closing cache database: %s", err.Error())
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.State().Session != nil
}
