package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/youverse/dupliverse/internal/common"
	"github.com/youverse/dupliverse/internal/dbx"
	"github.com/youverse/dupliverse/internal/server/models"
)

// PostgresRepository stores profiles with the preferences map in a JSONB
// column. It works over dbx.DBTX, satisfied by *sql.DB or *sql.Tx.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	prefs, err := marshalPrefs(profile.Preferences)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO profiles (id, username, wallet_balance, preferences)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		profile.ID, profile.Username, profile.WalletBalance, prefs).Scan(&profile.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	query :=
		`SELECT id, username, wallet_balance, preferences, created_at FROM profiles
		 WHERE id = $1
		 `

	profile := &models.Profile{}
	var prefs []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID, &profile.Username, &profile.WalletBalance, &prefs, &profile.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(prefs, &profile.Preferences); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) Save(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	prefs, err := marshalPrefs(profile.Preferences)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE profiles
		 SET username = $2, wallet_balance = $3, preferences = $4
		 WHERE id = $1
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		profile.ID, profile.Username, profile.WalletBalance, prefs).Scan(&profile.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrUsernameTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM profiles WHERE username = $1 AND id <> $2
		 )`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, username, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return taken, nil
}

func marshalPrefs(prefs map[string]any) ([]byte, error) {
	if prefs == nil {
		prefs = map[string]any{}
	}
	b, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}
	return b, nil
}
