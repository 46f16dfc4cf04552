package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finboard/finboard/internal/database"
	"github.com/finboard/finboard/internal/utils"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const DefaultProfile = "default"

// Repository is a TokenStore persisted in the session_token table, one row per named profile.
type Repository struct {
	db      *database.DB
	profile string
	clock   utils.Clock
}

func NewRepository(db *database.DB, profile string) *Repository {
	if profile == "" {
		profile = DefaultProfile
	}
	return &Repository{db: db, profile: profile, clock: utils.SystemClock{}}
}

func (r *Repository) Load(ctx context.Context) (*oauth2.Token, error) {
	query := r.db.Rebind(`SELECT access_token, refresh_token, token_type FROM session_token WHERE profile = ?`)
	var token oauth2.Token
	err := r.db.QueryRowContext(ctx, query, r.profile).Scan(&token.AccessToken, &token.RefreshToken, &token.TokenType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err := fmt.Errorf("failed to load session token: %w", err)
		log.Error(err)
		return nil, err
	}
	return &token, nil
}

func (r *Repository) Save(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return r.Clear(ctx)
	}
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	query := r.db.Rebind(`INSERT INTO session_token (profile, access_token, refresh_token, token_type, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (profile) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query,
		r.profile,
		token.AccessToken,
		token.RefreshToken,
		tokenType,
		r.clock.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		err := fmt.Errorf("failed to store session token: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	query := r.db.Rebind(`DELETE FROM session_token WHERE profile = ?`)
	if _, err := r.db.ExecContext(ctx, query, r.profile); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}
