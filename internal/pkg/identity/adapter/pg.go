package adapter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketchat/internal/pkg/identity/port"
)

// PgIdentityProvider resolves profiles from the platform's profile rows.
// The table is owned by the account service; this adapter only reads it.
type PgIdentityProvider struct {
	pool *pgxpool.Pool
}

func NewPgIdentityProvider(pool *pgxpool.Pool) *PgIdentityProvider {
	return &PgIdentityProvider{pool: pool}
}

var _ port.Provider = (*PgIdentityProvider)(nil)

func (p *PgIdentityProvider) Resolve(ctx context.Context, userID string) (port.Profile, error) {
	if p == nil || p.pool == nil {
		return port.Profile{}, errors.New("PgIdentityProvider: nil pool")
	}
	if _, err := uuid.Parse(userID); err != nil {
		// a malformed id can never resolve; don't let it reach the cast
		return port.Profile{}, port.ErrProfileNotFound
	}
	var (
		profile port.Profile
		avatar  *string
	)
	err := p.pool.QueryRow(ctx, `
		SELECT id::text, full_name, avatar_url
		FROM profiles
		WHERE id = $1::uuid
	`, userID).Scan(&profile.ID, &profile.FullName, &avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.Profile{}, port.ErrProfileNotFound
	}
	if err != nil {
		return port.Profile{}, err
	}
	if avatar != nil {
		profile.AvatarURL = *avatar
	}
	return profile, nil
}
