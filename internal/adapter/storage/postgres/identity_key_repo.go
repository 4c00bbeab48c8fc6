package postgres

import (
	"context"
	"errors"
	"fmt"

	"batch-custody-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdentityKeyRepo implements ports.IdentityKeyRepository over the
// identity_keys signing directory.
type IdentityKeyRepo struct {
	pool Pool
}

// NewIdentityKeyRepo creates a new IdentityKeyRepo.
func NewIdentityKeyRepo(pool Pool) *IdentityKeyRepo {
	return &IdentityKeyRepo{pool: pool}
}

// Upsert writes or replaces the wrapped secret for an identity.
func (r *IdentityKeyRepo) Upsert(ctx context.Context, key *domain.IdentityKey) error {
	query := `INSERT INTO identity_keys (identity, secret_key_enc, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity) DO UPDATE SET secret_key_enc = EXCLUDED.secret_key_enc, updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query, key.Identity, key.SecretKeyEnc, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert identity key: %w", err)
	}
	return nil
}

// GetSecretEnc returns the wrapped secret for identity, or "" if unknown.
func (r *IdentityKeyRepo) GetSecretEnc(ctx context.Context, identity string) (string, error) {
	var enc string
	err := r.pool.QueryRow(ctx,
		`SELECT secret_key_enc FROM identity_keys WHERE identity = $1`, identity).Scan(&enc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get identity key: %w", err)
	}
	return enc, nil
}
