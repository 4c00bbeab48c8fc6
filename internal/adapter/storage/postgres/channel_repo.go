package postgres

import (
	"context"
	"errors"
	"fmt"

	"batch-custody-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ChannelRepo implements ports.ChannelRepository. Channel rows are written
// once at settlement and never updated; the primary key makes a second
// settlement of the same id fail at the database.
type ChannelRepo struct {
	pool Pool
}

// NewChannelRepo creates a new ChannelRepo.
func NewChannelRepo(pool Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

// Create inserts the settled channel record within a ledger transaction.
func (r *ChannelRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Channel) error {
	query := `INSERT INTO channels (id, participants, nonce, status, opened_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		c.ID, c.Participants, c.Nonce, c.Status, c.OpenedAt, c.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}
	return nil
}

// GetByID fetches a settled channel record.
func (r *ChannelRepo) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	query := `SELECT id, participants, nonce, status, opened_at, closed_at
		FROM channels WHERE id = $1`

	c := &domain.Channel{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Participants, &c.Nonce, &c.Status, &c.OpenedAt, &c.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel by id: %w", err)
	}
	return c, nil
}

// Exists reports whether a channel id has already settled.
func (r *ChannelRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM channels WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check channel exists: %w", err)
	}
	return exists, nil
}
