package postgres

import (
	"context"
	"fmt"

	"batch-custody-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// EventRepo implements ports.EventRepository over the append-only
// ledger_events journal.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

const insertEventQuery = `INSERT INTO ledger_events (id, event_type, batch_id, channel_id, actor, details, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Append writes an event inside a ledger transaction.
func (r *EventRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEvent) error {
	_, err := tx.Exec(ctx, insertEventQuery,
		e.ID, e.Type, e.BatchID, e.ChannelID, e.Actor, e.Details, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger event: %w", err)
	}
	return nil
}

// AppendDirect writes an event outside any transaction, for post-commit
// records such as mint failures.
func (r *EventRepo) AppendDirect(ctx context.Context, e *domain.LedgerEvent) error {
	_, err := r.pool.Exec(ctx, insertEventQuery,
		e.ID, e.Type, e.BatchID, e.ChannelID, e.Actor, e.Details, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger event: %w", err)
	}
	return nil
}

// ListByBatch returns the journal for one batch in append order.
func (r *EventRepo) ListByBatch(ctx context.Context, batchID string) ([]domain.LedgerEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, event_type, batch_id, channel_id, actor, details, created_at
		 FROM ledger_events WHERE batch_id = $1 ORDER BY created_at`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list ledger events: %w", err)
	}
	defer rows.Close()

	var events []domain.LedgerEvent
	for rows.Next() {
		e := domain.LedgerEvent{}
		err := rows.Scan(&e.ID, &e.Type, &e.BatchID, &e.ChannelID, &e.Actor, &e.Details, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan ledger event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger events: %w", err)
	}
	return events, nil
}
