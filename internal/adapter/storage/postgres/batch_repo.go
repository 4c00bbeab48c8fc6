package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"batch-custody-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// BatchRepo implements ports.BatchRepository over the batches and
// batch_participants tables. The participant list is fixed at insert time;
// later writes only flip attestation and claim flags.
type BatchRepo struct {
	pool Pool
}

// NewBatchRepo creates a new BatchRepo.
func NewBatchRepo(pool Pool) *BatchRepo {
	return &BatchRepo{pool: pool}
}

const batchColumns = `id, manufacturer, name, composition, expiry_date, registered_at,
	origin_channel, verified_count, reward_claimed, claimant, claimed_at`

// Create inserts the batch and its custody chain within a ledger transaction.
func (r *BatchRepo) Create(ctx context.Context, tx pgx.Tx, b *domain.Batch) error {
	query := `INSERT INTO batches (id, manufacturer, name, composition, expiry_date, registered_at,
		origin_channel, verified_count, reward_claimed, claimant, claimed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		b.ID, b.Manufacturer, b.Name, b.Composition, b.ExpiryDate, b.RegisteredAt,
		b.OriginChannel, b.VerifiedCount, b.RewardClaimed, b.Claimant, b.ClaimedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	participantQuery := `INSERT INTO batch_participants (batch_id, position, identity, role, has_verified, verified_at, location, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, p := range b.Participants {
		_, err := tx.Exec(ctx, participantQuery,
			b.ID, i, p.Identity, p.Role, p.HasVerified, p.VerifiedAt, p.Location, p.Note,
		)
		if err != nil {
			return fmt.Errorf("insert batch participant: %w", err)
		}
	}
	return nil
}

// GetByID fetches a batch with its full custody chain.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	query := fmt.Sprintf(`SELECT %s FROM batches WHERE id = $1`, batchColumns)

	b, err := scanBatch(r.pool.QueryRow(ctx, query, id))
	if err != nil || b == nil {
		return b, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT identity, role, has_verified, verified_at, location, note
		 FROM batch_participants WHERE batch_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query batch participants: %w", err)
	}
	b.Participants, err = scanParticipants(rows)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetByIDForUpdate fetches and row-locks a batch inside a transaction.
// Concurrent verify/claim calls on the same batch serialize here.
func (r *BatchRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Batch, error) {
	query := fmt.Sprintf(`SELECT %s FROM batches WHERE id = $1 FOR UPDATE`, batchColumns)

	b, err := scanBatch(tx.QueryRow(ctx, query, id))
	if err != nil || b == nil {
		return b, err
	}

	rows, err := tx.Query(ctx,
		`SELECT identity, role, has_verified, verified_at, location, note
		 FROM batch_participants WHERE batch_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query batch participants: %w", err)
	}
	b.Participants, err = scanParticipants(rows)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Exists reports whether a batch id is already registered.
func (r *BatchRepo) Exists(ctx context.Context, tx pgx.Tx, id string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM batches WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check batch exists: %w", err)
	}
	return exists, nil
}

// RecordVerification flips one participant's attestation and bumps the batch
// counter. The NOT has_verified guard makes a double attestation a no-op row
// count, surfaced as an error.
func (r *BatchRepo) RecordVerification(ctx context.Context, tx pgx.Tx, batchID, identity, location, note string, at time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE batch_participants
		 SET has_verified = TRUE, verified_at = $1, location = $2, note = $3
		 WHERE batch_id = $4 AND identity = $5 AND NOT has_verified`,
		at, location, note, batchID, identity,
	)
	if err != nil {
		return fmt.Errorf("update participant attestation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant %s already verified or not found on batch %s", identity, batchID)
	}

	_, err = tx.Exec(ctx,
		`UPDATE batches SET verified_count = verified_count + 1 WHERE id = $1`, batchID)
	if err != nil {
		return fmt.Errorf("bump verified count: %w", err)
	}
	return nil
}

// RecordClaim flips reward_claimed false -> true exactly once.
func (r *BatchRepo) RecordClaim(ctx context.Context, tx pgx.Tx, batchID, claimant string, at time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE batches SET reward_claimed = TRUE, claimant = $1, claimed_at = $2
		 WHERE id = $3 AND NOT reward_claimed`,
		claimant, at, batchID,
	)
	if err != nil {
		return fmt.Errorf("record claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("batch %s already claimed or not found", batchID)
	}
	return nil
}

// ListByManufacturer fetches a page of batches registered by one producer.
// Participant chains are loaded in a second query for the whole page.
func (r *BatchRepo) ListByManufacturer(ctx context.Context, manufacturer string, page, pageSize int) ([]domain.Batch, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM batches WHERE manufacturer = $1`, manufacturer).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count batches: %w", err)
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT %s FROM batches WHERE manufacturer = $1
		ORDER BY registered_at DESC LIMIT $2 OFFSET $3`, batchColumns)

	rows, err := r.pool.Query(ctx, query, manufacturer, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.Batch
	var ids []string
	for rows.Next() {
		b := domain.Batch{}
		err := rows.Scan(
			&b.ID, &b.Manufacturer, &b.Name, &b.Composition, &b.ExpiryDate, &b.RegisteredAt,
			&b.OriginChannel, &b.VerifiedCount, &b.RewardClaimed, &b.Claimant, &b.ClaimedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan batch row: %w", err)
		}
		batches = append(batches, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate batch rows: %w", err)
	}
	if len(batches) == 0 {
		return batches, total, nil
	}

	prows, err := r.pool.Query(ctx,
		`SELECT batch_id, identity, role, has_verified, verified_at, location, note
		 FROM batch_participants WHERE batch_id = ANY($1) ORDER BY batch_id, position`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("query page participants: %w", err)
	}
	defer prows.Close()

	byID := make(map[string]*domain.Batch, len(batches))
	for i := range batches {
		byID[batches[i].ID] = &batches[i]
	}
	for prows.Next() {
		var batchID string
		p := domain.Participant{}
		err := prows.Scan(&batchID, &p.Identity, &p.Role, &p.HasVerified, &p.VerifiedAt, &p.Location, &p.Note)
		if err != nil {
			return nil, 0, fmt.Errorf("scan participant row: %w", err)
		}
		if b := byID[batchID]; b != nil {
			b.Participants = append(b.Participants, p)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate participant rows: %w", err)
	}
	return batches, total, nil
}

// scanBatch scans a single batches row, mapping no-rows to (nil, nil).
func scanBatch(row pgx.Row) (*domain.Batch, error) {
	b := &domain.Batch{}
	err := row.Scan(
		&b.ID, &b.Manufacturer, &b.Name, &b.Composition, &b.ExpiryDate, &b.RegisteredAt,
		&b.OriginChannel, &b.VerifiedCount, &b.RewardClaimed, &b.Claimant, &b.ClaimedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	return b, nil
}

func scanParticipants(rows pgx.Rows) ([]domain.Participant, error) {
	defer rows.Close()
	var participants []domain.Participant
	for rows.Next() {
		p := domain.Participant{}
		err := rows.Scan(&p.Identity, &p.Role, &p.HasVerified, &p.VerifiedAt, &p.Location, &p.Note)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return participants, nil
}
