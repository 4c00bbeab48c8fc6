package ports

import (
	"context"
	"time"

	"batch-custody-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// BatchRepository defines persistence operations for batches.
// Methods accepting pgx.Tx run inside a ledger transaction; batch rows are
// locked FOR UPDATE so concurrent mutations serialize per batch.
type BatchRepository interface {
	Create(ctx context.Context, tx pgx.Tx, batch *domain.Batch) error
	GetByID(ctx context.Context, id string) (*domain.Batch, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Batch, error)
	Exists(ctx context.Context, tx pgx.Tx, id string) (bool, error)
	// RecordVerification flips one participant's attestation and bumps the
	// batch verified count by exactly one.
	RecordVerification(ctx context.Context, tx pgx.Tx, batchID, identity, location, note string, at time.Time) error
	// RecordClaim flips reward_claimed false -> true and stores the claimant.
	RecordClaim(ctx context.Context, tx pgx.Tx, batchID, claimant string, at time.Time) error
	ListByManufacturer(ctx context.Context, manufacturer string, page, pageSize int) ([]domain.Batch, int64, error)
}

// ChannelRepository defines persistence for settled aggregation channels.
// A channel row is written exactly once, when settlement completes; its
// presence means the channel id is closed forever.
type ChannelRepository interface {
	Create(ctx context.Context, tx pgx.Tx, channel *domain.Channel) error
	GetByID(ctx context.Context, id string) (*domain.Channel, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// ManufacturerRepository defines persistence operations for manufacturers.
type ManufacturerRepository interface {
	Create(ctx context.Context, m *domain.Manufacturer) error
	GetByID(ctx context.Context, id string) (*domain.Manufacturer, error)
	GetByUsername(ctx context.Context, username string) (*domain.Manufacturer, error)
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.Manufacturer, error)
	GetByIdentity(ctx context.Context, identity string) (*domain.Manufacturer, error)
	UpdateKeys(ctx context.Context, id string, accessKey, secretKeyEnc string) error
}

// IdentityKeyRepository is the signing-key directory for attestation
// signature recovery. Secrets are stored AES-wrapped.
type IdentityKeyRepository interface {
	Upsert(ctx context.Context, key *domain.IdentityKey) error
	// GetSecretEnc returns the wrapped secret for identity, or "" if the
	// identity is unknown.
	GetSecretEnc(ctx context.Context, identity string) (string, error)
}

// EventRepository appends to and reads the ledger event journal.
type EventRepository interface {
	Append(ctx context.Context, tx pgx.Tx, event *domain.LedgerEvent) error
	// AppendDirect writes outside a ledger transaction (post-commit events).
	AppendDirect(ctx context.Context, event *domain.LedgerEvent) error
	ListByBatch(ctx context.Context, batchID string) ([]domain.LedgerEvent, error)
}

// LedgerTransactor provides the atomic execution boundary: every mutating
// core operation runs in exactly one transaction and commits fully or not
// at all.
type LedgerTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
