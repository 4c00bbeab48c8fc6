package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"batch-custody-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory repository fakes backing the full application stack in
// integration tests. The transactor serializes transactions with a single
// mutex, standing in for the row locks the PostgreSQL adapter takes, so
// the concurrency tests exercise the same one-writer-at-a-time semantics.

// --- In-Memory Batch Repo ---

type inMemoryBatchRepo struct {
	mu      sync.RWMutex
	batches map[string]*domain.Batch
	order   []string
}

func newInMemoryBatchRepo() *inMemoryBatchRepo {
	return &inMemoryBatchRepo{batches: make(map[string]*domain.Batch)}
}

func copyBatch(b *domain.Batch) *domain.Batch {
	cp := *b
	cp.Participants = make([]domain.Participant, len(b.Participants))
	copy(cp.Participants, b.Participants)
	return &cp
}

func (r *inMemoryBatchRepo) Create(ctx context.Context, tx pgx.Tx, batch *domain.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.batches[batch.ID]; ok {
		return fmt.Errorf("batch already exists")
	}
	r.batches[batch.ID] = copyBatch(batch)
	r.order = append(r.order, batch.ID)
	return nil
}

func (r *inMemoryBatchRepo) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.batches[id]
	if !ok {
		return nil, nil
	}
	return copyBatch(b), nil
}

func (r *inMemoryBatchRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Batch, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryBatchRepo) Exists(ctx context.Context, tx pgx.Tx, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.batches[id]
	return ok, nil
}

func (r *inMemoryBatchRepo) RecordVerification(ctx context.Context, tx pgx.Tx, batchID, identity, location, note string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[batchID]
	if !ok {
		return fmt.Errorf("batch not found")
	}
	for i := range b.Participants {
		if b.Participants[i].Identity != identity {
			continue
		}
		if b.Participants[i].HasVerified {
			return fmt.Errorf("participant already verified")
		}
		when := at
		b.Participants[i].HasVerified = true
		b.Participants[i].VerifiedAt = &when
		b.Participants[i].Location = location
		b.Participants[i].Note = note
		b.VerifiedCount++
		return nil
	}
	return fmt.Errorf("participant not found")
}

func (r *inMemoryBatchRepo) RecordClaim(ctx context.Context, tx pgx.Tx, batchID, claimant string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[batchID]
	if !ok {
		return fmt.Errorf("batch not found")
	}
	if b.RewardClaimed {
		return fmt.Errorf("reward already claimed")
	}
	when := at
	b.RewardClaimed = true
	b.Claimant = claimant
	b.ClaimedAt = &when
	return nil
}

func (r *inMemoryBatchRepo) ListByManufacturer(ctx context.Context, manufacturer string, page, pageSize int) ([]domain.Batch, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Batch
	for _, id := range r.order {
		b := r.batches[id]
		if b.Manufacturer == manufacturer {
			result = append(result, *copyBatch(b))
		}
	}
	total := int64(len(result))

	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.Batch{}, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Channel Repo ---

type inMemoryChannelRepo struct {
	mu       sync.RWMutex
	channels map[string]*domain.Channel
}

func newInMemoryChannelRepo() *inMemoryChannelRepo {
	return &inMemoryChannelRepo{channels: make(map[string]*domain.Channel)}
}

func (r *inMemoryChannelRepo) Create(ctx context.Context, tx pgx.Tx, channel *domain.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.channels[channel.ID]; ok {
		return fmt.Errorf("channel already settled")
	}
	cp := *channel
	r.channels[channel.ID] = &cp
	return nil
}

func (r *inMemoryChannelRepo) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.channels[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryChannelRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.channels[id]
	return ok, nil
}

// --- In-Memory Manufacturer Repo ---

type inMemoryManufacturerRepo struct {
	mu            sync.RWMutex
	manufacturers map[string]*domain.Manufacturer
}

func newInMemoryManufacturerRepo() *inMemoryManufacturerRepo {
	return &inMemoryManufacturerRepo{manufacturers: make(map[string]*domain.Manufacturer)}
}

func (r *inMemoryManufacturerRepo) Create(ctx context.Context, m *domain.Manufacturer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.manufacturers {
		if existing.Username == m.Username {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *m
	r.manufacturers[m.ID.String()] = &cp
	return nil
}

func (r *inMemoryManufacturerRepo) GetByID(ctx context.Context, id string) (*domain.Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.manufacturers[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *inMemoryManufacturerRepo) GetByUsername(ctx context.Context, username string) (*domain.Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.manufacturers {
		if m.Username == username {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryManufacturerRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.manufacturers {
		if m.AccessKey == accessKey {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryManufacturerRepo) GetByIdentity(ctx context.Context, identity string) (*domain.Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.manufacturers {
		if m.Identity == identity {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryManufacturerRepo) UpdateKeys(ctx context.Context, id string, accessKey, secretKeyEnc string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.manufacturers[id]
	if !ok {
		return fmt.Errorf("manufacturer not found")
	}
	m.AccessKey = accessKey
	m.SecretKeyEnc = secretKeyEnc
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Identity Key Repo ---

type inMemoryIdentityKeyRepo struct {
	mu   sync.RWMutex
	keys map[string]string // identity -> wrapped secret
}

func newInMemoryIdentityKeyRepo() *inMemoryIdentityKeyRepo {
	return &inMemoryIdentityKeyRepo{keys: make(map[string]string)}
}

func (r *inMemoryIdentityKeyRepo) Upsert(ctx context.Context, key *domain.IdentityKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[key.Identity] = key.SecretKeyEnc
	return nil
}

func (r *inMemoryIdentityKeyRepo) GetSecretEnc(ctx context.Context, identity string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keys[identity], nil
}

// --- In-Memory Event Repo ---

type inMemoryEventRepo struct {
	mu     sync.RWMutex
	events []domain.LedgerEvent
}

func newInMemoryEventRepo() *inMemoryEventRepo {
	return &inMemoryEventRepo{}
}

func (r *inMemoryEventRepo) Append(ctx context.Context, tx pgx.Tx, event *domain.LedgerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *inMemoryEventRepo) AppendDirect(ctx context.Context, event *domain.LedgerEvent) error {
	return r.Append(ctx, nil, event)
}

func (r *inMemoryEventRepo) ListByBatch(ctx context.Context, batchID string) ([]domain.LedgerEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.LedgerEvent
	for _, e := range r.events {
		if e.BatchID == batchID {
			result = append(result, e)
		}
	}
	return result, nil
}

// --- In-Memory Transactor (serialized tx) ---

// inMemoryTransactor hands out transactions one at a time. Holding the
// mutex from Begin to Commit/Rollback gives the fakes the same mutual
// exclusion the SQL adapter gets from SELECT FOR UPDATE.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{transactor: t}, nil
}

// serialTx releases the transactor's mutex exactly once, on the first
// Commit or Rollback.
type serialTx struct {
	transactor *inMemoryTransactor
	once       sync.Once
}

func (t *serialTx) release() {
	t.once.Do(func() { t.transactor.mu.Unlock() })
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.release(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.release(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }
