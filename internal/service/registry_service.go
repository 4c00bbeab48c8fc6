package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"batch-custody-ledger/internal/core/domain"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RegistryServiceImpl implements ports.RegistryService. It is the system of
// record for batches: registration is append-only and every mutation runs
// inside a single ledger transaction.
type RegistryServiceImpl struct {
	batchRepo       ports.BatchRepository
	eventRepo       ports.EventRepository
	transactor      ports.LedgerTransactor
	maxParticipants int
	log             zerolog.Logger
}

// NewRegistryService creates a new RegistryServiceImpl.
func NewRegistryService(
	batchRepo ports.BatchRepository,
	eventRepo ports.EventRepository,
	transactor ports.LedgerTransactor,
	maxParticipants int,
	log zerolog.Logger,
) *RegistryServiceImpl {
	if maxParticipants <= 0 {
		maxParticipants = domain.MaxParticipants
	}
	return &RegistryServiceImpl{
		batchRepo:       batchRepo,
		eventRepo:       eventRepo,
		transactor:      transactor,
		maxParticipants: maxParticipants,
		log:             log,
	}
}

// RegisterBatch validates and persists a new batch with its fixed custody
// chain. All rejections are atomic: no partial write is ever visible.
func (s *RegistryServiceImpl) RegisterBatch(ctx context.Context, req ports.RegisterBatchRequest) (*domain.Batch, error) {
	if req.BatchID == "" {
		return nil, apperror.Validation("batch id is required")
	}
	if req.Manufacturer == "" {
		return nil, apperror.Validation("manufacturer identity is required")
	}

	roles, err := s.validateChain(req.Participants, req.Roles)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !req.Expiry.After(now) {
		return nil, apperror.ErrExpiredDate()
	}

	participants := make([]domain.Participant, len(req.Participants))
	for i, identity := range req.Participants {
		participants[i] = domain.Participant{
			Identity: identity,
			Role:     roles[i],
		}
	}

	batch := &domain.Batch{
		ID:            req.BatchID,
		Manufacturer:  req.Manufacturer,
		Name:          req.Name,
		Composition:   req.Composition,
		ExpiryDate:    req.Expiry.UTC(),
		RegisteredAt:  now,
		OriginChannel: req.OriginChannel,
		Participants:  participants,
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	exists, err := s.batchRepo.Exists(ctx, tx, req.BatchID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check batch exists: %w", err))
	}
	if exists {
		return nil, apperror.ErrDuplicateBatch(req.BatchID)
	}

	if err := s.batchRepo.Create(ctx, tx, batch); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create batch: %w", err))
	}

	details, _ := json.Marshal(map[string]any{
		"manufacturer":      batch.Manufacturer,
		"origin_channel":    batch.OriginChannel,
		"participant_count": len(batch.Participants),
	})
	event := &domain.LedgerEvent{
		ID:        uuid.New(),
		Type:      domain.EventBatchRegistered,
		BatchID:   batch.ID,
		ChannelID: batch.OriginChannel,
		Actor:     batch.Manufacturer,
		Details:   string(details),
		CreatedAt: now,
	}
	if err := s.eventRepo.Append(ctx, tx, event); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append registration event: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("batch_id", batch.ID).
		Str("manufacturer", batch.Manufacturer).
		Int("participants", len(batch.Participants)).
		Str("origin_channel", batch.OriginChannel).
		Msg("batch registered")

	return batch, nil
}

// validateChain checks the participant/role lists against the shape rules.
func (s *RegistryServiceImpl) validateChain(participants []string, roleNames []string) ([]domain.Role, error) {
	if len(participants) == 0 {
		return nil, apperror.ErrEmptyParticipants()
	}
	if len(participants) > s.maxParticipants {
		return nil, apperror.ErrTooManyParticipants(s.maxParticipants)
	}
	if len(roleNames) != len(participants) {
		return nil, apperror.ErrRoleCountMismatch()
	}

	seen := make(map[string]struct{}, len(participants))
	for _, identity := range participants {
		if identity == "" {
			return nil, apperror.Validation("participant identity must not be empty")
		}
		if _, dup := seen[identity]; dup {
			return nil, apperror.ErrDuplicateParticipant(identity)
		}
		seen[identity] = struct{}{}
	}

	roles := make([]domain.Role, len(roleNames))
	for i, name := range roleNames {
		role, ok := domain.ParseRole(name)
		if !ok {
			return nil, apperror.ErrInvalidRole(name)
		}
		roles[i] = role
	}
	return roles, nil
}

// GetBatch returns the full batch record.
func (s *RegistryServiceImpl) GetBatch(ctx context.Context, batchID string) (*domain.Batch, error) {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get batch: %w", err))
	}
	if batch == nil {
		return nil, apperror.ErrNotFound("Batch")
	}
	return batch, nil
}

// GetBatchStatus returns the compact verification/claim view.
func (s *RegistryServiceImpl) GetBatchStatus(ctx context.Context, batchID string) (*ports.BatchStatus, error) {
	batch, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return &ports.BatchStatus{
		BatchID:  batch.ID,
		Total:    batch.TotalParticipants(),
		Verified: batch.VerifiedCount,
		Claimed:  batch.RewardClaimed,
		Claimant: batch.Claimant,
	}, nil
}

// GetParticipantDetails returns one custodian's attestation record.
func (s *RegistryServiceImpl) GetParticipantDetails(ctx context.Context, batchID, identity string) (*domain.Participant, error) {
	batch, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	idx := batch.ParticipantIndex(identity)
	if idx < 0 {
		return nil, apperror.ErrNotFound("Participant")
	}
	p := batch.Participants[idx]
	return &p, nil
}

// CanVerify reports whether identity may still attest for batchID. Missing
// batches and unlisted identities yield (false, false) rather than errors.
func (s *RegistryServiceImpl) CanVerify(ctx context.Context, batchID, identity string) (bool, bool) {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil || batch == nil {
		return false, false
	}
	idx := batch.ParticipantIndex(identity)
	if idx < 0 {
		return false, false
	}
	if batch.Participants[idx].HasVerified {
		return false, true
	}
	if batch.RewardClaimed {
		return false, false
	}
	return true, false
}

// ListEvents returns the ledger journal for one batch in append order.
func (s *RegistryServiceImpl) ListEvents(ctx context.Context, batchID string) ([]domain.LedgerEvent, error) {
	if _, err := s.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list events: %w", err))
	}
	return events, nil
}

// ListBatches returns a page of batches registered by a manufacturer.
func (s *RegistryServiceImpl) ListBatches(ctx context.Context, manufacturer string, page, pageSize int) ([]domain.Batch, int64, error) {
	batches, total, err := s.batchRepo.ListByManufacturer(ctx, manufacturer, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list batches: %w", err))
	}
	return batches, total, nil
}
