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

// VerificationServiceImpl implements ports.VerificationService. Signature
// recovery happens before the ledger transaction; all state guards and the
// counter increment commit atomically.
type VerificationServiceImpl struct {
	batchRepo  ports.BatchRepository
	eventRepo  ports.EventRepository
	transactor ports.LedgerTransactor
	attest     ports.AttestationService
	log        zerolog.Logger
}

// NewVerificationService creates a new VerificationServiceImpl.
func NewVerificationService(
	batchRepo ports.BatchRepository,
	eventRepo ports.EventRepository,
	transactor ports.LedgerTransactor,
	attest ports.AttestationService,
	log zerolog.Logger,
) *VerificationServiceImpl {
	return &VerificationServiceImpl{
		batchRepo:  batchRepo,
		eventRepo:  eventRepo,
		transactor: transactor,
		attest:     attest,
		log:        log,
	}
}

// Verify consumes a signed custody attestation for one participant.
func (s *VerificationServiceImpl) Verify(ctx context.Context, req ports.VerifyRequest) error {
	if req.BatchID == "" || req.CallerIdentity == "" {
		return apperror.Validation("batch id and caller identity are required")
	}
	if req.Signature == "" {
		return apperror.ErrInvalidSignature()
	}

	// Canonical message: location/data-keyed, the single supported scheme.
	message := s.attest.VerificationMessage(req.BatchID, req.CallerIdentity, req.Location, req.Note)
	signer, err := s.attest.Recover(ctx, message, req.Signature)
	if err != nil {
		return apperror.ErrInvalidSignature()
	}
	if signer != req.CallerIdentity {
		return apperror.ErrInvalidSignature()
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch, err := s.batchRepo.GetByIDForUpdate(ctx, tx, req.BatchID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock batch: %w", err))
	}
	if batch == nil {
		return apperror.ErrNotFound("Batch")
	}

	// No late attestation once the reward is claimed.
	if batch.RewardClaimed {
		return apperror.ErrBatchCompleted()
	}

	idx := batch.ParticipantIndex(req.CallerIdentity)
	if idx < 0 {
		return apperror.ErrNotAuthorizedParticipant()
	}
	if batch.Participants[idx].HasVerified {
		return apperror.ErrAlreadyVerified()
	}

	now := time.Now().UTC()
	if err := s.batchRepo.RecordVerification(ctx, tx, req.BatchID, req.CallerIdentity, req.Location, req.Note, now); err != nil {
		return apperror.InternalError(fmt.Errorf("record verification: %w", err))
	}

	details, _ := json.Marshal(map[string]any{
		"role":     batch.Participants[idx].Role,
		"location": req.Location,
	})
	event := &domain.LedgerEvent{
		ID:        uuid.New(),
		Type:      domain.EventParticipantVerified,
		BatchID:   req.BatchID,
		Actor:     req.CallerIdentity,
		Details:   string(details),
		CreatedAt: now,
	}
	if err := s.eventRepo.Append(ctx, tx, event); err != nil {
		return apperror.InternalError(fmt.Errorf("append verification event: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("batch_id", req.BatchID).
		Str("participant", req.CallerIdentity).
		Str("role", string(batch.Participants[idx].Role)).
		Int("verified_count", batch.VerifiedCount+1).
		Int("total", batch.TotalParticipants()).
		Msg("participant verified")

	return nil
}
