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

// RewardServiceImpl implements ports.RewardService. The claim commits to
// the ledger before the external mint call, so a reentrant or racing second
// claim always observes reward_claimed=true.
type RewardServiceImpl struct {
	batchRepo    ports.BatchRepository
	eventRepo    ports.EventRepository
	transactor   ports.LedgerTransactor
	minter       ports.TokenMinter
	rewardAmount int64
	log          zerolog.Logger
}

// NewRewardService creates a new RewardServiceImpl.
func NewRewardService(
	batchRepo ports.BatchRepository,
	eventRepo ports.EventRepository,
	transactor ports.LedgerTransactor,
	minter ports.TokenMinter,
	rewardAmount int64,
	log zerolog.Logger,
) *RewardServiceImpl {
	return &RewardServiceImpl{
		batchRepo:    batchRepo,
		eventRepo:    eventRepo,
		transactor:   transactor,
		minter:       minter,
		rewardAmount: rewardAmount,
		log:          log,
	}
}

// ClaimReward grants the one-time consumer reward for a fully verified,
// non-expired batch.
func (s *RewardServiceImpl) ClaimReward(ctx context.Context, batchID, claimantIdentity string) error {
	if batchID == "" || claimantIdentity == "" {
		return apperror.Validation("batch id and claimant identity are required")
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch, err := s.batchRepo.GetByIDForUpdate(ctx, tx, batchID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock batch: %w", err))
	}
	if batch == nil {
		return apperror.ErrNotFound("Batch")
	}

	if batch.RewardClaimed {
		return apperror.ErrAlreadyClaimed()
	}
	if !batch.IsFullyVerified() {
		return apperror.ErrVerificationIncomplete()
	}

	now := time.Now().UTC()
	if batch.IsExpired(now) {
		return apperror.ErrExpired()
	}
	if batch.HasParticipant(claimantIdentity) {
		return apperror.ErrParticipantCannotClaim()
	}

	if err := s.batchRepo.RecordClaim(ctx, tx, batchID, claimantIdentity, now); err != nil {
		return apperror.InternalError(fmt.Errorf("record claim: %w", err))
	}

	details, _ := json.Marshal(map[string]any{
		"claimant": claimantIdentity,
		"amount":   s.rewardAmount,
	})
	event := &domain.LedgerEvent{
		ID:        uuid.New(),
		Type:      domain.EventRewardClaimed,
		BatchID:   batchID,
		Actor:     claimantIdentity,
		Details:   string(details),
		CreatedAt: now,
	}
	if err := s.eventRepo.Append(ctx, tx, event); err != nil {
		return apperror.InternalError(fmt.Errorf("append claim event: %w", err))
	}

	// Commit first: the claim is ledger truth regardless of mint outcome.
	if err := tx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if err := s.minter.Mint(ctx, claimantIdentity, s.rewardAmount); err != nil {
		s.log.Error().Err(err).
			Str("batch_id", batchID).
			Str("claimant", claimantIdentity).
			Msg("mint request failed after claim commit")

		failDetails, _ := json.Marshal(map[string]any{
			"claimant": claimantIdentity,
			"amount":   s.rewardAmount,
			"error":    err.Error(),
		})
		_ = s.eventRepo.AppendDirect(ctx, &domain.LedgerEvent{
			ID:        uuid.New(),
			Type:      domain.EventMintFailed,
			BatchID:   batchID,
			Actor:     claimantIdentity,
			Details:   string(failDetails),
			CreatedAt: time.Now().UTC(),
		})
		return apperror.ErrMintFailure(err)
	}

	s.log.Info().
		Str("batch_id", batchID).
		Str("claimant", claimantIdentity).
		Int64("amount", s.rewardAmount).
		Msg("reward claimed")

	return nil
}
