package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"batch-custody-ledger/internal/core/domain"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const settlementResultTTL = 24 * time.Hour

// SettlementServiceImpl implements ports.SettlementService. It replays a
// signed batch list into the registry item by item, then writes the channel
// row exactly once. A persisted channel id can never settle again.
type SettlementServiceImpl struct {
	registry         ports.RegistryService
	channelRepo      ports.ChannelRepository
	manufacturerRepo ports.ManufacturerRepository
	eventRepo        ports.EventRepository
	transactor       ports.LedgerTransactor
	attest           ports.AttestationService
	cache            ports.SettlementCache
	log              zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(
	registry ports.RegistryService,
	channelRepo ports.ChannelRepository,
	manufacturerRepo ports.ManufacturerRepository,
	eventRepo ports.EventRepository,
	transactor ports.LedgerTransactor,
	attest ports.AttestationService,
	cache ports.SettlementCache,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		registry:         registry,
		channelRepo:      channelRepo,
		manufacturerRepo: manufacturerRepo,
		eventRepo:        eventRepo,
		transactor:       transactor,
		attest:           attest,
		cache:            cache,
		log:              log,
	}
}

// SettleChannel verifies the aggregate signature over the batch list, then
// registers each item best effort. Duplicates are skipped, per-item failures
// are recorded, and neither aborts the rest of the list.
func (s *SettlementServiceImpl) SettleChannel(ctx context.Context, channel *domain.Channel, items []domain.BatchData, aggregateSignature string) (*ports.SettlementResult, error) {
	settled, err := s.channelRepo.Exists(ctx, channel.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check channel exists: %w", err))
	}
	if settled {
		return nil, apperror.ErrChannelNotOpen(channel.ID)
	}
	if len(items) == 0 {
		return nil, apperror.Validation("settlement payload is empty")
	}

	contentHash := domain.ContentHash(items)
	message := s.attest.SettlementMessage(channel.ID, contentHash)
	signer, err := s.attest.Recover(ctx, message, aggregateSignature)
	if err != nil {
		return nil, apperror.ErrInvalidSignature()
	}
	if !channel.HasParticipant(signer) {
		return nil, apperror.ErrUnauthorizedSigner()
	}

	manufacturer, err := s.manufacturerRepo.GetByIdentity(ctx, signer)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve signer: %w", err))
	}
	if manufacturer == nil || !manufacturer.IsActive() {
		return nil, apperror.ErrUnauthorizedSigner()
	}

	now := time.Now().UTC()
	result := &ports.SettlementResult{
		ChannelID: channel.ID,
		Nonce:     channel.Nonce + 1,
		SettledAt: now,
	}

	for _, item := range items {
		_, regErr := s.registry.RegisterBatch(ctx, ports.RegisterBatchRequest{
			BatchID:       item.BatchID,
			Manufacturer:  signer,
			Name:          item.Name,
			Composition:   item.Composition,
			Expiry:        item.ExpiryDate,
			Participants:  item.Participants,
			Roles:         item.Roles,
			OriginChannel: channel.ID,
		})
		if regErr == nil {
			result.Registered++
			continue
		}

		var appErr *apperror.AppError
		if errors.As(regErr, &appErr) && appErr.Code == "STATE_001" {
			// Already on the ledger: settlement is idempotent per item.
			result.Skipped++
			continue
		}
		result.Failed++
		result.FailedIDs = append(result.FailedIDs, item.BatchID)
		s.log.Warn().Err(regErr).
			Str("channel_id", channel.ID).
			Str("batch_id", item.BatchID).
			Msg("settlement item rejected")
	}

	result.Status = domain.ChannelStatusSettled

	record := *channel
	record.Status = domain.ChannelStatusSettled
	record.Nonce = result.Nonce
	record.ClosedAt = &now
	record.Pending = nil

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.channelRepo.Create(ctx, tx, &record); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist channel: %w", err))
	}

	details, _ := json.Marshal(map[string]any{
		"signer":       signer,
		"content_hash": contentHash,
		"registered":   result.Registered,
		"skipped":      result.Skipped,
		"failed":       result.Failed,
	})
	event := &domain.LedgerEvent{
		ID:        uuid.New(),
		Type:      domain.EventChannelSettled,
		ChannelID: channel.ID,
		Actor:     signer,
		Details:   string(details),
		CreatedAt: now,
	}
	if err := s.eventRepo.Append(ctx, tx, event); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append settlement event: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Best effort: retries of a closed channel surface the original outcome.
	if payload, marshalErr := json.Marshal(result); marshalErr == nil {
		if cacheErr := s.cache.Set(ctx, channel.ID, payload, settlementResultTTL); cacheErr != nil {
			s.log.Warn().Err(cacheErr).Str("channel_id", channel.ID).Msg("settlement result cache write failed")
		}
	}

	s.log.Info().
		Str("channel_id", channel.ID).
		Str("signer", signer).
		Int("registered", result.Registered).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Uint64("nonce", result.Nonce).
		Msg("channel settled")

	return result, nil
}
