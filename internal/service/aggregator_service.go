package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"batch-custody-ledger/internal/core/domain"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// aggregatedChannel is the in-memory state of one open channel. Its mutex
// serializes appends and the settle transition for that channel only.
type aggregatedChannel struct {
	mu            sync.Mutex
	channel       domain.Channel
	lastSignature string
}

// AggregatorServiceImpl implements ports.AggregatorService. Channels live in
// memory until settlement; the ledger row written by settlement is the only
// durable record, and its presence closes the channel id forever.
type AggregatorServiceImpl struct {
	mu       sync.RWMutex
	channels map[string]*aggregatedChannel

	settlement  ports.SettlementService
	channelRepo ports.ChannelRepository
	cache       ports.SettlementCache
	threshold   int
	settleWait  time.Duration
	log         zerolog.Logger
}

// NewAggregatorService creates a new AggregatorServiceImpl.
func NewAggregatorService(
	settlement ports.SettlementService,
	channelRepo ports.ChannelRepository,
	cache ports.SettlementCache,
	threshold int,
	settleWait time.Duration,
	log zerolog.Logger,
) *AggregatorServiceImpl {
	if threshold <= 0 {
		threshold = domain.SettleThreshold
	}
	if settleWait <= 0 {
		settleWait = 30 * time.Second
	}
	return &AggregatorServiceImpl{
		channels:    make(map[string]*aggregatedChannel),
		settlement:  settlement,
		channelRepo: channelRepo,
		cache:       cache,
		threshold:   threshold,
		settleWait:  settleWait,
		log:         log,
	}
}

// BufferIntent appends one batch intent to a channel, opening it on first
// use. Reaching the settle threshold triggers settlement in the background.
func (s *AggregatorServiceImpl) BufferIntent(ctx context.Context, req ports.BufferIntentRequest) (*ports.ChannelView, error) {
	if req.ChannelID == "" || req.Signer == "" {
		return nil, apperror.Validation("channel id and signer are required")
	}
	if req.Data.BatchID == "" {
		return nil, apperror.Validation("batch id is required")
	}
	if req.AggregateSignature == "" {
		return nil, apperror.ErrInvalidSignature()
	}

	agg, err := s.getOrOpen(ctx, req.ChannelID)
	if err != nil {
		return nil, err
	}

	agg.mu.Lock()
	defer agg.mu.Unlock()

	switch agg.channel.Status {
	case domain.ChannelStatusSettling:
		return nil, apperror.ErrChannelSettling(req.ChannelID)
	case domain.ChannelStatusSettled:
		return nil, apperror.ErrChannelNotOpen(req.ChannelID)
	case domain.ChannelStatusFailed:
		// A failed settlement leaves the buffer intact; new intents reopen.
		agg.channel.Status = domain.ChannelStatusOpen
	}

	if !agg.channel.HasParticipant(req.Signer) {
		agg.channel.Participants = append(agg.channel.Participants, req.Signer)
	}
	agg.channel.Pending = append(agg.channel.Pending, req.Data)
	agg.channel.Nonce++
	agg.lastSignature = req.AggregateSignature

	view := snapshot(&agg.channel)

	if len(agg.channel.Pending) >= s.threshold {
		agg.channel.Status = domain.ChannelStatusSettling
		items := make([]domain.BatchData, len(agg.channel.Pending))
		copy(items, agg.channel.Pending)
		channelCopy := agg.channel
		signature := agg.lastSignature

		s.log.Info().
			Str("channel_id", req.ChannelID).
			Int("pending", len(items)).
			Msg("settle threshold reached, settling in background")

		go func() {
			settleCtx, cancel := context.WithTimeout(context.Background(), s.settleWait)
			defer cancel()
			s.runSettle(settleCtx, agg, &channelCopy, items, signature)
		}()
	}

	return view, nil
}

// Settle flushes a channel on demand. items == nil settles the buffered
// list under the last buffered signature; an explicit list settles exactly
// that payload.
func (s *AggregatorServiceImpl) Settle(ctx context.Context, channelID string, items []domain.BatchData, aggregateSignature string) (*ports.SettlementResult, error) {
	if channelID == "" {
		return nil, apperror.Validation("channel id is required")
	}

	s.mu.RLock()
	agg := s.channels[channelID]
	s.mu.RUnlock()

	if agg == nil {
		return s.closedChannelResult(ctx, channelID)
	}

	agg.mu.Lock()
	switch agg.channel.Status {
	case domain.ChannelStatusSettling:
		agg.mu.Unlock()
		return nil, apperror.ErrChannelSettling(channelID)
	case domain.ChannelStatusSettled:
		agg.mu.Unlock()
		return s.closedChannelResult(ctx, channelID)
	}

	signature := aggregateSignature
	if items == nil {
		items = make([]domain.BatchData, len(agg.channel.Pending))
		copy(items, agg.channel.Pending)
		if signature == "" {
			signature = agg.lastSignature
		}
	}
	agg.channel.Status = domain.ChannelStatusSettling
	channelCopy := agg.channel
	agg.mu.Unlock()

	return s.runSettle(ctx, agg, &channelCopy, items, signature)
}

// runSettle drives one settlement attempt and records the outcome on the
// in-memory channel. A failed attempt keeps the buffer and stays retriable.
func (s *AggregatorServiceImpl) runSettle(ctx context.Context, agg *aggregatedChannel, channel *domain.Channel, items []domain.BatchData, signature string) (*ports.SettlementResult, error) {
	result, err := s.settlement.SettleChannel(ctx, channel, items, signature)

	agg.mu.Lock()
	defer agg.mu.Unlock()
	if err != nil {
		agg.channel.Status = domain.ChannelStatusFailed
		s.log.Error().Err(err).Str("channel_id", channel.ID).Msg("channel settlement failed")
		return nil, err
	}

	now := result.SettledAt
	agg.channel.Status = domain.ChannelStatusSettled
	agg.channel.Nonce = result.Nonce
	agg.channel.ClosedAt = &now
	agg.channel.Pending = nil
	return result, nil
}

// GetChannel returns a point-in-time view of a channel, falling back to the
// ledger row for channels no longer held in memory.
func (s *AggregatorServiceImpl) GetChannel(ctx context.Context, channelID string) (*ports.ChannelView, error) {
	s.mu.RLock()
	agg := s.channels[channelID]
	s.mu.RUnlock()

	if agg != nil {
		agg.mu.Lock()
		defer agg.mu.Unlock()
		return snapshot(&agg.channel), nil
	}

	settled, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get channel: %w", err))
	}
	if settled == nil {
		return nil, apperror.ErrNotFound("Channel")
	}
	return snapshot(settled), nil
}

// getOrOpen returns the in-memory channel, opening a fresh one unless the
// id has already settled on the ledger.
func (s *AggregatorServiceImpl) getOrOpen(ctx context.Context, channelID string) (*aggregatedChannel, error) {
	s.mu.RLock()
	agg := s.channels[channelID]
	s.mu.RUnlock()
	if agg != nil {
		return agg, nil
	}

	settled, err := s.channelRepo.Exists(ctx, channelID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check channel exists: %w", err))
	}
	if settled {
		return nil, apperror.ErrChannelNotOpen(channelID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if agg = s.channels[channelID]; agg != nil {
		return agg, nil
	}
	agg = &aggregatedChannel{
		channel: domain.Channel{
			ID:       channelID,
			Status:   domain.ChannelStatusOpen,
			OpenedAt: time.Now().UTC(),
		},
	}
	s.channels[channelID] = agg
	return agg, nil
}

// closedChannelResult surfaces the original settlement outcome for a
// channel id that already settled, when the cache still holds it.
func (s *AggregatorServiceImpl) closedChannelResult(ctx context.Context, channelID string) (*ports.SettlementResult, error) {
	settled, err := s.channelRepo.Exists(ctx, channelID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check channel exists: %w", err))
	}
	if !settled {
		return nil, apperror.ErrNotFound("Channel")
	}

	if payload, cacheErr := s.cache.Get(ctx, channelID); cacheErr == nil && payload != nil {
		var cached ports.SettlementResult
		if unmarshalErr := json.Unmarshal(payload, &cached); unmarshalErr == nil {
			return &cached, nil
		}
	}
	return nil, apperror.ErrChannelNotOpen(channelID)
}

func snapshot(c *domain.Channel) *ports.ChannelView {
	return &ports.ChannelView{
		ChannelID:    c.ID,
		Status:       c.Status,
		Nonce:        c.Nonce,
		PendingCount: len(c.Pending),
		OpenedAt:     c.OpenedAt,
	}
}
