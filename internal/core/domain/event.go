package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies entries in the ledger event journal.
type EventType string

const (
	EventBatchRegistered     EventType = "BATCH_REGISTERED"
	EventParticipantVerified EventType = "PARTICIPANT_VERIFIED"
	EventRewardClaimed       EventType = "REWARD_CLAIMED"
	EventChannelSettled      EventType = "CHANNEL_SETTLED"
	EventMintFailed          EventType = "MINT_FAILED"
)

// LedgerEvent is an append-only journal record emitted by core operations,
// consumed by off-chain observers and tests.
type LedgerEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	BatchID   string    `json:"batch_id,omitempty"`
	ChannelID string    `json:"channel_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Details   string    `json:"details,omitempty"` // JSON payload
	CreatedAt time.Time `json:"created_at"`
}
