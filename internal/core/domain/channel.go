package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// SettleThreshold is the buffered-intent count at which a channel
// automatically transitions to settlement.
const SettleThreshold = 10

// ChannelStatus represents the lifecycle state of an aggregation channel.
// Valid transitions: OPEN -> SETTLING -> {SETTLED, FAILED}.
type ChannelStatus string

const (
	ChannelStatusOpen     ChannelStatus = "OPEN"
	ChannelStatusSettling ChannelStatus = "SETTLING"
	ChannelStatusSettled  ChannelStatus = "SETTLED"
	ChannelStatusFailed   ChannelStatus = "FAILED"
)

// BatchData is a pending batch registration buffered in a channel,
// awaiting settlement onto the ledger.
type BatchData struct {
	BatchID      string    `json:"batch_id"`
	Name         string    `json:"name"`
	Composition  string    `json:"composition,omitempty"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Participants []string  `json:"participants"`
	Roles        []string  `json:"roles"`
}

// Channel is an off-chain accumulation context. The buffered list is a
// write-ahead buffer only; the ledger copy written at settlement is the
// sole source of truth.
type Channel struct {
	ID           string        `json:"id"`
	Participants []string      `json:"participants"` // authorized signer identities, in join order
	Nonce        uint64        `json:"nonce"`
	Status       ChannelStatus `json:"status"`
	OpenedAt     time.Time     `json:"opened_at"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
	Pending      []BatchData   `json:"pending,omitempty"`
}

// IsOpen reports whether the channel still accepts buffered intents.
func (c *Channel) IsOpen() bool {
	return c.Status == ChannelStatusOpen
}

// IsClosed reports whether the channel reached a terminal ledger state.
func (c *Channel) IsClosed() bool {
	return c.Status == ChannelStatusSettled || c.Status == ChannelStatusFailed
}

// HasParticipant reports whether identity is an authorized channel signer.
func (c *Channel) HasParticipant(identity string) bool {
	for _, p := range c.Participants {
		if p == identity {
			return true
		}
	}
	return false
}

// ContentHash computes the canonical hash of a settlement payload.
// The aggregate signature over a batch list binds to this value.
func ContentHash(items []BatchData) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for i := range items {
		// Encode errors are impossible for this struct shape.
		_ = enc.Encode(&items[i])
	}
	return hex.EncodeToString(h.Sum(nil))
}
