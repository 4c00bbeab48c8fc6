package ports

import (
	"context"
	"time"

	"batch-custody-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// --- Crypto & identity ports ---

// EncryptionService handles AES-256-GCM encryption/decryption of secrets
// at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// AttestationService is the signing/identity collaborator surface: it
// builds canonical messages, signs them (client/test side), and recovers a
// signer identity from a signature envelope.
type AttestationService interface {
	// Sign produces a signature envelope binding identity to message.
	Sign(identity, secretKey, message string) string
	// Recover returns the identity that signed message, or an error if the
	// signature is invalid or the identity is unknown.
	Recover(ctx context.Context, message, signature string) (string, error)
	// VerificationMessage is the single canonical signed-message format for
	// participant attestations.
	VerificationMessage(batchID, identity, location, note string) string
	// SettlementMessage binds a channel id to the content hash of its
	// batch list.
	SettlementMessage(channelID, contentHash string) string
}

// RequestSigner handles HMAC-SHA256 signing of transport-level requests.
type RequestSigner interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for the query surface.
type TokenService interface {
	Generate(manufacturerID uuid.UUID, identity string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	ManufacturerID uuid.UUID
	Identity       string
}

// TokenMinter is the external token-minting collaborator. The core holds
// the only authorization capability to call it and never carries balance or
// supply logic itself.
type TokenMinter interface {
	Mint(ctx context.Context, identity string, amount int64) error
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, identity string, nonce string, ttl time.Duration) (bool, error)
}

// SettlementCache caches settlement results so retries of a closed channel
// can surface the original outcome.
type SettlementCache interface {
	Get(ctx context.Context, channelID string) ([]byte, error) // nil if absent
	Set(ctx context.Context, channelID string, result []byte, ttl time.Duration) error
}

// --- Service ports (business logic) ---

// RegisterBatchRequest holds validated input for batch registration.
type RegisterBatchRequest struct {
	BatchID       string
	Manufacturer  string
	Name          string
	Composition   string
	Expiry        time.Time
	Participants  []string
	Roles         []string
	OriginChannel string
}

// BatchStatus is the compact verification/claim view of a batch.
type BatchStatus struct {
	BatchID  string `json:"batch_id"`
	Total    int    `json:"total"`
	Verified int    `json:"verified"`
	Claimed  bool   `json:"claimed"`
	Claimant string `json:"claimant,omitempty"`
}

// RegistryService is the authoritative batch store surface.
type RegistryService interface {
	RegisterBatch(ctx context.Context, req RegisterBatchRequest) (*domain.Batch, error)
	GetBatch(ctx context.Context, batchID string) (*domain.Batch, error)
	GetBatchStatus(ctx context.Context, batchID string) (*BatchStatus, error)
	GetParticipantDetails(ctx context.Context, batchID, identity string) (*domain.Participant, error)
	// CanVerify never errors on missing state: an unknown batch or identity
	// simply cannot verify.
	CanVerify(ctx context.Context, batchID, identity string) (canVerify bool, alreadyVerified bool)
	ListBatches(ctx context.Context, manufacturer string, page, pageSize int) ([]domain.Batch, int64, error)
	// ListEvents returns the ledger journal for one batch in append order.
	ListEvents(ctx context.Context, batchID string) ([]domain.LedgerEvent, error)
}

// VerifyRequest holds input for a participant attestation.
type VerifyRequest struct {
	BatchID        string
	CallerIdentity string
	Location       string
	Note           string
	Signature      string
}

// VerificationService validates signed attestations and advances
// verification counters.
type VerificationService interface {
	Verify(ctx context.Context, req VerifyRequest) error
}

// RewardService enforces the one-time, fully-verified, non-expired claim.
type RewardService interface {
	ClaimReward(ctx context.Context, batchID, claimantIdentity string) error
}

// BufferIntentRequest holds one batch intent appended to a channel.
type BufferIntentRequest struct {
	ChannelID string
	Signer    string
	Data      domain.BatchData
	// AggregateSignature covers the settlement message for the channel's
	// full pending list including this intent.
	AggregateSignature string
}

// ChannelView is the aggregator's snapshot of a channel.
type ChannelView struct {
	ChannelID    string               `json:"channel_id"`
	Status       domain.ChannelStatus `json:"status"`
	Nonce        uint64               `json:"nonce"`
	PendingCount int                  `json:"pending_count"`
	OpenedAt     time.Time            `json:"opened_at"`
}

// AggregatorService is the off-chain accumulation buffer. Appends to one
// channel are serialized; distinct channels proceed independently.
type AggregatorService interface {
	BufferIntent(ctx context.Context, req BufferIntentRequest) (*ChannelView, error)
	// Settle flushes a channel. items == nil settles the buffered list;
	// an explicit list settles exactly that payload.
	Settle(ctx context.Context, channelID string, items []domain.BatchData, aggregateSignature string) (*SettlementResult, error)
	GetChannel(ctx context.Context, channelID string) (*ChannelView, error)
}

// SettlementResult reports the per-item outcome of a channel settlement.
type SettlementResult struct {
	ChannelID  string               `json:"channel_id"`
	Status     domain.ChannelStatus `json:"status"`
	Registered int                  `json:"registered"`
	Skipped    int                  `json:"skipped"`
	Failed     int                  `json:"failed"`
	FailedIDs  []string             `json:"failed_ids,omitempty"`
	Nonce      uint64               `json:"nonce"`
	SettledAt  time.Time            `json:"settled_at"`
}

// SettlementService replays a verified batch list into the registry and
// commits the channel record, idempotently per item.
type SettlementService interface {
	SettleChannel(ctx context.Context, channel *domain.Channel, items []domain.BatchData, aggregateSignature string) (*SettlementResult, error)
}

// --- Onboarding (manufacturer accounts) ---

// RegisterManufacturerRequest holds input for manufacturer onboarding.
type RegisterManufacturerRequest struct {
	Username    string
	Password    string
	CompanyName string
}

// RegisterManufacturerResponse holds the onboarding result shown once.
type RegisterManufacturerResponse struct {
	ManufacturerID uuid.UUID
	Identity       string
	AccessKey      string
	SecretKey      string // Plaintext, shown only at registration
}

// AuthService defines manufacturer onboarding and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterManufacturerRequest) (*RegisterManufacturerResponse, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// ManufacturerService defines account management for onboarded producers.
type ManufacturerService interface {
	GetProfile(ctx context.Context, manufacturerID string) (*domain.Manufacturer, error)
	// RotateKeys issues a fresh access/secret pair; previous signatures stop
	// verifying.
	RotateKeys(ctx context.Context, manufacturerID string) (accessKey string, secretKey string, err error)
}
