package dto

import (
	"time"

	"batch-custody-ledger/internal/core/domain"
)

// RegisterManufacturerRequest is the request body for manufacturer onboarding.
type RegisterManufacturerRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	CompanyName string `json:"company_name" binding:"required,min=1,max=100"`
}

// LoginRequest is the request body for manufacturer login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterManufacturerResponse is the response body for successful onboarding.
// SecretKey is plaintext and shown exactly once.
type RegisterManufacturerResponse struct {
	ManufacturerID string `json:"manufacturer_id"`
	Identity       string `json:"identity"`
	AccessKey      string `json:"access_key"`
	SecretKey      string `json:"secret_key"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// RotateKeysResponse carries a freshly issued key pair.
type RotateKeysResponse struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// ManufacturerProfileResponse is the account view for the query surface.
type ManufacturerProfileResponse struct {
	ManufacturerID string `json:"manufacturer_id"`
	Username       string `json:"username"`
	CompanyName    string `json:"company_name"`
	Identity       string `json:"identity"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// RegisterBatchRequest is the request body for direct batch registration.
type RegisterBatchRequest struct {
	BatchID      string    `json:"batch_id" binding:"required,max=100,safe_id"`
	Name         string    `json:"name" binding:"required,min=1,max=200"`
	Composition  string    `json:"composition" binding:"max=1000"`
	ExpiryDate   time.Time `json:"expiry_date" binding:"required"`
	Participants []string  `json:"participants" binding:"required"`
	Roles        []string  `json:"roles" binding:"required"`
}

// VerifyRequest is the request body for a participant attestation.
type VerifyRequest struct {
	Identity  string `json:"identity" binding:"required,max=100"`
	Location  string `json:"location" binding:"max=200"`
	Note      string `json:"note" binding:"max=500"`
	Signature string `json:"signature" binding:"required"`
}

// ClaimRequest is the request body for a reward claim.
type ClaimRequest struct {
	Claimant string `json:"claimant" binding:"required,max=100"`
}

// IntentRequest is the request body for buffering one batch intent into an
// aggregation channel.
type IntentRequest struct {
	Data               BatchDataPayload `json:"data" binding:"required"`
	AggregateSignature string           `json:"aggregate_signature" binding:"required"`
}

// BatchDataPayload mirrors domain.BatchData on the wire.
type BatchDataPayload struct {
	BatchID      string    `json:"batch_id" binding:"required,max=100,safe_id"`
	Name         string    `json:"name" binding:"required,min=1,max=200"`
	Composition  string    `json:"composition" binding:"max=1000"`
	ExpiryDate   time.Time `json:"expiry_date" binding:"required"`
	Participants []string  `json:"participants" binding:"required"`
	Roles        []string  `json:"roles" binding:"required"`
}

// ToDomain converts the wire payload to the domain type.
func (p BatchDataPayload) ToDomain() domain.BatchData {
	return domain.BatchData{
		BatchID:      p.BatchID,
		Name:         p.Name,
		Composition:  p.Composition,
		ExpiryDate:   p.ExpiryDate,
		Participants: p.Participants,
		Roles:        p.Roles,
	}
}

// SettleRequest is the request body for explicit channel settlement.
// Items may be omitted to settle the channel's buffered list.
type SettleRequest struct {
	Items              []BatchDataPayload `json:"items,omitempty"`
	AggregateSignature string             `json:"aggregate_signature" binding:"required"`
}

// BatchResponse is the full batch view.
type BatchResponse struct {
	ID            string                `json:"id"`
	Manufacturer  string                `json:"manufacturer"`
	Name          string                `json:"name"`
	Composition   string                `json:"composition,omitempty"`
	ExpiryDate    string                `json:"expiry_date"`
	RegisteredAt  string                `json:"registered_at"`
	OriginChannel string                `json:"origin_channel,omitempty"`
	Participants  []ParticipantResponse `json:"participants"`
	VerifiedCount int                   `json:"verified_count"`
	RewardClaimed bool                  `json:"reward_claimed"`
	Claimant      string                `json:"claimant,omitempty"`
}

// ParticipantResponse is one custodian in the batch view.
type ParticipantResponse struct {
	Identity    string `json:"identity"`
	Role        string `json:"role"`
	HasVerified bool   `json:"has_verified"`
	VerifiedAt  string `json:"verified_at,omitempty"`
	Location    string `json:"location,omitempty"`
	Note        string `json:"note,omitempty"`
}

// FromBatch builds the wire view of a batch.
func FromBatch(b *domain.Batch) BatchResponse {
	resp := BatchResponse{
		ID:            b.ID,
		Manufacturer:  b.Manufacturer,
		Name:          b.Name,
		Composition:   b.Composition,
		ExpiryDate:    b.ExpiryDate.UTC().Format(time.RFC3339),
		RegisteredAt:  b.RegisteredAt.UTC().Format(time.RFC3339),
		OriginChannel: b.OriginChannel,
		VerifiedCount: b.VerifiedCount,
		RewardClaimed: b.RewardClaimed,
		Claimant:      b.Claimant,
	}
	for _, p := range b.Participants {
		pr := ParticipantResponse{
			Identity:    p.Identity,
			Role:        string(p.Role),
			HasVerified: p.HasVerified,
			Location:    p.Location,
			Note:        p.Note,
		}
		if p.VerifiedAt != nil {
			pr.VerifiedAt = p.VerifiedAt.UTC().Format(time.RFC3339)
		}
		resp.Participants = append(resp.Participants, pr)
	}
	return resp
}

// CanVerifyResponse is the pre-flight check result for a participant.
type CanVerifyResponse struct {
	BatchID         string `json:"batch_id"`
	Identity        string `json:"identity"`
	CanVerify       bool   `json:"can_verify"`
	AlreadyVerified bool   `json:"already_verified"`
}

// LedgerEventResponse is one journal entry in the batch history view.
type LedgerEventResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	BatchID   string `json:"batch_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	Actor     string `json:"actor,omitempty"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

// FromEvent builds the wire view of a ledger event.
func FromEvent(e *domain.LedgerEvent) LedgerEventResponse {
	return LedgerEventResponse{
		ID:        e.ID.String(),
		Type:      string(e.Type),
		BatchID:   e.BatchID,
		ChannelID: e.ChannelID,
		Actor:     e.Actor,
		Details:   e.Details,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// BatchListResponse wraps a paginated batch list.
type BatchListResponse struct {
	Items      []BatchResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}
