package domain

import (
	"time"
)

// MaxParticipants bounds the custody chain length of a single batch.
const MaxParticipants = 20

// Role represents a participant's position in the custody chain.
// The set is closed: unknown role strings are rejected at the registration
// boundary, never silently mapped to RoleNone.
type Role string

const (
	RoleNone        Role = "NONE"
	RoleTransporter Role = "TRANSPORTER"
	RoleSupplier    Role = "SUPPLIER"
	RoleDistributor Role = "DISTRIBUTOR"
	RoleWholesaler  Role = "WHOLESALER"
	RoleRetailer    Role = "RETAILER"
)

// ParseRole maps a role string onto the closed Role set.
// Returns false for any value outside the set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleNone, RoleTransporter, RoleSupplier, RoleDistributor, RoleWholesaler, RoleRetailer:
		return Role(s), true
	default:
		return "", false
	}
}

// Participant is one custodian of a batch, fixed at registration.
type Participant struct {
	Identity    string     `json:"identity"`
	Role        Role       `json:"role"`
	HasVerified bool       `json:"has_verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	Location    string     `json:"location,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// Batch is a traceable unit of product moving through a custody chain.
// Records are append-only: a batch is never deleted, and after registration
// only verification calls and a single reward claim mutate it.
type Batch struct {
	ID            string        `json:"id"`
	Manufacturer  string        `json:"manufacturer"`
	Name          string        `json:"name"`
	Composition   string        `json:"composition,omitempty"`
	ExpiryDate    time.Time     `json:"expiry_date"`
	RegisteredAt  time.Time     `json:"registered_at"`
	OriginChannel string        `json:"origin_channel,omitempty"`
	Participants  []Participant `json:"participants"`
	VerifiedCount int           `json:"verified_count"`
	RewardClaimed bool          `json:"reward_claimed"`
	Claimant      string        `json:"claimant,omitempty"`
	ClaimedAt     *time.Time    `json:"claimed_at,omitempty"`
}

// TotalParticipants returns the fixed size of the custody chain.
func (b *Batch) TotalParticipants() int {
	return len(b.Participants)
}

// IsFullyVerified returns true once every participant has attested receipt.
func (b *Batch) IsFullyVerified() bool {
	return b.VerifiedCount == len(b.Participants)
}

// IsExpired reports whether the batch expiry has passed at the given time.
func (b *Batch) IsExpired(now time.Time) bool {
	return !now.Before(b.ExpiryDate)
}

// ParticipantIndex returns the position of identity in the custody chain,
// or -1 if identity is not a participant.
func (b *Batch) ParticipantIndex(identity string) int {
	for i := range b.Participants {
		if b.Participants[i].Identity == identity {
			return i
		}
	}
	return -1
}

// HasParticipant reports whether identity is part of this batch's chain.
func (b *Batch) HasParticipant(identity string) bool {
	return b.ParticipantIndex(identity) >= 0
}
