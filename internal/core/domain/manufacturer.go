package domain

import (
	"time"

	"github.com/google/uuid"
)

// ManufacturerStatus represents the state of a manufacturer account.
type ManufacturerStatus string

const (
	ManufacturerStatusActive      ManufacturerStatus = "ACTIVE"
	ManufacturerStatusSuspended   ManufacturerStatus = "SUSPENDED"
	ManufacturerStatusDeactivated ManufacturerStatus = "DEACTIVATED"
)

// Manufacturer is an onboarded producer account. Its ledger identity is the
// value batches carry as manufacturer and the value settlement signatures
// must recover to.
type Manufacturer struct {
	ID           uuid.UUID          `json:"id"`
	Username     string             `json:"username"`
	PasswordHash string             `json:"-"` // Never expose
	CompanyName  string             `json:"company_name"`
	Identity     string             `json:"identity"`
	AccessKey    string             `json:"access_key"`
	SecretKeyEnc string             `json:"-"` // AES-wrapped, never expose
	Status       ManufacturerStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// IsActive returns true if the manufacturer account is active.
func (m *Manufacturer) IsActive() bool {
	return m.Status == ManufacturerStatusActive
}
