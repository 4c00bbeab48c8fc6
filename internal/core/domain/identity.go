package domain

import "time"

// IdentityKey is a signing-key directory entry. The core never stores the
// plaintext secret; it is AES-wrapped at rest and resolved only to verify
// attestation signatures.
type IdentityKey struct {
	Identity     string    `json:"identity"`
	SecretKeyEnc string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
