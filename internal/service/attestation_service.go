package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/pkg/apperror"
)

// HMACAttestationService implements ports.AttestationService. A signature
// envelope is "identity:hex(hmac-sha256(secret, message))"; Recover resolves
// the claimed identity's wrapped secret from the key directory and checks
// the MAC in constant time.
type HMACAttestationService struct {
	keys   ports.IdentityKeyRepository
	encSvc ports.EncryptionService
}

// NewHMACAttestationService creates a new HMACAttestationService.
func NewHMACAttestationService(keys ports.IdentityKeyRepository, encSvc ports.EncryptionService) *HMACAttestationService {
	return &HMACAttestationService{keys: keys, encSvc: encSvc}
}

// Sign produces the signature envelope for message under identity's secret.
func (s *HMACAttestationService) Sign(identity, secretKey, message string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(message))
	return identity + ":" + hex.EncodeToString(mac.Sum(nil))
}

// Recover returns the identity that signed message. The envelope names the
// identity; the MAC proves possession of that identity's secret.
func (s *HMACAttestationService) Recover(ctx context.Context, message, signature string) (string, error) {
	sep := strings.LastIndex(signature, ":")
	if sep <= 0 || sep == len(signature)-1 {
		return "", apperror.ErrInvalidSignature()
	}
	identity := signature[:sep]
	macHex := signature[sep+1:]

	secretEnc, err := s.keys.GetSecretEnc(ctx, identity)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("resolve signing key: %w", err))
	}
	if secretEnc == "" {
		return "", apperror.ErrInvalidSignature()
	}

	secret, err := s.encSvc.Decrypt(secretEnc)
	if err != nil {
		return "", apperror.ErrEncryptionFailure(err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(macHex)) {
		return "", apperror.ErrInvalidSignature()
	}
	return identity, nil
}

// VerificationMessage builds the canonical participant attestation message.
// Location and note are part of the signed payload, so a relayed signature
// cannot alter what the custodian attested.
func (s *HMACAttestationService) VerificationMessage(batchID, identity, location, note string) string {
	return fmt.Sprintf("verify|%s|%s|%s|%s", batchID, identity, location, note)
}

// SettlementMessage binds a channel id to the content hash of its batch list.
func (s *HMACAttestationService) SettlementMessage(channelID, contentHash string) string {
	return fmt.Sprintf("settle|%s|%s", channelID, contentHash)
}
