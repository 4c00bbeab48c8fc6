package service

import (
	"context"
	"fmt"
	"time"

	"batch-custody-ledger/internal/core/domain"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/pkg/apperror"
)

type manufacturerService struct {
	manufacturerRepo ports.ManufacturerRepository
	keyRepo          ports.IdentityKeyRepository
	encSvc           ports.EncryptionService
}

// NewManufacturerService creates a new manufacturer management service.
func NewManufacturerService(
	manufacturerRepo ports.ManufacturerRepository,
	keyRepo ports.IdentityKeyRepository,
	encSvc ports.EncryptionService,
) ports.ManufacturerService {
	return &manufacturerService{
		manufacturerRepo: manufacturerRepo,
		keyRepo:          keyRepo,
		encSvc:           encSvc,
	}
}

func (s *manufacturerService) GetProfile(ctx context.Context, manufacturerID string) (*domain.Manufacturer, error) {
	manufacturer, err := s.manufacturerRepo.GetByID(ctx, manufacturerID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if manufacturer == nil {
		return nil, apperror.ErrNotFound("Manufacturer")
	}
	return manufacturer, nil
}

// RotateKeys replaces the access/secret pair and the signing-key directory
// entry. Signatures made under the old secret stop recovering immediately.
func (s *manufacturerService) RotateKeys(ctx context.Context, manufacturerID string) (string, string, error) {
	manufacturer, err := s.manufacturerRepo.GetByID(ctx, manufacturerID)
	if err != nil {
		return "", "", apperror.InternalError(err)
	}
	if manufacturer == nil {
		return "", "", apperror.ErrNotFound("Manufacturer")
	}

	newAccessKey, err := generateRandomHex(32)
	if err != nil {
		return "", "", apperror.InternalError(fmt.Errorf("generate access key: %w", err))
	}
	newSecretKey, err := generateRandomHex(32)
	if err != nil {
		return "", "", apperror.InternalError(fmt.Errorf("generate secret key: %w", err))
	}

	encSecretKey, err := s.encSvc.Encrypt(newSecretKey)
	if err != nil {
		return "", "", apperror.InternalError(fmt.Errorf("encrypt secret key: %w", err))
	}

	if err := s.manufacturerRepo.UpdateKeys(ctx, manufacturerID, newAccessKey, encSecretKey); err != nil {
		return "", "", apperror.InternalError(err)
	}

	now := time.Now().UTC()
	key := &domain.IdentityKey{
		Identity:     manufacturer.Identity,
		SecretKeyEnc: encSecretKey,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.keyRepo.Upsert(ctx, key); err != nil {
		return "", "", apperror.InternalError(fmt.Errorf("rotate signing key: %w", err))
	}

	return newAccessKey, newSecretKey, nil
}
