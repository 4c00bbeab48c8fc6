package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"batch-custody-ledger/internal/core/domain"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	manufacturerRepo ports.ManufacturerRepository
	keyRepo          ports.IdentityKeyRepository
	hashSvc          ports.HashService
	encSvc           ports.EncryptionService
	tokenSvc         ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	manufacturerRepo ports.ManufacturerRepository,
	keyRepo ports.IdentityKeyRepository,
	hashSvc ports.HashService,
	encSvc ports.EncryptionService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		manufacturerRepo: manufacturerRepo,
		keyRepo:          keyRepo,
		hashSvc:          hashSvc,
		encSvc:           encSvc,
		tokenSvc:         tokenSvc,
	}
}

// Register onboards a manufacturer: it mints the ledger identity, generates
// the key pair, and registers the signing key so settlement signatures from
// this identity recover. The plaintext secret is shown only once.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterManufacturerRequest) (*ports.RegisterManufacturerResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperror.Validation("username and password are required")
	}

	existing, err := s.manufacturerRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	accessKey, err := generateRandomHex(32) // 64 hex chars
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate access key: %w", err))
	}

	secretKey, err := generateRandomHex(32) // 64 hex chars
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate secret key: %w", err))
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	secretKeyEnc, err := s.encSvc.Encrypt(secretKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encrypt secret key: %w", err))
	}

	now := time.Now().UTC()
	manufacturer := &domain.Manufacturer{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: passwordHash,
		CompanyName:  req.CompanyName,
		Identity:     "MFR-" + uuid.NewString(),
		AccessKey:    accessKey,
		SecretKeyEnc: secretKeyEnc,
		Status:       domain.ManufacturerStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.manufacturerRepo.Create(ctx, manufacturer); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create manufacturer: %w", err))
	}

	// The signing-key directory is what Recover resolves against.
	key := &domain.IdentityKey{
		Identity:     manufacturer.Identity,
		SecretKeyEnc: secretKeyEnc,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.keyRepo.Upsert(ctx, key); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("register signing key: %w", err))
	}

	return &ports.RegisterManufacturerResponse{
		ManufacturerID: manufacturer.ID,
		Identity:       manufacturer.Identity,
		AccessKey:      accessKey,
		SecretKey:      secretKey,
	}, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	manufacturer, err := s.manufacturerRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find manufacturer: %w", err))
	}
	if manufacturer == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, manufacturer.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !manufacturer.IsActive() {
		return "", time.Time{}, apperror.ErrManufacturerSuspended()
	}

	token, expiry, err := s.tokenSvc.Generate(manufacturer.ID, manufacturer.Identity)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
