package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"batch-custody-ledger/internal/core/domain"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc              *AuthServiceImpl
	manufacturerRepo *mocks.MockManufacturerRepository
	keyRepo          *mocks.MockIdentityKeyRepository
	hashSvc          *mocks.MockHashService
	encSvc           *mocks.MockEncryptionService
	tokenSvc         *mocks.MockTokenService
	ctrl             *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		manufacturerRepo: mocks.NewMockManufacturerRepository(ctrl),
		keyRepo:          mocks.NewMockIdentityKeyRepository(ctrl),
		hashSvc:          mocks.NewMockHashService(ctrl),
		encSvc:           mocks.NewMockEncryptionService(ctrl),
		tokenSvc:         mocks.NewMockTokenService(ctrl),
		ctrl:             ctrl,
	}
	d.svc = NewAuthService(d.manufacturerRepo, d.keyRepo, d.hashSvc, d.encSvc, d.tokenSvc)
	return d
}

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.RegisterManufacturerRequest{
		Username:    "acme",
		Password:    "s3cret!",
		CompanyName: "Acme Pharma",
	}

	d.manufacturerRepo.EXPECT().GetByUsername(ctx, "acme").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("s3cret!").Return("argon2_hash", nil)
	d.encSvc.EXPECT().Encrypt(gomock.Any()).Return("enc_secret", nil)
	d.manufacturerRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, m *domain.Manufacturer) error {
			require.True(t, strings.HasPrefix(m.Identity, "MFR-"))
			require.Equal(t, "argon2_hash", m.PasswordHash)
			require.Equal(t, domain.ManufacturerStatusActive, m.Status)
			return nil
		})
	d.keyRepo.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, key *domain.IdentityKey) error {
			require.True(t, strings.HasPrefix(key.Identity, "MFR-"))
			require.Equal(t, "enc_secret", key.SecretKeyEnc)
			return nil
		})

	resp, err := d.svc.Register(ctx, req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Identity, "MFR-"))
	assert.Len(t, resp.AccessKey, 64)
	assert.Len(t, resp.SecretKey, 64)
}

func TestAuthService_Register_UsernameExists(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.manufacturerRepo.EXPECT().GetByUsername(ctx, "acme").Return(&domain.Manufacturer{Username: "acme"}, nil)

	resp, err := d.svc.Register(ctx, ports.RegisterManufacturerRequest{Username: "acme", Password: "pw"})
	assert.Nil(t, resp)
	assertAppError(t, err, "STATE_009")
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	id := uuid.New()
	manufacturer := &domain.Manufacturer{
		ID:           id,
		Username:     "acme",
		PasswordHash: "argon2_hash",
		Identity:     "MFR-x",
		Status:       domain.ManufacturerStatusActive,
	}
	expiry := time.Now().Add(time.Hour)

	d.manufacturerRepo.EXPECT().GetByUsername(ctx, "acme").Return(manufacturer, nil)
	d.hashSvc.EXPECT().Verify("s3cret!", "argon2_hash").Return(true, nil)
	d.tokenSvc.EXPECT().Generate(id, "MFR-x").Return("jwt_token", expiry, nil)

	token, exp, err := d.svc.Login(ctx, "acme", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "jwt_token", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.manufacturerRepo.EXPECT().GetByUsername(ctx, "acme").Return(&domain.Manufacturer{
		PasswordHash: "argon2_hash",
		Status:       domain.ManufacturerStatusActive,
	}, nil)
	d.hashSvc.EXPECT().Verify("bad", "argon2_hash").Return(false, nil)

	_, _, err := d.svc.Login(ctx, "acme", "bad")
	assertAppError(t, err, "AUTH_006")
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.manufacturerRepo.EXPECT().GetByUsername(ctx, "ghost").Return(nil, nil)

	_, _, err := d.svc.Login(ctx, "ghost", "pw")
	assertAppError(t, err, "AUTH_006")
}

func TestAuthService_Login_Suspended(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.manufacturerRepo.EXPECT().GetByUsername(ctx, "acme").Return(&domain.Manufacturer{
		PasswordHash: "argon2_hash",
		Status:       domain.ManufacturerStatusSuspended,
	}, nil)
	d.hashSvc.EXPECT().Verify("pw", "argon2_hash").Return(true, nil)

	_, _, err := d.svc.Login(ctx, "acme", "pw")
	assertAppError(t, err, "AUTH_008")
}
