package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("STATE_003", "Reward already claimed", http.StatusConflict),
			expected: "[STATE_003] Reward already claimed",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("VAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"EmptyParticipants", ErrEmptyParticipants(), "VAL_001", 400},
		{"TooManyParticipants", ErrTooManyParticipants(20), "VAL_002", 400},
		{"DuplicateParticipant", ErrDuplicateParticipant("0xP1"), "VAL_003", 400},
		{"RoleCountMismatch", ErrRoleCountMismatch(), "VAL_004", 400},
		{"InvalidRole", ErrInvalidRole("PIRATE"), "VAL_005", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestStateConflictErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"DuplicateBatch", ErrDuplicateBatch("B1"), "STATE_001", 409},
		{"AlreadyVerified", ErrAlreadyVerified(), "STATE_002", 409},
		{"AlreadyClaimed", ErrAlreadyClaimed(), "STATE_003", 409},
		{"BatchCompleted", ErrBatchCompleted(), "STATE_004", 409},
		{"ChannelNotOpen", ErrChannelNotOpen("CH-1"), "STATE_005", 409},
		{"VerificationIncomplete", ErrVerificationIncomplete(), "STATE_006", 409},
		{"ChannelSettling", ErrChannelSettling("CH-1"), "STATE_007", 409},
		{"NotFound", ErrNotFound("Batch"), "STATE_008", 404},
		{"UsernameExists", ErrUsernameExists(), "STATE_009", 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestAuthorizationErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAccessKey", ErrInvalidAccessKey(), "AUTH_001", 401},
		{"InvalidSignature", ErrInvalidSignature(), "AUTH_002", 401},
		{"NotAuthorizedParticipant", ErrNotAuthorizedParticipant(), "AUTH_003", 403},
		{"ParticipantCannotClaim", ErrParticipantCannotClaim(), "AUTH_004", 403},
		{"UnauthorizedSigner", ErrUnauthorizedSigner(), "AUTH_005", 403},
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_006", 401},
		{"InvalidToken", ErrInvalidToken(), "AUTH_007", 401},
		{"ManufacturerSuspended", ErrManufacturerSuspended(), "AUTH_008", 403},
		{"NonceUsed", ErrNonceUsed(), "AUTH_009", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestTemporalErrors(t *testing.T) {
	assert.Equal(t, "TIME_001", ErrExpiredDate().Code)
	assert.Equal(t, 400, ErrExpiredDate().HTTPStatus)
	assert.Equal(t, "TIME_002", ErrExpired().Code)
	assert.Equal(t, 410, ErrExpired().HTTPStatus)
	assert.Equal(t, "TIME_003", ErrTimestampExpired().Code)
	assert.Equal(t, 403, ErrTimestampExpired().HTTPStatus)
}

func TestIntegrityError(t *testing.T) {
	err := ErrPayloadHashMismatch()
	assert.Equal(t, "INTEG_001", err.Code)
	assert.Equal(t, 401, err.HTTPStatus)
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	sysErr := InternalError(inner)
	assert.Equal(t, "SYS_001", sysErr.Code)
	assert.Equal(t, 500, sysErr.HTTPStatus)
	assert.True(t, errors.Is(sysErr, inner))

	encErr := ErrEncryptionFailure(inner)
	assert.Equal(t, "SYS_003", encErr.Code)
	assert.Equal(t, 500, encErr.HTTPStatus)

	mintErr := ErrMintFailure(inner)
	assert.Equal(t, "SYS_004", mintErr.Code)
	assert.Equal(t, 502, mintErr.HTTPStatus)
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("Channel")
	assert.Contains(t, err.Message, "Channel")
	assert.Equal(t, "STATE_008", err.Code)
}
