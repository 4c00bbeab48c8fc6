package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

func ErrEmptyParticipants() *AppError {
	return New("VAL_001", "Participant list is empty", http.StatusBadRequest)
}

func ErrTooManyParticipants(max int) *AppError {
	return New("VAL_002", fmt.Sprintf("Participant list exceeds maximum of %d", max), http.StatusBadRequest)
}

func ErrDuplicateParticipant(identity string) *AppError {
	return New("VAL_003", fmt.Sprintf("Duplicate participant: %s", identity), http.StatusBadRequest)
}

func ErrRoleCountMismatch() *AppError {
	return New("VAL_004", "Role count does not match participant count", http.StatusBadRequest)
}

func ErrInvalidRole(role string) *AppError {
	return New("VAL_005", fmt.Sprintf("Unknown role: %s", role), http.StatusBadRequest)
}

// Validation returns a generic VAL_000 error for malformed input.
func Validation(message string) *AppError {
	return New("VAL_000", message, http.StatusBadRequest)
}

// ---- State conflicts (STATE) ----

func ErrDuplicateBatch(batchID string) *AppError {
	return New("STATE_001", fmt.Sprintf("Batch already registered: %s", batchID), http.StatusConflict)
}

func ErrAlreadyVerified() *AppError {
	return New("STATE_002", "Participant has already verified this batch", http.StatusConflict)
}

func ErrAlreadyClaimed() *AppError {
	return New("STATE_003", "Reward has already been claimed", http.StatusConflict)
}

func ErrBatchCompleted() *AppError {
	return New("STATE_004", "Batch reward already claimed, no further verification allowed", http.StatusConflict)
}

func ErrChannelNotOpen(channelID string) *AppError {
	return New("STATE_005", fmt.Sprintf("Channel is not open: %s", channelID), http.StatusConflict)
}

func ErrVerificationIncomplete() *AppError {
	return New("STATE_006", "Not all participants have verified this batch", http.StatusConflict)
}

func ErrChannelSettling(channelID string) *AppError {
	return New("STATE_007", fmt.Sprintf("Channel settlement already in progress: %s", channelID), http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("STATE_008", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrUsernameExists() *AppError {
	return New("STATE_009", "Username already exists", http.StatusConflict)
}

// ---- Authorization (AUTH) ----

func ErrInvalidAccessKey() *AppError {
	return New("AUTH_001", "Invalid access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("AUTH_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrNotAuthorizedParticipant() *AppError {
	return New("AUTH_003", "Caller is not a participant of this batch", http.StatusForbidden)
}

func ErrParticipantCannotClaim() *AppError {
	return New("AUTH_004", "Batch participants cannot claim the reward", http.StatusForbidden)
}

func ErrUnauthorizedSigner() *AppError {
	return New("AUTH_005", "Signer lacks manufacturer authorization for this channel", http.StatusForbidden)
}

func ErrInvalidCredentials() *AppError {
	return New("AUTH_006", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_007", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrManufacturerSuspended() *AppError {
	return New("AUTH_008", "Manufacturer account is suspended", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("AUTH_009", "Nonce has already been used", http.StatusForbidden)
}

// ---- Temporal (TIME) ----

func ErrExpiredDate() *AppError {
	return New("TIME_001", "Expiry date must be in the future", http.StatusBadRequest)
}

func ErrExpired() *AppError {
	return New("TIME_002", "Batch has expired", http.StatusGone)
}

func ErrTimestampExpired() *AppError {
	return New("TIME_003", "Request timestamp expired", http.StatusForbidden)
}

// ---- Integrity (INTEG) ----

func ErrPayloadHashMismatch() *AppError {
	return New("INTEG_001", "Settlement payload hash does not match its signature", http.StatusUnauthorized)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & infrastructure (SYS) ----

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

func ErrMintFailure(err error) *AppError {
	return Wrap("SYS_004", "Token minting collaborator failure", http.StatusBadGateway, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
