// Package apperr defines the domain error taxonomy. Every rejected operation
// maps to exactly one of these sentinels; handlers translate them to HTTP
// statuses in a single place so new call sites cannot invent ad-hoc codes.
package apperr

import "errors"

var (
	// Scan / QR
	ErrInvalidQRPayload = New("INVALID_QR_PAYLOAD", "invalid QR payload")

	// Auth
	ErrUnauthenticated    = New("UNAUTHENTICATED", "authentication required")
	ErrForbidden          = New("FORBIDDEN", "insufficient permissions")
	ErrTokenInvalid       = New("TOKEN_INVALID", "token invalid")
	ErrTokenExpired       = New("TOKEN_EXPIRED", "token expired")
	ErrGoogleAuthFailed   = New("GOOGLE_AUTH_FAILED", "google authentication failed")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", "invalid credentials")

	// Punch engine
	ErrProgramNotFound    = New("PROGRAM_NOT_FOUND", "loyalty program not found")
	ErrRewardAlreadyReady = New("REWARD_ALREADY_READY", "card is awaiting redemption")
	ErrRewardNotReady     = New("REWARD_NOT_READY", "reward threshold not reached")

	ErrCardNotFound = New("CARD_NOT_FOUND", "punch card not found")

	// Staff management
	ErrMerchantUserNotFound = New("MERCHANT_USER_NOT_FOUND", "merchant user not found")
)

// Error is a domain error with a stable machine-readable code.
type Error struct {
	Code    string
	Message string
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string { return e.Message }

// Is matches by code so wrapped instances still compare equal to sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// CodeOf extracts the stable code, or "INTERNAL" for unknown errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "INTERNAL"
}
