package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is matches errors by code, so a clone with an overridden message still
// satisfies errors.Is against its prototype.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss  = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrUpstream   = New("UPSTREAM_ERROR", http.StatusBadGateway, "upstream service unavailable")

	// Verification flow errors. Messages are surfaced verbatim to the
	// submitting client as the `detail` text.
	ErrOTPSessionNotFound  = New("OTP_SESSION_NOT_FOUND", http.StatusNotFound, "verification session not found or expired")
	ErrOTPMismatch         = New("OTP_MISMATCH", http.StatusBadRequest, "the verification code is incorrect")
	ErrOTPExpired          = New("OTP_EXPIRED", http.StatusGone, "the verification code has expired")
	ErrOTPAttemptsExceeded = New("OTP_ATTEMPTS_EXCEEDED", http.StatusTooManyRequests, "too many incorrect attempts, request a new code")
	ErrResendCooldown      = New("OTP_RESEND_COOLDOWN", http.StatusTooManyRequests, "please wait before requesting another code")
	ErrSessionNotVerified  = New("SESSION_NOT_VERIFIED", http.StatusForbidden, "email verification is required before submitting")
	ErrVerificationStale   = New("VERIFICATION_STALE", http.StatusForbidden, "email verification has expired, please verify again")
	ErrPurposeMismatch     = New("PURPOSE_MISMATCH", http.StatusForbidden, "verification was issued for a different submission type")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
