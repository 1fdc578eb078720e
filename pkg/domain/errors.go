package domain

import (
	"errors"
	"fmt"
	"time"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeBadRequest            = "BAD_REQUEST"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeRateLimited           = "RATE_LIMITED"
	ErrCodeQuotaExceeded         = "QUOTA_EXCEEDED"
	ErrCodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
	ErrCodeInvalidUpstreamOutput = "INVALID_UPSTREAM_OUTPUT"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// RateLimitedError is returned when admission control or the upstream
// provider denies a request. RetryAfter is always at least one second.
type RateLimitedError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: %s (retry after %s)", ErrCodeRateLimited, e.Message, e.RetryAfter)
}

// NewRateLimitedError creates a rate limited error, flooring the retry
// hint at one second.
func NewRateLimitedError(retryAfter time.Duration, msg string) error {
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return &RateLimitedError{RetryAfter: retryAfter, Message: msg}
}

// QuotaExceededError is returned when the monthly usage ceiling is hit.
// Usage and Limit are surfaced to the client so it can prompt an upgrade.
type QuotaExceededError struct {
	Usage int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: monthly limit reached (%d/%d)", ErrCodeQuotaExceeded, e.Usage, e.Limit)
}

// NewQuotaExceededError creates a quota exceeded error
func NewQuotaExceededError(usage, limit int) error {
	return &QuotaExceededError{Usage: usage, Limit: limit}
}

// Error constructors

// NewBadRequestError creates a new bad request error
func NewBadRequestError(msg string) error {
	return &DomainError{
		Code:    ErrCodeBadRequest,
		Message: msg,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError() error {
	return &DomainError{
		Code:    ErrCodeUnauthorized,
		Message: "Authentication required",
	}
}

// NewServiceUnavailableError creates a new service unavailable error
func NewServiceUnavailableError(msg string, err error) error {
	return &DomainError{
		Code:    ErrCodeServiceUnavailable,
		Message: msg,
		Err:     err,
	}
}

// NewInvalidUpstreamOutputError creates an error for model output that
// could not be parsed into the plan schema
func NewInvalidUpstreamOutputError(err error) error {
	return &DomainError{
		Code:    ErrCodeInvalidUpstreamOutput,
		Message: "Invalid AI response",
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(err error) error {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: "An internal error occurred",
		Err:     err,
	}
}

// Helper functions to check error types

func codeOf(err error) (string, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}

// IsBadRequest checks if the error is a bad request error
func IsBadRequest(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeBadRequest
}

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeUnauthorized
}

// IsRateLimited checks if the error is a rate limited error
func IsRateLimited(err error) bool {
	var rle *RateLimitedError
	return errors.As(err, &rle)
}

// IsQuotaExceeded checks if the error is a quota exceeded error
func IsQuotaExceeded(err error) bool {
	var qee *QuotaExceededError
	return errors.As(err, &qee)
}

// IsServiceUnavailable checks if the error is a service unavailable error
func IsServiceUnavailable(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeServiceUnavailable
}

// IsInvalidUpstreamOutput checks if the error is an invalid upstream output error
func IsInvalidUpstreamOutput(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeInvalidUpstreamOutput
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) string {
	switch {
	case IsRateLimited(err):
		return ErrCodeRateLimited
	case IsQuotaExceeded(err):
		return ErrCodeQuotaExceeded
	default:
		if code, ok := codeOf(err); ok {
			return code
		}
		return ErrCodeInternal
	}
}
