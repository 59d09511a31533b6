// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Catalog errors.
	ErrCatalogLoad = errors.New("currency catalog load failed")

	// Input errors.
	ErrInvalidExpression     = errors.New("invalid expression")
	ErrUnrecognizedCommand   = errors.New("unrecognized voice command")
	ErrCapabilityUnavailable = errors.New("voice capture unavailable")
	ErrSessionActive         = errors.New("voice session already active")

	// Conversion errors.
	ErrConversionLookup = errors.New("conversion lookup failed")
	ErrStaleResponse    = errors.New("stale conversion response discarded")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// User-facing messages.
const (
	MsgInvalidExpression = "Invalid expression! Use numbers and operators like +, -, *, /"
	MsgUnrecognized      = `Could not understand voice input. Say, e.g., "Convert 100 USD to PKR"`
	MsgNoCapability      = "Voice input not supported on this system. Configure a recognizer."
	MsgSessionActive     = "Already listening."
	MsgVoiceFailed       = "Voice recognition failed. Please try again."
	MsgCatalogFailed     = "Failed to load currencies"
	MsgReset             = "Form reset to default values"
	MsgInvalidAmount     = "Enter a valid amount! (Greater than 0)"
	MsgLookupFailed      = "Error fetching conversion rate"
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage extracts the message meant for the user. Errors that carry no
// UserError fall back to their own text, or to fallback when err is nil.
func UserMessage(err error, fallback string) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
