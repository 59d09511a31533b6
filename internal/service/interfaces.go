// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-spice-must-convert/internal/model"
)

// RateProvider is the external exchange-rate collaborator.
type RateProvider interface {
	// ListCurrencies returns the supported currencies in source order.
	ListCurrencies(ctx context.Context) ([]model.Currency, error)
	// Convert returns amount expressed in the target currency.
	Convert(ctx context.Context, from, to model.CurrencyCode, amount float64) (float64, error)
}

// Recognizer captures one utterance and returns its transcript.
type Recognizer interface {
	// Available reports whether the host can capture voice at all.
	Available() bool
	// Recognize blocks until a transcript is produced, an error occurs or ctx ends.
	// An empty transcript with a nil error means the session ended without speech.
	Recognize(ctx context.Context) (string, error)
}

// NotificationLevel classifies a notification.
type NotificationLevel int

const (
	// LevelInfo is a confirmation or hint.
	LevelInfo NotificationLevel = iota
	// LevelError reports a rejected input or failed operation.
	LevelError
)

func (l NotificationLevel) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notifier is a fire-and-forget channel for single-line user messages.
type Notifier interface {
	Notify(level NotificationLevel, message string)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
