package model

import "math"

// Amount is an evaluated amount. A zero Amount means nothing was entered,
// which is distinct from an entered zero.
type Amount struct {
	Value   float64
	Present bool
}

// NoAmount is the absent amount.
var NoAmount = Amount{}

// NewAmount returns a present amount. Non-finite values yield NoAmount.
func NewAmount(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoAmount
	}
	return Amount{Value: v, Present: true}
}

// Positive reports whether the amount is present and strictly above zero.
func (a Amount) Positive() bool {
	return a.Present && a.Value > 0
}

// ConversionState is the lifecycle of the visible conversion.
type ConversionState int

const (
	// StateIdle means nothing is shown.
	StateIdle ConversionState = iota
	// StateLoading means a lookup has been issued and not yet resolved.
	StateLoading
	// StateSuccess means a result is shown.
	StateSuccess
	// StateError means the latest lookup failed.
	StateError
)

func (s ConversionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ConversionRequest is an issued lookup. Seq increases monotonically per session.
type ConversionRequest struct {
	From   CurrencyCode
	To     CurrencyCode
	Amount float64
	Seq    uint64
}

// ConversionResult is a resolved lookup.
type ConversionResult struct {
	From      CurrencyCode
	To        CurrencyCode
	Amount    float64
	Converted float64
}

// VoiceCommand is a fully resolved spoken conversion.
type VoiceCommand struct {
	From   CurrencyCode
	To     CurrencyCode
	Amount float64
}
