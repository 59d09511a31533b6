package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/the-spice-must-convert/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		failures  int
		name      string
		attempts  int
		wantCalls int
		wantErr   bool
		permanent bool
	}{
		{name: "first attempt succeeds", attempts: 3, wantCalls: 1},
		{name: "succeeds after transient failures", failures: 2, attempts: 3, wantCalls: 3},
		{name: "exhausts attempts", failures: 5, attempts: 3, wantCalls: 3, wantErr: true},
		{name: "permanent failure stops immediately", failures: 5, attempts: 3, wantCalls: 1, wantErr: true, permanent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls > tt.failures {
					return nil
				}
				if tt.permanent {
					return &RetryableError{Err: errors.New("bad key"), Retryable: false}
				}
				return errors.New("connection reset")
			}, fastRetry(tt.attempts))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				require.Error(t, err)
				if !tt.permanent {
					assert.ErrorIs(t, err, ErrMaxRetries)
				}
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("timeout")
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
