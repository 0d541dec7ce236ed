package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2,
	}
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), fastRetry(3), "insert", func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), fastRetry(3), "insert", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return NewTransientError(errors.New("database is locked"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_DoesNotRetryPermanentError(t *testing.T) {
	t.Parallel()
	calls := 0
	permanent := errors.New("constraint violation")
	err := Do(context.Background(), fastRetry(3), "insert", func(ctx context.Context) error {
		calls++
		return permanent
	})
	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), fastRetry(3), "insert", func(ctx context.Context) error {
		calls++
		return NewTransientError(errors.New("sqlite_busy"))
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnContextCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, fastRetry(5), "insert", func(ctx context.Context) error {
		calls++
		cancel()
		return NewTransientError(errors.New("database is locked"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "explicit transient", err: NewTransientError(errors.New("x")), want: true},
		{name: "wrapped transient", err: errors.Join(errors.New("outer"), NewTransientError(errors.New("x"))), want: true},
		{name: "sqlite locked", err: errors.New("sqlite: insert event: database is locked"), want: true},
		{name: "pg conn closed", err: errors.New("postgres: insert event: conn closed"), want: true},
		{name: "plain error", err: errors.New("invalid event"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestFromConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg := FromConfig(0, 0, 0)
	assert.Equal(t, DefaultRetryConfig(), cfg)

	cfg = FromConfig(5, 50, 1000)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.InitialBackoff)
	assert.Equal(t, time.Second, cfg.MaxBackoff)
}
