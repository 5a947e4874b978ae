package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	callCount := 0

	meta, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		callCount++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, shell.ErrorTypeNone, meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RetriesConcurrencyConflicts(t *testing.T) {
	callCount := 0

	meta, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return errors.Join(eventstore.ErrConcurrencyConflict, errors.New("lost the race"))
		}
		return nil
	}, shell.WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, shell.ErrorTypeNone, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_DoesNotRetryOtherErrors(t *testing.T) {
	callCount := 0
	permanent := errors.New("permanent")

	meta, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		callCount++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, shell.ErrorTypeOther, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_DoesNotRetryTimeouts(t *testing.T) {
	callCount := 0

	_, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		callCount++
		return context.DeadlineExceeded
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, callCount)
}

func Test_RetryWithExponentialBackoff_ExhaustsRetries(t *testing.T) {
	callCount := 0

	meta, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		callCount++
		return eventstore.ErrConcurrencyConflict
	}, shell.WithMaxAttempts(3), shell.WithBaseDelay(0), shell.WithJitterFactor(0))

	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, shell.ErrorTypeConcurrencyConflict, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_StopsWhenContextIsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	meta, err := shell.RetryWithExponentialBackoff(ctx, func(_ context.Context) error {
		cancel()
		return eventstore.ErrConcurrencyConflict
	}, shell.WithBaseDelay(time.Second))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, shell.ErrorTypeContextCanceled, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(_ context.Context) error { return nil }

	_, err := shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithMaxAttempts(0))
	assert.ErrorIs(t, err, shell.ErrInvalidMaxAttempts)

	_, err = shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, shell.ErrNegativeBaseDelay)

	_, err = shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithJitterFactor(1.5))
	assert.ErrorIs(t, err, shell.ErrInvalidJitterFactor)
}
