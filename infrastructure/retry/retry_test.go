package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/retry"
)

var errRefused = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func fastConfig(attempts int) retry.Config {
	return retry.Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	var retried []int
	cfg := fastConfig(5)
	cfg.OnRetry = func(attempt int, _ time.Duration, _ error) { retried = append(retried, attempt) }

	err := retry.Do(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 3 {
			return errRefused
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_GivesUp(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), fastConfig(3), func(context.Context) error {
		calls++
		return errRefused
	})

	require.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	require.ErrorIs(t, err, errRefused)
	assert.Equal(t, 3, calls)
}

func TestDo_NonRetryableReturnsImmediately(t *testing.T) {
	t.Parallel()

	authErr := errors.New("WRONGPASS invalid username-password pair")
	calls := 0
	err := retry.Do(context.Background(), fastConfig(3), func(context.Context) error {
		calls++
		return authErr
	})

	require.ErrorIs(t, err, authErr)
	assert.NotErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, fastConfig(3), func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.True(t, retry.IsTransient(errRefused))
	assert.True(t, retry.IsTransient(context.DeadlineExceeded))
	assert.True(t, retry.IsTransient(errors.New("LOADING Redis is loading the dataset in memory")))
	assert.False(t, retry.IsTransient(errors.New("NOAUTH Authentication required")))
	assert.False(t, retry.IsTransient(nil))
}
