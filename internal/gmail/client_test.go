package gmail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterTransientErrors(t *testing.T) {
	attempts := 0
	got, err := retry(context.Background(), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("temporary")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts)
}

func TestRetryGivesUp(t *testing.T) {
	callErr := errors.New("still down")
	attempts := 0
	_, err := retry(context.Background(), func() (int, error) {
		attempts++
		return 0, callErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, callErr)
	assert.Equal(t, fetchMaxTries, attempts)
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := retry(ctx, func() (int, error) {
		return 0, errors.New("never succeeds")
	})
	require.Error(t, err)
}
