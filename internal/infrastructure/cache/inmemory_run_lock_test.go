package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRunLockAcquireRelease(t *testing.T) {
	lock := NewInMemoryRunLock()
	ctx := context.Background()

	acquired, err := lock.Acquire(ctx, "run:a", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	// Second acquire on the same key fails while held
	acquired, err = lock.Acquire(ctx, "run:a", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	// Other keys are independent
	acquired, err = lock.Acquire(ctx, "run:b", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, lock.Release(ctx, "run:a"))
	acquired, err = lock.Acquire(ctx, "run:a", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestInMemoryRunLockExpiry(t *testing.T) {
	lock := NewInMemoryRunLock()
	ctx := context.Background()

	acquired, err := lock.Acquire(ctx, "run:a", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	time.Sleep(20 * time.Millisecond)

	// A crashed holder's lock expires
	acquired, err = lock.Acquire(ctx, "run:a", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}
