package cache

import (
	"context"
	"sync"
	"time"

	"github.com/finlens/backend/internal/domain/erpsync"
)

// InMemoryRunLock implements erpsync.RunLock with a process-local map.
// Suitable for single-instance deployments and tests; distributed
// deployments should use RedisRunLock.
type InMemoryRunLock struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

// NewInMemoryRunLock creates a new in-memory run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{locks: make(map[string]time.Time)}
}

// Acquire takes the lock unless a live holder exists. Expired holders are
// evicted lazily.
func (l *InMemoryRunLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, held := l.locks[key]; held && time.Now().Before(expiry) {
		return false, nil
	}
	l.locks[key] = time.Now().Add(ttl)
	return true, nil
}

// Release frees the lock
func (l *InMemoryRunLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
	return nil
}

// Ensure InMemoryRunLock implements erpsync.RunLock
var _ erpsync.RunLock = (*InMemoryRunLock)(nil)
