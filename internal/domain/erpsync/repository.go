package erpsync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IntegrationRepository persists integration aggregates. All lookups are
// scoped to a company.
type IntegrationRepository interface {
	Create(ctx context.Context, integration *Integration) error
	Update(ctx context.Context, integration *Integration) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Integration, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*Integration, error)
}

// SyncRunRepository persists sync run audit records.
type SyncRunRepository interface {
	Create(ctx context.Context, run *SyncRun) error
	Update(ctx context.Context, run *SyncRun) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*SyncRun, error)
	// FindByIntegration returns the most recent runs, newest first.
	FindByIntegration(ctx context.Context, companyID, integrationID uuid.UUID, limit int) ([]*SyncRun, error)
}

// SyncLogRepository persists buffered run log entries.
type SyncLogRepository interface {
	CreateBatch(ctx context.Context, entries []SyncLogEntry) error
	FindByRun(ctx context.Context, companyID, runID uuid.UUID) ([]SyncLogEntry, error)
}

// RunLock serializes sync runs per integration across instances.
type RunLock interface {
	// Acquire takes the lock, returning false when it is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
