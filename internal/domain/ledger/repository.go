package ledger

import (
	"context"

	"github.com/google/uuid"
)

// EntityRepository persists entities.
type EntityRepository interface {
	Create(ctx context.Context, entity *Entity) error
	Update(ctx context.Context, entity *Entity) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Entity, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*Entity, error)
}

// ChartOfAccountRepository persists chart of accounts records.
type ChartOfAccountRepository interface {
	Create(ctx context.Context, account *ChartOfAccount) error
	Update(ctx context.Context, account *ChartOfAccount) error
	// FindByCode looks up an account by its natural key. Returns
	// shared.ErrNotFound when absent.
	FindByCode(ctx context.Context, companyID uuid.UUID, accountCode string) (*ChartOfAccount, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*ChartOfAccount, error)
}

// TrialBalanceRepository persists trial balance entries. Imports replace
// the full set for a (company, entity, period).
type TrialBalanceRepository interface {
	DeleteByPeriod(ctx context.Context, companyID, entityID uuid.UUID, period string) error
	CreateBatch(ctx context.Context, entries []*TrialBalanceEntry) error
	FindByPeriod(ctx context.Context, companyID, entityID uuid.UUID, period string) ([]*TrialBalanceEntry, error)
}

// ExchangeRateRepository persists exchange rates.
type ExchangeRateRepository interface {
	// Upsert inserts the rate or updates the row matching its natural key
	// (from, to, date, type). Reports whether a new row was created.
	Upsert(ctx context.Context, rate *ExchangeRate) (created bool, err error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*ExchangeRate, error)
}
