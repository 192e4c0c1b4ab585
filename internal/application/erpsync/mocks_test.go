package erpsync

import (
	"context"
	"time"

	"github.com/finlens/backend/internal/domain/erpsync"
	"github.com/finlens/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockConnector is a mock implementation of erpsync.Connector
type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) TestConnection(ctx context.Context) erpsync.ConnectionTestResult {
	args := m.Called(ctx)
	return args.Get(0).(erpsync.ConnectionTestResult)
}

func (m *MockConnector) FetchSubsidiaries(ctx context.Context) ([]erpsync.Subsidiary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erpsync.Subsidiary), args.Error(1)
}

func (m *MockConnector) FetchChartOfAccounts(ctx context.Context, subsidiaryID string) ([]erpsync.Account, error) {
	args := m.Called(ctx, subsidiaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erpsync.Account), args.Error(1)
}

func (m *MockConnector) FetchTrialBalance(ctx context.Context, subsidiaryID, periodID string, dates *erpsync.DateRange) ([]erpsync.TrialBalanceLine, error) {
	args := m.Called(ctx, subsidiaryID, periodID, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erpsync.TrialBalanceLine), args.Error(1)
}

func (m *MockConnector) FetchAccountingPeriods(ctx context.Context) ([]erpsync.AccountingPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erpsync.AccountingPeriod), args.Error(1)
}

func (m *MockConnector) FetchExchangeRates(ctx context.Context, dates erpsync.DateRange) ([]erpsync.ExchangeRate, error) {
	args := m.Called(ctx, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erpsync.ExchangeRate), args.Error(1)
}

func (m *MockConnector) FetchBalanceSheetAccounts(ctx context.Context, subsidiaryID string) ([]erpsync.Account, error) {
	args := m.Called(ctx, subsidiaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erpsync.Account), args.Error(1)
}

func (m *MockConnector) FetchIncomeStatementAccounts(ctx context.Context, subsidiaryID string) ([]erpsync.Account, error) {
	args := m.Called(ctx, subsidiaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erpsync.Account), args.Error(1)
}

// MockIntegrationRepository is a mock implementation of erpsync.IntegrationRepository
type MockIntegrationRepository struct {
	mock.Mock
}

func (m *MockIntegrationRepository) Create(ctx context.Context, integration *erpsync.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationRepository) Update(ctx context.Context, integration *erpsync.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*erpsync.Integration, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*erpsync.Integration), args.Error(1)
}

func (m *MockIntegrationRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*erpsync.Integration, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*erpsync.Integration), args.Error(1)
}

// MockSyncRunRepository is a mock implementation of erpsync.SyncRunRepository
type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) Create(ctx context.Context, run *erpsync.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepository) Update(ctx context.Context, run *erpsync.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*erpsync.SyncRun, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*erpsync.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) FindByIntegration(ctx context.Context, companyID, integrationID uuid.UUID, limit int) ([]*erpsync.SyncRun, error) {
	args := m.Called(ctx, companyID, integrationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*erpsync.SyncRun), args.Error(1)
}

// MockSyncLogRepository is a mock implementation of erpsync.SyncLogRepository
type MockSyncLogRepository struct {
	mock.Mock
}

func (m *MockSyncLogRepository) CreateBatch(ctx context.Context, entries []erpsync.SyncLogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockSyncLogRepository) FindByRun(ctx context.Context, companyID, runID uuid.UUID) ([]erpsync.SyncLogEntry, error) {
	args := m.Called(ctx, companyID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erpsync.SyncLogEntry), args.Error(1)
}

// MockEntityRepository is a mock implementation of ledger.EntityRepository
type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) Create(ctx context.Context, entity *ledger.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) Update(ctx context.Context, entity *ledger.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*ledger.Entity, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entity), args.Error(1)
}

func (m *MockEntityRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*ledger.Entity, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entity), args.Error(1)
}

// MockChartOfAccountRepository is a mock implementation of ledger.ChartOfAccountRepository
type MockChartOfAccountRepository struct {
	mock.Mock
}

func (m *MockChartOfAccountRepository) Create(ctx context.Context, account *ledger.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockChartOfAccountRepository) Update(ctx context.Context, account *ledger.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockChartOfAccountRepository) FindByCode(ctx context.Context, companyID uuid.UUID, accountCode string) (*ledger.ChartOfAccount, error) {
	args := m.Called(ctx, companyID, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*ledger.ChartOfAccount, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.ChartOfAccount), args.Error(1)
}

// MockTrialBalanceRepository is a mock implementation of ledger.TrialBalanceRepository
type MockTrialBalanceRepository struct {
	mock.Mock
}

func (m *MockTrialBalanceRepository) DeleteByPeriod(ctx context.Context, companyID, entityID uuid.UUID, period string) error {
	args := m.Called(ctx, companyID, entityID, period)
	return args.Error(0)
}

func (m *MockTrialBalanceRepository) CreateBatch(ctx context.Context, entries []*ledger.TrialBalanceEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockTrialBalanceRepository) FindByPeriod(ctx context.Context, companyID, entityID uuid.UUID, period string) ([]*ledger.TrialBalanceEntry, error) {
	args := m.Called(ctx, companyID, entityID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.TrialBalanceEntry), args.Error(1)
}

// MockExchangeRateRepository is a mock implementation of ledger.ExchangeRateRepository
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) Upsert(ctx context.Context, rate *ledger.ExchangeRate) (bool, error) {
	args := m.Called(ctx, rate)
	return args.Bool(0), args.Error(1)
}

func (m *MockExchangeRateRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*ledger.ExchangeRate, error) {
	args := m.Called(ctx, companyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.ExchangeRate), args.Error(1)
}

// MockRunLock is a mock implementation of erpsync.RunLock
type MockRunLock struct {
	mock.Mock
}

func (m *MockRunLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockRunLock) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
