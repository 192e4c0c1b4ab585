package erpsync

import (
	"time"

	"github.com/google/uuid"
)

// SyncType selects which domains a run synchronizes.
type SyncType string

const (
	SyncTypeFull            SyncType = "full"
	SyncTypeSubsidiaries    SyncType = "subsidiaries"
	SyncTypeChartOfAccounts SyncType = "chart_of_accounts"
	SyncTypeTrialBalance    SyncType = "trial_balance"
	SyncTypeExchangeRates   SyncType = "exchange_rates"
)

// IsValid checks if the sync type is supported
func (t SyncType) IsValid() bool {
	switch t {
	case SyncTypeFull, SyncTypeSubsidiaries, SyncTypeChartOfAccounts,
		SyncTypeTrialBalance, SyncTypeExchangeRates:
		return true
	}
	return false
}

// SyncStatus represents the lifecycle state of a sync run.
type SyncStatus string

const (
	SyncStatusInProgress SyncStatus = "in_progress"
	SyncStatusCompleted  SyncStatus = "completed"
	SyncStatusFailed     SyncStatus = "failed"
)

// ---------------------------------------------------------------------------
// Per-domain results
// ---------------------------------------------------------------------------

// SubsidiaryResult summarizes a subsidiary sync step.
type SubsidiaryResult struct {
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

// AccountResult summarizes a chart of accounts sync step.
type AccountResult struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Errors   int `json:"errors"`
}

// TrialBalanceResult summarizes a trial balance sync step.
type TrialBalanceResult struct {
	Total    int       `json:"total"`
	Imported int       `json:"imported"`
	Errors   int       `json:"errors"`
	EntityID uuid.UUID `json:"entity_id"`
	Period   string    `json:"period"`
}

// ExchangeRateResult summarizes an exchange rate sync step. A failed step
// reports its error here instead of failing the run.
type ExchangeRateResult struct {
	Total    int    `json:"total"`
	Imported int    `json:"imported"`
	Updated  int    `json:"updated"`
	Error    string `json:"error,omitempty"`
}

// FullSyncResult aggregates the per-domain outcomes of one run. Steps that
// did not execute stay nil; completed step results are retained even when a
// later step fails the run.
type FullSyncResult struct {
	Subsidiaries    *SubsidiaryResult   `json:"subsidiaries,omitempty"`
	ChartOfAccounts *AccountResult      `json:"chart_of_accounts,omitempty"`
	TrialBalance    *TrialBalanceResult `json:"trial_balance,omitempty"`
	ExchangeRates   *ExchangeRateResult `json:"exchange_rates,omitempty"`

	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	Error           string    `json:"error,omitempty"`
}

// TotalRecords sums the records fetched across all executed steps.
func (r *FullSyncResult) TotalRecords() int {
	total := 0
	if r.Subsidiaries != nil {
		total += r.Subsidiaries.Total
	}
	if r.ChartOfAccounts != nil {
		total += r.ChartOfAccounts.Total
	}
	if r.TrialBalance != nil {
		total += r.TrialBalance.Total
	}
	if r.ExchangeRates != nil {
		total += r.ExchangeRates.Total
	}
	return total
}

// ImportedRecords sums the records written across all executed steps.
func (r *FullSyncResult) ImportedRecords() int {
	total := 0
	if r.Subsidiaries != nil {
		total += r.Subsidiaries.Synced
	}
	if r.ChartOfAccounts != nil {
		total += r.ChartOfAccounts.Imported + r.ChartOfAccounts.Updated
	}
	if r.TrialBalance != nil {
		total += r.TrialBalance.Imported
	}
	if r.ExchangeRates != nil {
		total += r.ExchangeRates.Imported + r.ExchangeRates.Updated
	}
	return total
}

// FailedRecords sums the per-row failures across all executed steps.
func (r *FullSyncResult) FailedRecords() int {
	total := 0
	if r.ChartOfAccounts != nil {
		total += r.ChartOfAccounts.Errors
	}
	if r.TrialBalance != nil {
		total += r.TrialBalance.Errors
	}
	return total
}

// ---------------------------------------------------------------------------
// Sync run
// ---------------------------------------------------------------------------

// SyncRun is the audit record of one sync execution.
type SyncRun struct {
	ID            uuid.UUID
	IntegrationID uuid.UUID
	CompanyID     uuid.UUID
	SyncType      SyncType
	Status        SyncStatus
	TriggeredBy   string

	StartedAt   time.Time
	CompletedAt *time.Time

	RecordsFetched  int
	RecordsImported int
	RecordsFailed   int

	// Summary carries the serialized FullSyncResult
	Summary      *FullSyncResult
	ErrorMessage string
}

// NewSyncRun creates a run in progress.
func NewSyncRun(integrationID, companyID uuid.UUID, syncType SyncType, triggeredBy string) *SyncRun {
	return &SyncRun{
		ID:            uuid.New(),
		IntegrationID: integrationID,
		CompanyID:     companyID,
		SyncType:      syncType,
		Status:        SyncStatusInProgress,
		TriggeredBy:   triggeredBy,
		StartedAt:     time.Now(),
	}
}

// Complete marks the run finished and folds in the result counters.
func (r *SyncRun) Complete(result *FullSyncResult) {
	now := time.Now()
	r.Status = SyncStatusCompleted
	r.CompletedAt = &now
	r.applyResult(result)
}

// Fail marks the run failed, keeping the counters of the steps that did
// complete before the failure.
func (r *SyncRun) Fail(result *FullSyncResult, errMsg string) {
	now := time.Now()
	r.Status = SyncStatusFailed
	r.CompletedAt = &now
	r.ErrorMessage = errMsg
	r.applyResult(result)
}

// Duration reports the wall time of the run.
func (r *SyncRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return time.Since(r.StartedAt)
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

func (r *SyncRun) applyResult(result *FullSyncResult) {
	if result == nil {
		return
	}
	r.Summary = result
	r.RecordsFetched = result.TotalRecords()
	r.RecordsImported = result.ImportedRecords()
	r.RecordsFailed = result.FailedRecords()
}
