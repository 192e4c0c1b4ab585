// Package erpsync orchestrates synchronization runs between a remote ERP
// and the local consolidation ledger.
package erpsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finlens/backend/internal/domain/erpsync"
	"github.com/finlens/backend/internal/domain/ledger"
	"github.com/finlens/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// runLockTTL bounds how long a crashed run can block its integration.
const runLockTTL = 30 * time.Minute

// defaultRateWindow is the exchange rate lookback when a run specifies no
// date range.
const defaultRateWindow = 30 * 24 * time.Hour

// SyncOptions parameterizes one sync run.
type SyncOptions struct {
	SyncType erpsync.SyncType
	// SubsidiaryID and PeriodID scope the trial balance step. Full runs
	// skip that step with a warning when either is missing.
	SubsidiaryID string
	PeriodID     string
	// PeriodName labels imported trial balance entries. Derived from the
	// date range when empty.
	PeriodName string
	// StartDate and EndDate bound trial balance and exchange rate queries
	StartDate time.Time
	EndDate   time.Time
	// TriggeredBy records who started the run, defaulting to "manual"
	TriggeredBy string
}

// SyncService executes sync runs. One run per integration executes at a
// time; domains within a run are strictly sequential.
type SyncService struct {
	integrations  erpsync.IntegrationRepository
	runs          erpsync.SyncRunRepository
	syncLogs      erpsync.SyncLogRepository
	entities      ledger.EntityRepository
	accounts      ledger.ChartOfAccountRepository
	trialBalances ledger.TrialBalanceRepository
	rates         ledger.ExchangeRateRepository
	connectors    erpsync.ConnectorFactory
	lock          erpsync.RunLock
	logger        *zap.Logger
}

// NewSyncService creates a sync service.
func NewSyncService(
	integrations erpsync.IntegrationRepository,
	runs erpsync.SyncRunRepository,
	syncLogs erpsync.SyncLogRepository,
	entities ledger.EntityRepository,
	accounts ledger.ChartOfAccountRepository,
	trialBalances ledger.TrialBalanceRepository,
	rates ledger.ExchangeRateRepository,
	connectors erpsync.ConnectorFactory,
	lock erpsync.RunLock,
	log *zap.Logger,
) *SyncService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncService{
		integrations:  integrations,
		runs:          runs,
		syncLogs:      syncLogs,
		entities:      entities,
		accounts:      accounts,
		trialBalances: trialBalances,
		rates:         rates,
		connectors:    connectors,
		lock:          lock,
		logger:        log.Named("erpsync"),
	}
}

// ExecuteSync runs a synchronization for the integration and records it as
// a SyncRun. The returned run carries the per-domain results; the error
// reports why a failed run failed.
func (s *SyncService) ExecuteSync(ctx context.Context, companyID, integrationID uuid.UUID, opts SyncOptions) (*erpsync.SyncRun, error) {
	if opts.SyncType == "" {
		opts.SyncType = erpsync.SyncTypeFull
	}
	if !opts.SyncType.IsValid() {
		return nil, shared.ErrInvalidInput
	}
	if opts.TriggeredBy == "" {
		opts.TriggeredBy = "manual"
	}

	integration, err := s.integrations.FindByID(ctx, companyID, integrationID)
	if err != nil {
		return nil, err
	}
	if !integration.Active {
		return nil, erpsync.ErrIntegrationInactive
	}

	lockKey := "erpsync:run:" + integrationID.String()
	acquired, err := s.lock.Acquire(ctx, lockKey, runLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		return nil, erpsync.ErrSyncAlreadyRunning
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn("failed to release run lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	connector, err := s.connectors(integration.Credentials)
	if err != nil {
		return nil, err
	}

	run := erpsync.NewSyncRun(integrationID, companyID, opts.SyncType, opts.TriggeredBy)
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create sync run: %w", err)
	}

	rl := erpsync.NewRunLogger(s.logger.With(
		zap.String("run_id", run.ID.String()),
		zap.String("integration_id", integrationID.String()),
	))

	result, syncErr := s.executeDomains(ctx, integration, connector, rl, opts)
	if syncErr != nil {
		run.Fail(result, syncErr.Error())
	} else {
		run.Complete(result)
	}

	// Run bookkeeping must survive a canceled sync context.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.runs.Update(persistCtx, run); err != nil {
		s.logger.Error("failed to persist sync run", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
	if entries := rl.Entries(run.ID, companyID); len(entries) > 0 {
		if err := s.syncLogs.CreateBatch(persistCtx, entries); err != nil {
			s.logger.Error("failed to persist sync logs", zap.String("run_id", run.ID.String()), zap.Error(err))
		}
	}

	return run, syncErr
}

// executeDomains runs the selected domains in dependency order. A failing
// required step aborts the remainder but the results of completed steps
// are retained.
func (s *SyncService) executeDomains(ctx context.Context, integration *erpsync.Integration, connector erpsync.Connector, rl *erpsync.RunLogger, opts SyncOptions) (*erpsync.FullSyncResult, error) {
	result := &erpsync.FullSyncResult{StartTime: time.Now()}
	finish := func(err error) (*erpsync.FullSyncResult, error) {
		result.EndTime = time.Now()
		result.DurationSeconds = result.EndTime.Sub(result.StartTime).Seconds()
		if err != nil {
			result.Error = err.Error()
		}
		return result, err
	}

	full := opts.SyncType == erpsync.SyncTypeFull

	if opts.SyncType == erpsync.SyncTypeSubsidiaries || (full && integration.SyncEntities) {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		rl.Info("syncing subsidiaries", nil)
		sub, err := s.syncSubsidiaries(ctx, integration, connector, rl)
		if err != nil {
			return finish(err)
		}
		result.Subsidiaries = sub
	}

	if opts.SyncType == erpsync.SyncTypeChartOfAccounts || (full && integration.SyncChartOfAccounts) {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		rl.Info("syncing chart of accounts", nil)
		coa, err := s.syncChartOfAccounts(ctx, integration, connector, rl, opts.SubsidiaryID)
		if err != nil {
			return finish(err)
		}
		result.ChartOfAccounts = coa
	}

	if opts.SyncType == erpsync.SyncTypeTrialBalance || (full && integration.SyncTrialBalance) {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		missingScope := opts.SubsidiaryID == "" ||
			(opts.PeriodID == "" && (opts.StartDate.IsZero() || opts.EndDate.IsZero()))
		if missingScope {
			if full {
				rl.Warn("skipping trial balance: subsidiary and period not specified", nil)
			} else {
				return finish(fmt.Errorf("%w: trial balance sync requires a subsidiary and a period", shared.ErrInvalidInput))
			}
		} else {
			rl.Info("syncing trial balance", map[string]any{
				"subsidiary_id": opts.SubsidiaryID,
				"period_id":     opts.PeriodID,
			})
			tb, err := s.syncTrialBalance(ctx, integration, connector, rl, opts)
			if err != nil {
				return finish(err)
			}
			result.TrialBalance = tb
		}
	}

	if opts.SyncType == erpsync.SyncTypeExchangeRates || (full && integration.SyncExchangeRates) {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		rl.Info("syncing exchange rates", nil)
		result.ExchangeRates = s.syncExchangeRates(ctx, integration, connector, rl, opts)
	}

	return finish(nil)
}

// syncSubsidiaries refreshes name and currency on entities mapped to remote
// subsidiaries. Unmapped subsidiaries are skipped, never created.
func (s *SyncService) syncSubsidiaries(ctx context.Context, integration *erpsync.Integration, connector erpsync.Connector, rl *erpsync.RunLogger) (*erpsync.SubsidiaryResult, error) {
	subsidiaries, err := connector.FetchSubsidiaries(ctx)
	if err != nil {
		return nil, err
	}

	result := &erpsync.SubsidiaryResult{Total: len(subsidiaries)}
	for _, sub := range subsidiaries {
		entityID, mapped := integration.EntityMapping.EntityFor(sub.ExternalID)
		if !mapped {
			result.Skipped++
			rl.Warn("subsidiary has no entity mapping", map[string]any{
				"subsidiary_id": sub.ExternalID,
				"name":          sub.Name,
			})
			continue
		}

		entity, err := s.entities.FindByID(ctx, integration.CompanyID, entityID)
		if err != nil {
			result.Skipped++
			rl.Error("mapped entity not found", map[string]any{
				"subsidiary_id": sub.ExternalID,
				"entity_id":     entityID.String(),
				"error":         err.Error(),
			})
			continue
		}

		entity.Name = sub.Name
		entity.FunctionalCurrency = sub.Currency
		if err := s.entities.Update(ctx, entity); err != nil {
			result.Skipped++
			rl.Error("entity update failed", map[string]any{
				"entity_id": entityID.String(),
				"error":     err.Error(),
			})
			continue
		}
		result.Synced++
	}

	rl.Info("subsidiaries synced", map[string]any{
		"total":   result.Total,
		"synced":  result.Synced,
		"skipped": result.Skipped,
	})
	return result, nil
}

// syncChartOfAccounts upserts remote accounts by their natural key
// (company, account code). Row failures are counted and do not stop the
// step.
func (s *SyncService) syncChartOfAccounts(ctx context.Context, integration *erpsync.Integration, connector erpsync.Connector, rl *erpsync.RunLogger, subsidiaryID string) (*erpsync.AccountResult, error) {
	accounts, err := connector.FetchChartOfAccounts(ctx, subsidiaryID)
	if err != nil {
		return nil, err
	}

	result := &erpsync.AccountResult{Total: len(accounts)}
	for _, account := range accounts {
		classification := erpsync.Classify(account.TypeCode)

		existing, err := s.accounts.FindByCode(ctx, integration.CompanyID, account.Number)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			record := &ledger.ChartOfAccount{
				ID:                  uuid.New(),
				CompanyID:           integration.CompanyID,
				AccountCode:         account.Number,
				AccountName:         account.Name,
				ClassName:           classification.Class,
				SubclassName:        classification.Subclass,
				GLCode:              account.Number,
				GLName:              account.Name,
				Description:         account.Description,
				Active:              account.Active,
				ExternalID:          account.ExternalID,
				ExternalAccountType: account.TypeCode,
			}
			if err := s.accounts.Create(ctx, record); err != nil {
				result.Errors++
				rl.Error("account insert failed", map[string]any{
					"account_code": account.Number,
					"error":        err.Error(),
				})
				continue
			}
			result.Imported++

		case err != nil:
			result.Errors++
			rl.Error("account lookup failed", map[string]any{
				"account_code": account.Number,
				"error":        err.Error(),
			})

		default:
			existing.AccountName = account.Name
			existing.ClassName = classification.Class
			existing.SubclassName = classification.Subclass
			existing.GLCode = account.Number
			existing.GLName = account.Name
			existing.Description = account.Description
			existing.Active = account.Active
			existing.ExternalID = account.ExternalID
			existing.ExternalAccountType = account.TypeCode
			if err := s.accounts.Update(ctx, existing); err != nil {
				result.Errors++
				rl.Error("account update failed", map[string]any{
					"account_code": account.Number,
					"error":        err.Error(),
				})
				continue
			}
			result.Updated++
		}
	}

	rl.Info("chart of accounts synced", map[string]any{
		"total":    result.Total,
		"imported": result.Imported,
		"updated":  result.Updated,
		"errors":   result.Errors,
	})
	return result, nil
}

// syncTrialBalance replaces the trial balance of one entity and period.
// The subsidiary must be mapped to an entity before any write happens.
func (s *SyncService) syncTrialBalance(ctx context.Context, integration *erpsync.Integration, connector erpsync.Connector, rl *erpsync.RunLogger, opts SyncOptions) (*erpsync.TrialBalanceResult, error) {
	entityID, mapped := integration.EntityMapping.EntityFor(opts.SubsidiaryID)
	if !mapped {
		return nil, fmt.Errorf("%w: subsidiary %s", erpsync.ErrEntityMappingNotFound, opts.SubsidiaryID)
	}

	var dates *erpsync.DateRange
	if !opts.StartDate.IsZero() && !opts.EndDate.IsZero() {
		dates = &erpsync.DateRange{Start: opts.StartDate, End: opts.EndDate}
	}

	period := opts.PeriodName
	if period == "" {
		if dates != nil {
			period = fmt.Sprintf("%s_%s", opts.StartDate.Format("2006-01-02"), opts.EndDate.Format("2006-01-02"))
		} else {
			period = "period_" + opts.PeriodID
		}
	}

	lines, err := connector.FetchTrialBalance(ctx, opts.SubsidiaryID, opts.PeriodID, dates)
	if err != nil {
		return nil, err
	}

	result := &erpsync.TrialBalanceResult{
		Total:    len(lines),
		EntityID: entityID,
		Period:   period,
	}

	// Replace the period wholesale so reruns converge
	if err := s.trialBalances.DeleteByPeriod(ctx, integration.CompanyID, entityID, period); err != nil {
		return nil, fmt.Errorf("clear existing trial balance: %w", err)
	}

	entries := make([]*ledger.TrialBalanceEntry, 0, len(lines))
	for _, line := range lines {
		account, err := s.accounts.FindByCode(ctx, integration.CompanyID, line.AccountNumber)
		if errors.Is(err, shared.ErrNotFound) {
			rl.Warn("account not in chart of accounts, skipping line", map[string]any{
				"account_code": line.AccountNumber,
				"account_name": line.AccountName,
			})
			continue
		}
		if err != nil {
			result.Errors++
			rl.Error("account lookup failed", map[string]any{
				"account_code": line.AccountNumber,
				"error":        err.Error(),
			})
			continue
		}

		entries = append(entries, &ledger.TrialBalanceEntry{
			ID:                   uuid.New(),
			CompanyID:            integration.CompanyID,
			EntityID:             entityID,
			Period:               period,
			AccountCode:          line.AccountNumber,
			AccountName:          line.AccountName,
			Debit:                line.Debit,
			Credit:               line.Credit,
			ClassName:            account.ClassName,
			SubclassName:         account.SubclassName,
			ExternalAccountID:    line.AccountID,
			ExternalSubsidiaryID: line.SubsidiaryID,
		})
	}

	if len(entries) > 0 {
		if err := s.trialBalances.CreateBatch(ctx, entries); err != nil {
			return nil, fmt.Errorf("import trial balance: %w", err)
		}
	}
	result.Imported = len(entries)

	rl.Info("trial balance synced", map[string]any{
		"total":     result.Total,
		"imported":  result.Imported,
		"errors":    result.Errors,
		"entity_id": entityID.String(),
		"period":    period,
	})
	return result, nil
}

// syncExchangeRates upserts rates by natural key. The step is best effort:
// failures are reported in the result and never fail the run.
func (s *SyncService) syncExchangeRates(ctx context.Context, integration *erpsync.Integration, connector erpsync.Connector, rl *erpsync.RunLogger, opts SyncOptions) *erpsync.ExchangeRateResult {
	result := &erpsync.ExchangeRateResult{}

	dates := erpsync.DateRange{Start: opts.StartDate, End: opts.EndDate}
	if dates.Start.IsZero() || dates.End.IsZero() {
		dates.End = time.Now()
		dates.Start = dates.End.Add(-defaultRateWindow)
	}

	rates, err := connector.FetchExchangeRates(ctx, dates)
	if err != nil {
		result.Error = err.Error()
		rl.Warn("exchange rate fetch failed", map[string]any{"error": err.Error()})
		return result
	}
	result.Total = len(rates)

	for _, rate := range rates {
		record := &ledger.ExchangeRate{
			ID:           uuid.New(),
			CompanyID:    integration.CompanyID,
			FromCurrency: rate.FromCurrency,
			ToCurrency:   rate.ToCurrency,
			Rate:         rate.Rate,
			RateDate:     rate.EffectiveDate,
			RateType:     ledger.RateTypeSpot,
			Source:       "NetSuite",
		}
		created, err := s.rates.Upsert(ctx, record)
		if err != nil {
			result.Error = err.Error()
			rl.Error("exchange rate upsert failed", map[string]any{
				"from":  rate.FromCurrency,
				"to":    rate.ToCurrency,
				"error": err.Error(),
			})
			continue
		}
		if created {
			result.Imported++
		} else {
			result.Updated++
		}
	}

	rl.Info("exchange rates synced", map[string]any{
		"total":    result.Total,
		"imported": result.Imported,
		"updated":  result.Updated,
	})
	return result
}

// RunHistory returns the most recent runs of an integration.
func (s *SyncService) RunHistory(ctx context.Context, companyID, integrationID uuid.UUID, limit int) ([]*erpsync.SyncRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runs.FindByIntegration(ctx, companyID, integrationID, limit)
}

// RunLogs returns the persisted log entries of a run.
func (s *SyncService) RunLogs(ctx context.Context, companyID, runID uuid.UUID) ([]erpsync.SyncLogEntry, error) {
	return s.syncLogs.FindByRun(ctx, companyID, runID)
}
