package netsuite

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/finlens/backend/internal/domain/erpsync"
	"go.uber.org/zap"
)

// SuiteQL has no bind parameter mechanism, so every interpolated value is
// validated first: internal ids must be unsigned integers and dates are
// rendered from time values. Anything else is rejected before a request is
// built.

func validateInternalID(name, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is empty", erpsync.ErrInvalidQueryArgument, name)
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return fmt.Errorf("%w: %s %q is not a numeric id", erpsync.ErrInvalidQueryArgument, name, id)
	}
	return nil
}

func validateDateRange(dates erpsync.DateRange) error {
	if dates.Start.IsZero() || dates.End.IsZero() {
		return fmt.Errorf("%w: date range requires both bounds", erpsync.ErrInvalidQueryArgument)
	}
	if dates.End.Before(dates.Start) {
		return fmt.Errorf("%w: date range end precedes start", erpsync.ErrInvalidQueryArgument)
	}
	return nil
}

func sqlDate(t interface{ Format(string) string }) string {
	return t.Format("2006-01-02")
}

// FetchSubsidiaries returns all active subsidiaries ordered by name.
func (c *Client) FetchSubsidiaries(ctx context.Context) ([]erpsync.Subsidiary, error) {
	const query = `SELECT id, name, legalName, currency, fiscalCalendar, country, isInactive
		FROM subsidiary WHERE isInactive = 'F' ORDER BY name`

	rows, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}

	subsidiaries := make([]erpsync.Subsidiary, 0, len(rows))
	for _, r := range rows {
		id := r.str("id")
		if id == "" {
			return nil, fmt.Errorf("%w: subsidiary row missing id", erpsync.ErrConnectorRequest)
		}
		name := r.str("name")
		subsidiaries = append(subsidiaries, erpsync.Subsidiary{
			ExternalID:     id,
			Name:           name,
			LegalName:      r.str("legalname", "name"),
			Currency:       r.str("currency"),
			FiscalCalendar: r.str("fiscalcalendar"),
			Country:        r.str("country"),
			Active:         !r.flag("isinactive"),
		})
	}
	return subsidiaries, nil
}

// FetchChartOfAccounts returns active accounts, optionally scoped to one
// subsidiary.
func (c *Client) FetchChartOfAccounts(ctx context.Context, subsidiaryID string) ([]erpsync.Account, error) {
	query := `SELECT a.id, a.acctnumber, a.acctname, a.description, a.accttype,
			a.isInactive, a.isSummary, at.name AS accountTypeName, a.parent
		FROM account a
		LEFT JOIN accountType at ON a.accttype = at.id
		WHERE a.isInactive = 'F'`

	if subsidiaryID != "" {
		if err := validateInternalID("subsidiary id", subsidiaryID); err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" AND a.subsidiary = %s", subsidiaryID)
	}
	query += " ORDER BY a.acctnumber"

	rows, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}
	return decodeAccounts(rows)
}

// FetchTrialBalance aggregates posted debit and credit per account for a
// subsidiary. Accounts with no activity are excluded server-side.
func (c *Client) FetchTrialBalance(ctx context.Context, subsidiaryID, periodID string, dates *erpsync.DateRange) ([]erpsync.TrialBalanceLine, error) {
	if err := validateInternalID("subsidiary id", subsidiaryID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT
			tl.account AS accountId,
			a.acctnumber AS accountNumber,
			a.acctname AS accountName,
			a.accttype AS accountType,
			SUM(CASE WHEN tl.debit = 'T' THEN tl.amount ELSE 0 END) AS totalDebit,
			SUM(CASE WHEN tl.credit = 'T' THEN tl.amount ELSE 0 END) AS totalCredit,
			tl.subsidiary
		FROM transactionLine tl
		INNER JOIN account a ON tl.account = a.id
		INNER JOIN transaction t ON tl.transaction = t.id
		WHERE tl.subsidiary = %s`, subsidiaryID)

	if periodID != "" {
		if err := validateInternalID("period id", periodID); err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" AND t.postingPeriod = %s", periodID)
	}
	if dates != nil {
		if err := validateDateRange(*dates); err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" AND t.trandate BETWEEN '%s' AND '%s'", sqlDate(dates.Start), sqlDate(dates.End))
	}

	query += ` GROUP BY tl.account, a.acctnumber, a.acctname, a.accttype, tl.subsidiary
		HAVING (SUM(CASE WHEN tl.debit = 'T' THEN tl.amount ELSE 0 END) != 0
			OR SUM(CASE WHEN tl.credit = 'T' THEN tl.amount ELSE 0 END) != 0)
		ORDER BY a.acctnumber`

	rows, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}

	lines := make([]erpsync.TrialBalanceLine, 0, len(rows))
	for _, r := range rows {
		accountID := r.str("accountid")
		if accountID == "" {
			return nil, fmt.Errorf("%w: trial balance row missing account id", erpsync.ErrConnectorRequest)
		}
		debit, err := r.dec("totaldebit")
		if err != nil {
			return nil, fmt.Errorf("%w: account %s: %v", erpsync.ErrConnectorRequest, accountID, err)
		}
		credit, err := r.dec("totalcredit")
		if err != nil {
			return nil, fmt.Errorf("%w: account %s: %v", erpsync.ErrConnectorRequest, accountID, err)
		}
		lines = append(lines, erpsync.TrialBalanceLine{
			AccountID:     accountID,
			AccountNumber: r.str("accountnumber"),
			AccountName:   r.str("accountname"),
			AccountType:   r.str("accounttype"),
			Debit:         debit,
			Credit:        credit,
			Net:           debit.Sub(credit),
			SubsidiaryID:  r.str("subsidiary"),
		})
	}

	c.logger.Debug("fetched trial balance",
		zap.String("subsidiary_id", subsidiaryID),
		zap.String("period_id", periodID),
		zap.Int("lines", len(lines)),
	)
	return lines, nil
}

// FetchAccountingPeriods returns the hundred most recent active periods,
// newest first.
func (c *Client) FetchAccountingPeriods(ctx context.Context) ([]erpsync.AccountingPeriod, error) {
	const query = `SELECT id, periodName, startDate, endDate, fiscalCalendar,
			isYear, isQuarter, isClosed, isAdjust
		FROM accountingPeriod WHERE isInactive = 'F'
		ORDER BY startDate DESC`

	page, err := c.queryPage(ctx, query, 100, 0)
	if err != nil {
		return nil, err
	}

	periods := make([]erpsync.AccountingPeriod, 0, len(page.Items))
	for _, r := range page.Items {
		id := r.str("id")
		if id == "" {
			return nil, fmt.Errorf("%w: accounting period row missing id", erpsync.ErrConnectorRequest)
		}
		start, err := r.date("startdate")
		if err != nil {
			return nil, fmt.Errorf("%w: period %s: %v", erpsync.ErrConnectorRequest, id, err)
		}
		end, err := r.date("enddate")
		if err != nil {
			return nil, fmt.Errorf("%w: period %s: %v", erpsync.ErrConnectorRequest, id, err)
		}
		periods = append(periods, erpsync.AccountingPeriod{
			ExternalID:     id,
			Name:           r.str("periodname"),
			StartDate:      start,
			EndDate:        end,
			FiscalCalendar: r.str("fiscalcalendar"),
			Year:           r.flag("isyear"),
			Quarter:        r.flag("isquarter"),
			Closed:         r.flag("isclosed"),
			Adjustment:     r.flag("isadjust"),
		})
	}
	return periods, nil
}

// FetchExchangeRates returns consolidated rates effective within the range.
// Accounts without consolidated rates yield an empty result, not an error.
func (c *Client) FetchExchangeRates(ctx context.Context, dates erpsync.DateRange) ([]erpsync.ExchangeRate, error) {
	if err := validateDateRange(dates); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT fromCurrency, toCurrency, exchangeRate, effectiveDate
		FROM consolidatedExchangeRate
		WHERE effectiveDate BETWEEN '%s' AND '%s'
		ORDER BY effectiveDate DESC, fromCurrency, toCurrency`,
		sqlDate(dates.Start), sqlDate(dates.End))

	rows, err := c.query(ctx, query)
	if err != nil {
		// Consolidated rates are an optional remote feature
		c.logger.Warn("exchange rates unavailable", zap.Error(err))
		return []erpsync.ExchangeRate{}, nil
	}

	rates := make([]erpsync.ExchangeRate, 0, len(rows))
	for _, r := range rows {
		rate, err := r.dec("exchangerate")
		if err != nil {
			c.logger.Warn("skipping malformed exchange rate row", zap.Error(err))
			continue
		}
		effective, err := r.date("effectivedate")
		if err != nil {
			c.logger.Warn("skipping malformed exchange rate row", zap.Error(err))
			continue
		}
		rates = append(rates, erpsync.ExchangeRate{
			FromCurrency:  r.str("fromcurrency"),
			ToCurrency:    r.str("tocurrency"),
			Rate:          rate,
			EffectiveDate: effective,
		})
	}
	return rates, nil
}

// FetchBalanceSheetAccounts returns active accounts with balance sheet
// account types.
func (c *Client) FetchBalanceSheetAccounts(ctx context.Context, subsidiaryID string) ([]erpsync.Account, error) {
	return c.fetchAccountsByType(ctx, subsidiaryID, erpsync.BalanceSheetTypes())
}

// FetchIncomeStatementAccounts returns active accounts with income
// statement account types.
func (c *Client) FetchIncomeStatementAccounts(ctx context.Context, subsidiaryID string) ([]erpsync.Account, error) {
	return c.fetchAccountsByType(ctx, subsidiaryID, erpsync.IncomeStatementTypes())
}

func (c *Client) fetchAccountsByType(ctx context.Context, subsidiaryID string, typeNames []string) ([]erpsync.Account, error) {
	quoted := make([]string, len(typeNames))
	for i, t := range typeNames {
		quoted[i] = "'" + t + "'"
	}

	query := fmt.Sprintf(`SELECT a.id, a.acctnumber, a.acctname, a.description, a.accttype,
			a.isInactive, a.isSummary, at.name AS accountTypeName, a.parent
		FROM account a
		LEFT JOIN accountType at ON a.accttype = at.id
		WHERE a.isInactive = 'F'
		AND at.name IN (%s)`, strings.Join(quoted, ","))

	if subsidiaryID != "" {
		if err := validateInternalID("subsidiary id", subsidiaryID); err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" AND a.subsidiary = %s", subsidiaryID)
	}
	query += " ORDER BY a.acctnumber"

	rows, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}
	return decodeAccounts(rows)
}

func decodeAccounts(rows []row) ([]erpsync.Account, error) {
	accounts := make([]erpsync.Account, 0, len(rows))
	for _, r := range rows {
		id := r.str("id")
		if id == "" {
			return nil, fmt.Errorf("%w: account row missing id", erpsync.ErrConnectorRequest)
		}
		number := r.str("acctnumber")
		if number == "" {
			return nil, fmt.Errorf("%w: account %s missing account number", erpsync.ErrConnectorRequest, id)
		}
		accounts = append(accounts, erpsync.Account{
			ExternalID:  id,
			Number:      number,
			Name:        r.str("acctname"),
			Description: r.str("description"),
			TypeCode:    r.str("accounttypename", "accttype"),
			TypeName:    r.str("accounttypename"),
			ParentID:    r.str("parent"),
			Summary:     r.flag("issummary"),
			Active:      !r.flag("isinactive"),
		})
	}
	return accounts, nil
}
