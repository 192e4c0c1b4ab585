package erpsync

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Remote records
// ---------------------------------------------------------------------------

// Subsidiary is an organizational unit fetched from the remote ERP.
type Subsidiary struct {
	// ExternalID is the identifier assigned by the remote system
	ExternalID string
	// Name is the display name
	Name string
	// LegalName falls back to Name when the remote record has none
	LegalName string
	// Currency is the functional currency code (e.g. "USD")
	Currency string
	// FiscalCalendar is the remote fiscal calendar reference
	FiscalCalendar string
	// Country is the subsidiary's country code
	Country string
	// Active reports whether the subsidiary is active remotely
	Active bool
}

// Account is a general ledger account fetched from the remote ERP.
type Account struct {
	ExternalID  string
	Number      string
	Name        string
	Description string
	// TypeCode is the remote account type code (e.g. "Bank", "AcctRec")
	TypeCode string
	// TypeName is the resolved display name of the account type
	TypeName string
	// ParentID references the parent account in the remote system, if any
	ParentID string
	// Summary accounts group other accounts and carry no postings
	Summary bool
	Active  bool
}

// TrialBalanceLine is one aggregated account row of a remote trial balance.
type TrialBalanceLine struct {
	AccountID     string
	AccountNumber string
	AccountName   string
	AccountType   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	// Net is Debit minus Credit
	Net          decimal.Decimal
	SubsidiaryID string
}

// AccountingPeriod is a fiscal period fetched from the remote ERP.
type AccountingPeriod struct {
	ExternalID     string
	Name           string
	StartDate      time.Time
	EndDate        time.Time
	FiscalCalendar string
	Year           bool
	Quarter        bool
	Closed         bool
	Adjustment     bool
}

// ExchangeRate is a consolidated currency rate fetched from the remote ERP.
type ExchangeRate struct {
	FromCurrency  string
	ToCurrency    string
	Rate          decimal.Decimal
	EffectiveDate time.Time
}

// DateRange bounds trial balance and exchange rate queries.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ConnectionTestResult reports the outcome of a connectivity probe.
// A failed probe is a result, not an error.
type ConnectionTestResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	AccountID string    `json:"account_id"`
	Sandbox   bool      `json:"sandbox"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}

// ---------------------------------------------------------------------------
// Connector port
// ---------------------------------------------------------------------------

// Connector is the port implemented by ERP protocol adapters. All fetch
// methods return fully decoded, validated records; raw wire rows never
// cross this boundary.
type Connector interface {
	// TestConnection probes the remote system. It never returns an error;
	// failures are reported inside the result.
	TestConnection(ctx context.Context) ConnectionTestResult

	// FetchSubsidiaries returns all active subsidiaries ordered by name.
	FetchSubsidiaries(ctx context.Context) ([]Subsidiary, error)

	// FetchChartOfAccounts returns active accounts, optionally scoped to a
	// subsidiary. Pass an empty subsidiaryID for all subsidiaries.
	FetchChartOfAccounts(ctx context.Context, subsidiaryID string) ([]Account, error)

	// FetchTrialBalance aggregates posted activity per account for the
	// given subsidiary. periodID scopes to a posting period; dates, when
	// non-nil, bound the transaction date instead or in addition.
	// Accounts with no activity are excluded.
	FetchTrialBalance(ctx context.Context, subsidiaryID, periodID string, dates *DateRange) ([]TrialBalanceLine, error)

	// FetchAccountingPeriods returns the most recent active periods,
	// newest first.
	FetchAccountingPeriods(ctx context.Context) ([]AccountingPeriod, error)

	// FetchExchangeRates returns consolidated rates effective within the
	// range. Remote accounts without rate data yield an empty slice and
	// no error.
	FetchExchangeRates(ctx context.Context, dates DateRange) ([]ExchangeRate, error)

	// FetchBalanceSheetAccounts returns active accounts whose type sits on
	// the balance sheet side of the statement split.
	FetchBalanceSheetAccounts(ctx context.Context, subsidiaryID string) ([]Account, error)

	// FetchIncomeStatementAccounts returns active accounts whose type sits
	// on the income statement side of the statement split.
	FetchIncomeStatementAccounts(ctx context.Context, subsidiaryID string) ([]Account, error)
}

// ConnectorFactory builds a Connector from integration credentials.
// The application layer uses it so transports stay swappable in tests.
type ConnectorFactory func(creds Credentials) (Connector, error)
