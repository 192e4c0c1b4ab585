// Package ledger holds the consolidation entities the sync engine writes:
// entities (legal units), chart of accounts, trial balance entries and
// exchange rates. Every record belongs to exactly one company.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entity is a legal or reporting unit of a company. Entities are created by
// administrators; synchronization only refreshes name and currency on
// entities already mapped to a remote subsidiary.
type Entity struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
	// FunctionalCurrency is the entity's accounting currency code
	FunctionalCurrency string
	Country            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ChartOfAccount is one local general ledger account. Accounts are unique
// per company by account code.
type ChartOfAccount struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	AccountCode string
	AccountName string
	// ClassName and SubclassName position the account in the reporting
	// hierarchy
	ClassName    string
	SubclassName string
	// GLCode and GLName mirror the remote ledger identifiers
	GLCode      string
	GLName      string
	Description string
	// EntityID scopes the account to one entity; nil means company-wide
	EntityID *uuid.UUID
	Active   bool

	// ExternalID and ExternalAccountType trace the record back to the
	// remote system
	ExternalID          string
	ExternalAccountType string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrialBalanceEntry is one account balance of an entity for a period.
// Entries for a (company, entity, period) are replaced wholesale on each
// sync.
type TrialBalanceEntry struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	EntityID  uuid.UUID
	// Period names the accounting period, e.g. "Jan 2026"
	Period      string
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	// ClassName and SubclassName are denormalized from the chart of
	// accounts at import time
	ClassName    string
	SubclassName string

	ExternalAccountID    string
	ExternalSubsidiaryID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Net reports debit minus credit.
func (e *TrialBalanceEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// Exchange rate types
const (
	RateTypeSpot = "Spot"
)

// ExchangeRate is one currency pair rate for a date. Rates are unique per
// company by (from, to, date, type).
type ExchangeRate struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	RateDate     time.Time
	RateType     string
	// Source names the system the rate came from, e.g. "NetSuite"
	Source string

	CreatedAt time.Time
	UpdatedAt time.Time
}
