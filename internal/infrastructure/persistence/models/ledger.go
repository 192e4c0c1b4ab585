package models

import (
	"time"

	"github.com/finlens/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntityModel is the persistence model for the Entity domain entity.
type EntityModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID          uuid.UUID `gorm:"type:uuid;not null;index:idx_entities_company,priority:1"`
	Name               string    `gorm:"type:varchar(255);not null"`
	FunctionalCurrency string    `gorm:"type:varchar(10)"`
	Country            string    `gorm:"type:varchar(10)"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EntityModel) TableName() string {
	return "entities"
}

// ToDomain converts the persistence model to a domain Entity.
func (m *EntityModel) ToDomain() *ledger.Entity {
	return &ledger.Entity{
		ID:                 m.ID,
		CompanyID:          m.CompanyID,
		Name:               m.Name,
		FunctionalCurrency: m.FunctionalCurrency,
		Country:            m.Country,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Entity.
func (m *EntityModel) FromDomain(e *ledger.Entity) {
	m.ID = e.ID
	m.CompanyID = e.CompanyID
	m.Name = e.Name
	m.FunctionalCurrency = e.FunctionalCurrency
	m.Country = e.Country
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// ChartOfAccountModel is the persistence model for the ChartOfAccount
// domain entity. (company_id, account_code) is the natural key.
type ChartOfAccountModel struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key"`
	CompanyID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_coa_company_code,priority:1"`
	AccountCode         string     `gorm:"type:varchar(100);not null;uniqueIndex:uq_coa_company_code,priority:2"`
	AccountName         string     `gorm:"type:varchar(255)"`
	ClassName           string     `gorm:"type:varchar(50);not null"`
	SubclassName        string     `gorm:"type:varchar(100);not null"`
	GLCode              string     `gorm:"type:varchar(100)"`
	GLName              string     `gorm:"type:varchar(255)"`
	Description         string     `gorm:"type:text"`
	EntityID            *uuid.UUID `gorm:"type:uuid;index"`
	IsActive            bool       `gorm:"not null;default:true"`
	ExternalID          string     `gorm:"type:varchar(100);index"`
	ExternalAccountType string     `gorm:"type:varchar(50)"`
	CreatedAt           time.Time  `gorm:"not null"`
	UpdatedAt           time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChartOfAccountModel) TableName() string {
	return "chart_of_accounts"
}

// ToDomain converts the persistence model to a domain ChartOfAccount.
func (m *ChartOfAccountModel) ToDomain() *ledger.ChartOfAccount {
	return &ledger.ChartOfAccount{
		ID:                  m.ID,
		CompanyID:           m.CompanyID,
		AccountCode:         m.AccountCode,
		AccountName:         m.AccountName,
		ClassName:           m.ClassName,
		SubclassName:        m.SubclassName,
		GLCode:              m.GLCode,
		GLName:              m.GLName,
		Description:         m.Description,
		EntityID:            m.EntityID,
		Active:              m.IsActive,
		ExternalID:          m.ExternalID,
		ExternalAccountType: m.ExternalAccountType,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ChartOfAccount.
func (m *ChartOfAccountModel) FromDomain(a *ledger.ChartOfAccount) {
	m.ID = a.ID
	m.CompanyID = a.CompanyID
	m.AccountCode = a.AccountCode
	m.AccountName = a.AccountName
	m.ClassName = a.ClassName
	m.SubclassName = a.SubclassName
	m.GLCode = a.GLCode
	m.GLName = a.GLName
	m.Description = a.Description
	m.EntityID = a.EntityID
	m.IsActive = a.Active
	m.ExternalID = a.ExternalID
	m.ExternalAccountType = a.ExternalAccountType
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
}

// TrialBalanceEntryModel is the persistence model for trial balance rows.
// Rows for one (company, entity, period) are replaced together on import.
type TrialBalanceEntryModel struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primary_key"`
	CompanyID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_tb_scope,priority:1"`
	EntityID             uuid.UUID       `gorm:"type:uuid;not null;index:idx_tb_scope,priority:2"`
	Period               string          `gorm:"type:varchar(100);not null;index:idx_tb_scope,priority:3"`
	AccountCode          string          `gorm:"type:varchar(100);not null"`
	AccountName          string          `gorm:"type:varchar(255)"`
	Debit                decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Credit               decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	ClassName            string          `gorm:"type:varchar(50)"`
	SubclassName         string          `gorm:"type:varchar(100)"`
	ExternalAccountID    string          `gorm:"type:varchar(100)"`
	ExternalSubsidiaryID string          `gorm:"type:varchar(100)"`
	CreatedAt            time.Time       `gorm:"not null"`
	UpdatedAt            time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TrialBalanceEntryModel) TableName() string {
	return "trial_balance_entries"
}

// ToDomain converts the persistence model to a domain TrialBalanceEntry.
func (m *TrialBalanceEntryModel) ToDomain() *ledger.TrialBalanceEntry {
	return &ledger.TrialBalanceEntry{
		ID:                   m.ID,
		CompanyID:            m.CompanyID,
		EntityID:             m.EntityID,
		Period:               m.Period,
		AccountCode:          m.AccountCode,
		AccountName:          m.AccountName,
		Debit:                m.Debit,
		Credit:               m.Credit,
		ClassName:            m.ClassName,
		SubclassName:         m.SubclassName,
		ExternalAccountID:    m.ExternalAccountID,
		ExternalSubsidiaryID: m.ExternalSubsidiaryID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain TrialBalanceEntry.
func (m *TrialBalanceEntryModel) FromDomain(e *ledger.TrialBalanceEntry) {
	m.ID = e.ID
	m.CompanyID = e.CompanyID
	m.EntityID = e.EntityID
	m.Period = e.Period
	m.AccountCode = e.AccountCode
	m.AccountName = e.AccountName
	m.Debit = e.Debit
	m.Credit = e.Credit
	m.ClassName = e.ClassName
	m.SubclassName = e.SubclassName
	m.ExternalAccountID = e.ExternalAccountID
	m.ExternalSubsidiaryID = e.ExternalSubsidiaryID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// ExchangeRateModel is the persistence model for exchange rates.
// (company_id, from, to, rate_date, rate_type) is the natural key.
type ExchangeRateModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	CompanyID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_rates_natural_key,priority:1"`
	FromCurrency string          `gorm:"type:varchar(10);not null;uniqueIndex:uq_rates_natural_key,priority:2"`
	ToCurrency   string          `gorm:"type:varchar(10);not null;uniqueIndex:uq_rates_natural_key,priority:3"`
	RateDate     time.Time       `gorm:"type:date;not null;uniqueIndex:uq_rates_natural_key,priority:4"`
	RateType     string          `gorm:"type:varchar(20);not null;uniqueIndex:uq_rates_natural_key,priority:5"`
	Rate         decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Source       string          `gorm:"type:varchar(50)"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExchangeRateModel) TableName() string {
	return "exchange_rates"
}

// ToDomain converts the persistence model to a domain ExchangeRate.
func (m *ExchangeRateModel) ToDomain() *ledger.ExchangeRate {
	return &ledger.ExchangeRate{
		ID:           m.ID,
		CompanyID:    m.CompanyID,
		FromCurrency: m.FromCurrency,
		ToCurrency:   m.ToCurrency,
		Rate:         m.Rate,
		RateDate:     m.RateDate,
		RateType:     m.RateType,
		Source:       m.Source,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ExchangeRate.
func (m *ExchangeRateModel) FromDomain(r *ledger.ExchangeRate) {
	m.ID = r.ID
	m.CompanyID = r.CompanyID
	m.FromCurrency = r.FromCurrency
	m.ToCurrency = r.ToCurrency
	m.Rate = r.Rate
	m.RateDate = r.RateDate
	m.RateType = r.RateType
	m.Source = r.Source
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
}
